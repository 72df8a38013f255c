package delivery

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kritsw/wholesale-shop-backend/internal/order"
	"github.com/kritsw/wholesale-shop-backend/internal/product"
	"github.com/kritsw/wholesale-shop-backend/internal/user"
)

type Handler struct {
	orders   order.ServiceInterface
	products product.ServiceInterface
}

type applyRequest struct {
	Option order.DeliveryOption `json:"option"`
}

func NewHandler(orders order.ServiceInterface, products product.ServiceInterface) *Handler {
	return &Handler{orders: orders, products: products}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders/:id<[0-9]+>/delivery-charge", h.previewCharge)
	app.Post("/api/v1/orders/:id<[0-9]+>/delivery-charge", h.applyCharge)
}

// previewCharge reports whether a chargeable delivery option exists for
// the order and what it would cost, without mutating anything.
func (h *Handler) previewCharge(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return deliveryError(c, err)
	}

	option, charge, err := h.eligibleCharge(ord)
	if err != nil {
		return deliveryError(c, err)
	}
	if option == "" {
		return c.JSON(fiber.Map{"eligible": false})
	}
	return c.JSON(fiber.Map{
		"eligible": true,
		"option":   option,
		"charge":   charge,
	})
}

func (h *Handler) applyCharge(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return deliveryError(c, err)
	}

	payload := new(applyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	option, charge, err := h.eligibleCharge(ord)
	if err != nil {
		return deliveryError(c, err)
	}
	if option == "" || (payload.Option != "" && payload.Option != option) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "requested delivery option is not available for this order",
		})
	}

	patch, err := ApplyCharge(ord, charge)
	if err != nil {
		return deliveryError(c, err)
	}

	updated, err := h.orders.ApplyPatch(ord.ID, patch)
	if err != nil {
		return deliveryError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) eligibleCharge(ord order.Order) (order.DeliveryOption, order.Charge, error) {
	ids := make([]int, 0, len(ord.Items))
	for _, item := range ord.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := h.products.ListByIDs(ids)
	if err != nil {
		return "", order.Charge{}, err
	}

	hasExpress, hasSameLocation, cfg := FromProducts(products)
	option := EligibleOption(ord, hasExpress, hasSameLocation)
	if option == "" {
		return "", order.Charge{}, nil
	}
	return option, ComputeCharge(option, cfg, ord.Subtotal), nil
}

func (h *Handler) ownedOrder(c *fiber.Ctx) (order.Order, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return order.Order{}, fiber.ErrUnauthorized
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return order.Order{}, fiber.ErrBadRequest
	}

	ord, err := h.orders.Get(id)
	if err != nil {
		return order.Order{}, err
	}
	if ord.UserID != userID {
		return order.Order{}, order.ErrNotOwner
	}
	return ord, nil
}

func deliveryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, fiber.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, fiber.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	case errors.Is(err, order.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	case errors.Is(err, order.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "order belongs to another user"})
	case errors.Is(err, ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
