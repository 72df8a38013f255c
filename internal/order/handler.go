package order

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kritsw/wholesale-shop-backend/internal/cart"
	"github.com/kritsw/wholesale-shop-backend/internal/user"
)

// Handler delegates order operations to the order service. It also needs
// the user service to update user order lists and the cart service to
// snapshot and clear the cart on checkout.
type Handler struct {
	service     *Service
	userService user.ServiceInterface
	cartService cart.ServiceInterface
}

func NewHandler(s *Service, us user.ServiceInterface, cs cart.ServiceInterface) *Handler {
	return &Handler{service: s, userService: us, cartService: cs}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.getOrder)
	app.Post("/api/v1/orders/:id<[0-9]+>/cancel", h.cancelOrder)
	// admin-side endpoints
	app.Patch("/api/v1/orders/:id<[0-9]+>/status", h.changeStatus)
	app.Patch("/api/v1/orders/:id<[0-9]+>/payment-method", h.selectPaymentMethod)
}

type createOrderRequest struct {
	CurrentLocation  string `json:"currentLocation"`
	DeliveryLocation string `json:"deliveryLocation"`
	ShippingCountry  string `json:"shippingCountry"`
	Currency         string `json:"currency,omitempty"`
}

// orderResponse adds the customer-facing status so clients never see the
// administrative sub-stages.
type orderResponse struct {
	Order
	DisplayStatus Status `json:"displayStatus"`
}

func toResponse(o Order) orderResponse {
	return orderResponse{Order: o, DisplayStatus: CustomerFacingStatus(o.Status)}
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	items, violations, err := h.cartService.Validate(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart cannot be empty"})
	}
	if len(violations) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":    "cart failed validation",
			"violations": violations,
		})
	}
	groupMOQs, err := h.cartService.GroupMOQs(items)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(CreateRequest{
		UserID:           userID,
		Items:            items,
		GroupMOQs:        groupMOQs,
		CurrentLocation:  payload.CurrentLocation,
		DeliveryLocation: payload.DeliveryLocation,
		ShippingCountry:  payload.ShippingCountry,
		Currency:         payload.Currency,
	})
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message":    "cart failed validation",
				"violations": vErr.Violations,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	// checkout consumes the cart
	if err := h.cartService.Clear(userID); err != nil {
		fmt.Printf("warning: could not clear cart for user %d: %v\n", userID, err)
	}
	// append orderID to user's order list via userService
	if _, err := h.userService.AppendOrderID(userID, created.ID); err != nil {
		fmt.Printf("warning: could not append orderID to user %d: %v\n", userID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(created))
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))
	status := Status(c.Query("status"))

	orders, total, err := h.service.List(userID, status, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toResponse(o))
	}
	return c.JSON(fiber.Map{
		"orders": out,
		"total":  total,
		"page":   page,
	})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	ord, err := h.service.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}
	if ord.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}
	return c.JSON(toResponse(ord))
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	ord, err := h.service.Cancel(id, userID)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrNotOwner:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		case ErrNotCancellable:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(toResponse(ord))
}

type changeStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) changeStatus(c *fiber.Ctx) error {
	payload := new(changeStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "status is required"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	ord, err := h.service.ChangeStatus(id, payload.Status)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrIllegalTransition, ErrBalanceOutstanding:
			// hard failure: the caller must refetch and retry from fresh state
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(toResponse(ord))
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) selectPaymentMethod(c *fiber.Ctx) error {
	payload := new(paymentMethodRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	ord, err := h.service.SelectPaymentMethod(id, payload.PaymentMethod)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(toResponse(ord))
}
