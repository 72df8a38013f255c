package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
	"github.com/kritsw/wholesale-shop-backend/internal/order"
	"github.com/kritsw/wholesale-shop-backend/internal/user"
)

// ErrPaymentNotOpen blocks submissions while the order is not in the
// waiting_for_payment stage or no payment module has been selected yet.
var ErrPaymentNotOpen = errors.New("order is not accepting payments")

type Handler struct {
	service *Service
	orders  order.ServiceInterface
}

type submitRequest struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	TransactionRef string  `json:"transactionRef"`
}

type reviewRequest struct {
	Status Status `json:"status"`
}

func NewHandler(service *Service, orders order.ServiceInterface) *Handler {
	return &Handler{service: service, orders: orders}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders/:id<[0-9]+>/balance", h.getBalance)
	app.Get("/api/v1/orders/:id<[0-9]+>/payments", h.listPayments)
	app.Post("/api/v1/orders/:id<[0-9]+>/payments", h.submitPayment)
	app.Post("/api/v1/orders/:id<[0-9]+>/payment-details", h.uploadDetails)
	app.Get("/api/v1/orders/:id<[0-9]+>/payment-details", h.listDetails)
	app.Patch("/api/v1/payments/:paymentId/status", h.reviewPayment)
}

func (h *Handler) getBalance(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return paymentError(c, err)
	}

	required, remaining, err := h.service.PaymentRequired(ord)
	if err != nil {
		return paymentError(c, err)
	}

	return c.JSON(fiber.Map{
		"orderId":          ord.ID,
		"currency":         ord.Currency,
		"remainingBalance": remaining,
		"paymentRequired":  required,
	})
}

func (h *Handler) listPayments(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return paymentError(c, err)
	}

	payments, err := h.service.ListByOrder(ord.ID)
	if err != nil {
		return paymentError(c, err)
	}
	return c.JSON(payments)
}

func (h *Handler) submitPayment(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return paymentError(c, err)
	}

	payload := new(submitRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.TransactionRef == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "transactionRef is required"})
	}

	if order.CustomerFacingStatus(ord.Status) != order.StatusWaitingForPayment || ord.PaymentMethod == "" {
		return paymentError(c, ErrPaymentNotOpen)
	}

	p, err := h.service.Submit(ord, money.FromFloat(payload.Amount), payload.Currency, payload.TransactionRef)
	if err != nil {
		return paymentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *Handler) uploadDetails(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return paymentError(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}

	path := fmt.Sprintf("./uploads/payments/%d_%d_%s", ord.ID, time.Now().UnixNano(), file.Filename)
	if err := c.SaveFile(file, path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to store file"})
	}

	details, err := h.service.SaveDetails(Details{
		OrderID:   ord.ID,
		FilePath:  path,
		Note:      c.FormValue("note"),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return paymentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(details)
}

func (h *Handler) listDetails(c *fiber.Ctx) error {
	ord, err := h.ownedOrder(c)
	if err != nil {
		return paymentError(c, err)
	}

	details, err := h.service.ListDetails(ord.ID)
	if err != nil {
		return paymentError(c, err)
	}
	return c.JSON(details)
}

func (h *Handler) reviewPayment(c *fiber.Ctx) error {
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	switch payload.Status {
	case StatusVerify, StatusApproved, StatusPaid, StatusRejected:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid payment status"})
	}

	p, err := h.service.ReviewPayment(c.Params("paymentId"), payload.Status)
	if err != nil {
		return paymentError(c, err)
	}
	return c.JSON(p)
}

// ownedOrder loads the order from the :id param and verifies it belongs
// to the authenticated user.
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

func paymentError(c *fiber.Ctx, err error) error {
	var invalidAmount *InvalidAmountError
	var mismatch *CurrencyMismatchError

	switch {
	case errors.Is(err, fiber.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, fiber.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	case errors.Is(err, order.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	case errors.Is(err, order.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "order belongs to another user"})
	case errors.Is(err, ErrPaymentNotOpen):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "payment not found"})
	case errors.As(err, &mismatch):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":       mismatch.Error(),
			"given":         mismatch.Given,
			"orderCurrency": mismatch.OrderCurrency,
		})
	case errors.As(err, &invalidAmount):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message":          invalidAmount.Error(),
			"amount":           invalidAmount.Amount,
			"remainingBalance": invalidAmount.Remaining,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
