package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/kritsw/wholesale-shop-backend/internal/cart"
	"github.com/kritsw/wholesale-shop-backend/internal/currency"
	"github.com/kritsw/wholesale-shop-backend/internal/money"
)

var (
	// ErrIllegalTransition signals a move outside the status graph. It is
	// a race or programming signal: the caller should refetch and retry
	// from fresh state, never swallow it.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrBalanceOutstanding blocks waiting_for_payment -> payment_received
	// while money is still owed.
	ErrBalanceOutstanding = errors.New("order still has an outstanding balance")
	ErrNotCancellable     = errors.New("order can no longer be cancelled by the customer")
	ErrNotOwner           = errors.New("order belongs to another user")
)

// ValidationError aggregates every cart violation found at submission so
// the client can show all of them at once.
type ValidationError struct {
	Violations []cart.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cart failed validation with %d violation(s)", len(e.Violations))
}

// BalanceResolver reports how much is still owed on an order. The payment
// ledger implements it; the order service only consumes it to gate the
// payment_received transition.
type BalanceResolver interface {
	RemainingBalance(o Order) (money.Money, error)
}

// CreateRequest carries everything needed to turn a validated cart into
// an order. The engine reads only these explicit inputs, never ambient
// state.
type CreateRequest struct {
	UserID           int
	Items            []cart.Item
	GroupMOQs        map[string]int
	CurrentLocation  string
	DeliveryLocation string
	ShippingCountry  string
	Currency         string // explicit user selection, may be empty
}

// Service provides business logic for orders.
type Service struct {
	repo    Repository
	balance BalanceResolver
}

// ServiceInterface is consumed by the delivery and payment handlers.
type ServiceInterface interface {
	Get(id int) (Order, error)
	ApplyPatch(id int, p Patch) (Order, error)
}

func NewService(repo Repository, balance BalanceResolver) *Service {
	return &Service{repo: repo, balance: balance}
}

// Create validates the cart, fixes the currency and persists a new order
// in state requested. The item slice is stored as an immutable snapshot.
func (s *Service) Create(req CreateRequest) (Order, error) {
	if req.UserID <= 0 {
		return Order{}, errors.New("invalid user")
	}
	if len(req.Items) == 0 {
		return Order{}, errors.New("empty cart")
	}
	if violations := cart.ValidateCart(req.Items, req.GroupMOQs); len(violations) > 0 {
		return Order{}, &ValidationError{Violations: violations}
	}

	subtotal := cart.Subtotal(req.Items)
	now := time.Now().UTC().Format(time.RFC3339)
	ord := Order{
		UserID:           req.UserID,
		Status:           StatusRequested,
		Currency:         currency.Resolve(req.Currency, req.ShippingCountry, "", req.DeliveryLocation),
		Items:            req.Items,
		Subtotal:         subtotal,
		AppliedCharges:   []Charge{},
		TotalAmount:      subtotal,
		CurrentLocation:  req.CurrentLocation,
		DeliveryLocation: req.DeliveryLocation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return s.repo.Create(ord)
}

func (s *Service) Get(id int) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(userID int, status Status, page, pageSize int) ([]Order, int, error) {
	return s.repo.List(userID, status, page, pageSize)
}

func (s *Service) ApplyPatch(id int, p Patch) (Order, error) {
	return s.repo.Patch(id, p)
}

// ChangeStatus validates and applies an admin-driven transition. Moving
// into payment_received additionally requires a zero remaining balance.
func (s *Service) ChangeStatus(id int, to Status) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(ord.Status, to) {
		return Order{}, ErrIllegalTransition
	}
	if CustomerFacingStatus(to) == StatusPaymentReceived {
		remaining, err := s.balance.RemainingBalance(ord)
		if err != nil {
			return Order{}, err
		}
		if !remaining.IsZero() {
			return Order{}, ErrBalanceOutstanding
		}
	}
	return s.repo.Patch(id, Patch{Status: &to})
}

// SelectPaymentMethod records the payment module the seller chose for the
// order. Until this is set the buyer cannot submit payments.
func (s *Service) SelectPaymentMethod(id int, method string) (Order, error) {
	if method == "" {
		return Order{}, errors.New("payment method cannot be empty")
	}
	if _, err := s.repo.GetByID(id); err != nil {
		return Order{}, err
	}
	return s.repo.Patch(id, Patch{PaymentMethod: &method})
}

// Cancel is the customer-initiated cancellation; it is only available
// before payment collection begins.
func (s *Service) Cancel(id, userID int) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotOwner
	}
	if !CanCustomerCancel(ord.Status) {
		return Order{}, ErrNotCancellable
	}
	cancelled := StatusCancelled
	return s.repo.Patch(id, Patch{Status: &cancelled})
}
