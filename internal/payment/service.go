package payment

import (
	"github.com/kritsw/wholesale-shop-backend/internal/money"
	"github.com/kritsw/wholesale-shop-backend/internal/order"
)

// Service provides business logic for payments. It also implements
// order.BalanceResolver so the order service can gate payment_received on
// a zero balance.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RemainingBalance implements order.BalanceResolver.
func (s *Service) RemainingBalance(o order.Order) (money.Money, error) {
	payments, err := s.repo.ListByOrder(o.ID)
	if err != nil {
		return money.Zero(), err
	}
	return RemainingBalance(o, payments), nil
}

// PaymentRequired reports whether the buyer should be prompted to pay and
// how much is still owed.
func (s *Service) PaymentRequired(o order.Order) (bool, money.Money, error) {
	payments, err := s.repo.ListByOrder(o.ID)
	if err != nil {
		return false, money.Zero(), err
	}
	return IsPaymentRequired(o, payments), RemainingBalance(o, payments), nil
}

// Submit validates and records a payment against the order. The module
// name is always the payment method the seller selected on the order.
func (s *Service) Submit(o order.Order, amount money.Money, currency, transactionRef string) (Payment, error) {
	payments, err := s.repo.ListByOrder(o.ID)
	if err != nil {
		return Payment{}, err
	}
	p, err := RecordPayment(o, payments, amount, currency, o.PaymentMethod, transactionRef)
	if err != nil {
		return Payment{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) ListByOrder(orderID int) ([]Payment, error) {
	return s.repo.ListByOrder(orderID)
}

// ReviewPayment records the seller's verdict on a submitted payment.
func (s *Service) ReviewPayment(id string, status Status) (Payment, error) {
	return s.repo.UpdateStatus(id, status)
}

func (s *Service) SaveDetails(d Details) (Details, error) {
	return s.repo.SaveDetails(d)
}

func (s *Service) ListDetails(orderID int) ([]Details, error) {
	return s.repo.ListDetails(orderID)
}
