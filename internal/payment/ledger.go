package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
	"github.com/kritsw/wholesale-shop-backend/internal/order"
)

// RemainingBalance is the single place the balance formula lives: order
// total minus every payment that still counts, floored at zero. All
// callers, including the order status gate, go through here.
func RemainingBalance(o order.Order, payments []Payment) money.Money {
	paid := money.Zero()
	for _, p := range payments {
		if p.CountsTowardBalance() {
			paid = paid.Add(p.Amount)
		}
	}
	remaining := o.TotalAmount.Sub(paid)
	if remaining.IsNegative() {
		return money.Zero()
	}
	return remaining
}

// IsPaymentRequired reports whether the buyer should be prompted to pay:
// the order is waiting for payment, a payment module has been selected
// and money is still owed.
func IsPaymentRequired(o order.Order, payments []Payment) bool {
	if order.CustomerFacingStatus(o.Status) != order.StatusWaitingForPayment {
		return false
	}
	if o.PaymentMethod == "" {
		return false
	}
	return RemainingBalance(o, payments).IsPositive()
}

// ValidatePaymentAmount rejects non-positive amounts and any amount over
// the remaining balance.
func ValidatePaymentAmount(amount, remaining money.Money) error {
	if !amount.IsPositive() || amount.Cmp(remaining) > 0 {
		return &InvalidAmountError{Amount: amount, Remaining: remaining}
	}
	return nil
}

// RecordPayment validates a new payment against the order and the existing
// ledger and returns the record to persist. Currency is checked before
// amount so a mismatch is reported even when the amount would also fail.
func RecordPayment(o order.Order, payments []Payment, amount money.Money, currency, moduleName, transactionRef string) (Payment, error) {
	if currency != o.Currency {
		return Payment{}, &CurrencyMismatchError{Given: currency, OrderCurrency: o.Currency}
	}
	if err := ValidatePaymentAmount(amount, RemainingBalance(o, payments)); err != nil {
		return Payment{}, err
	}
	return Payment{
		ID:             uuid.NewString(),
		OrderID:        o.ID,
		Amount:         amount,
		Currency:       currency,
		ModuleName:     moduleName,
		TransactionRef: transactionRef,
		Status:         StatusRequested,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}
