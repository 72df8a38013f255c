package payment

import (
	"fmt"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
)

// Status tracks a payment record through review. Only rejected payments
// are excluded from the order balance; everything else counts from the
// moment it is recorded, so the balance never jumps back up while a
// payment sits in review.
type Status string

const (
	StatusRequested Status = "requested"
	StatusVerify    Status = "verify"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusRejected  Status = "rejected"
)

// Payment is a single recorded payment against an order.
type Payment struct {
	ID             string      `json:"paymentId"`
	OrderID        int         `json:"orderId"`
	Amount         money.Money `json:"amount"`
	Currency       string      `json:"currency"`
	ModuleName     string      `json:"moduleName"`
	TransactionRef string      `json:"transactionRef"`
	Status         Status      `json:"status"`
	CreatedAt      string      `json:"createdAt"`
}

// CountsTowardBalance reports whether the payment reduces the remaining
// order balance.
func (p Payment) CountsTowardBalance() bool {
	return p.Status != StatusRejected
}

// Details is supporting evidence a buyer uploads for a payment, e.g. a
// bank transfer slip.
type Details struct {
	ID        int    `json:"detailId"`
	OrderID   int    `json:"orderId"`
	FilePath  string `json:"filePath"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// InvalidAmountError rejects payments that are not positive or exceed the
// remaining balance. Overpayment is never accepted, not even by a cent.
type InvalidAmountError struct {
	Amount    money.Money `json:"amount"`
	Remaining money.Money `json:"remainingBalance"`
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("payment amount %s is invalid for remaining balance %s", e.Amount, e.Remaining)
}

// CurrencyMismatchError signals a payment denominated in a currency other
// than the order's. The order currency is fixed at creation and is never
// re-resolved afterwards.
type CurrencyMismatchError struct {
	Given         string `json:"given"`
	OrderCurrency string `json:"orderCurrency"`
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("payment currency %s does not match order currency %s", e.Given, e.OrderCurrency)
}
