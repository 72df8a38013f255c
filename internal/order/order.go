package order

import (
	"github.com/kritsw/wholesale-shop-backend/internal/cart"
	"github.com/kritsw/wholesale-shop-backend/internal/money"
)

// Status is the canonical order status. verify and approved are
// administrative sub-stages that customers never see as distinct states;
// CustomerFacingStatus remaps them before display.
type Status string

const (
	StatusRequested         Status = "requested"
	StatusVerify            Status = "verify"
	StatusApproved          Status = "approved"
	StatusConfirm           Status = "confirm"
	StatusWaitingForPayment Status = "waiting_for_payment"
	StatusPaymentReceived   Status = "payment_received"
	StatusPacking           Status = "packing"
	StatusReadyToShip       Status = "ready_to_ship"
	StatusReadyToPick       Status = "ready_to_pick"
	StatusOnTheWay          Status = "on_the_way"
	StatusDelivered         Status = "delivered"
	StatusCancelled         Status = "cancelled"
	StatusRejected          Status = "rejected"
)

// DeliveryOption selects how the order is handed over. standard carries no
// surcharge; the other two add a Charge computed from the catalog.
type DeliveryOption string

const (
	OptionStandard     DeliveryOption = "standard"
	OptionExpress      DeliveryOption = "express"
	OptionSameLocation DeliveryOption = "same_location"
)

// Charge is an extra amount attached to an order. Immutable once applied.
type Charge struct {
	Type             string         `json:"type"` // e.g. "ExtraDelivery"
	Option           DeliveryOption `json:"option,omitempty"`
	CostType         string         `json:"costType"` // "Flat" or "Percentage"
	Value            float64        `json:"value"`
	CalculatedAmount money.Money    `json:"calculatedAmount"`
	Message          string         `json:"message,omitempty"`
}

// Order represents a purchase made by a user. Items are a snapshot of the
// cart at submission time; the live cart row is cleared on checkout.
type Order struct {
	ID                   int            `json:"orderId"`
	UserID               int            `json:"userId"`
	Status               Status         `json:"status"`
	Currency             string         `json:"currency"`
	Items                []cart.Item    `json:"items"`
	Subtotal             money.Money    `json:"subtotal"`
	AppliedCharges       []Charge       `json:"appliedCharges"`
	TotalAmount          money.Money    `json:"totalAmount"`
	CurrentLocation      string         `json:"currentLocation,omitempty"`
	DeliveryLocation     string         `json:"deliveryLocation,omitempty"`
	DeliveryChargeOption DeliveryOption `json:"deliveryChargeOption,omitempty"`
	PaymentMethod        string         `json:"paymentMethod,omitempty"` // admin-selected payment module
	CreatedAt            string         `json:"createdAt"`
	UpdatedAt            string         `json:"updatedAt"`
}

// Patch is a proposed mutation of a persisted order. The engine only ever
// returns patch intents; the repository applies them.
type Patch struct {
	Status               *Status         `json:"status,omitempty"`
	DeliveryChargeOption *DeliveryOption `json:"deliveryChargeOption,omitempty"`
	AppliedCharges       []Charge        `json:"appliedCharges,omitempty"` // appended, never replaced
	TotalAmount          *money.Money    `json:"totalAmount,omitempty"`
	PaymentMethod        *string         `json:"paymentMethod,omitempty"`
}
