package delivery

import (
	"errors"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
	"github.com/kritsw/wholesale-shop-backend/internal/order"
	"github.com/kritsw/wholesale-shop-backend/internal/product"
)

// ErrInvalidState blocks charge application once an order has left the
// requested stage or already carries a non-standard delivery option.
var ErrInvalidState = errors.New("order can no longer take a delivery charge")

// ChargeType is the only charge type the engine emits today.
const ChargeType = "ExtraDelivery"

// ChargeConfig is the surcharge definition pulled from the catalog.
type ChargeConfig struct {
	CostType string  `json:"costType"`
	Value    float64 `json:"value"`
	Message  string  `json:"message,omitempty"`
}

// FromProducts aggregates the delivery-charge metadata of the products in
// an order. A single flagged product is enough to make the whole order
// eligible; the first flagged product's charge definition wins.
func FromProducts(products []product.Product) (hasExpress, hasSameLocation bool, cfg ChargeConfig) {
	for _, p := range products {
		if !p.HasExpressDeliveryCharge && !p.HasSameLocationCharge {
			continue
		}
		if !hasExpress && !hasSameLocation {
			cfg = ChargeConfig{
				CostType: p.DeliveryChargeCostType,
				Value:    p.DeliveryChargeValue,
				Message:  p.DeliveryChargeMessage,
			}
		}
		hasExpress = hasExpress || p.HasExpressDeliveryCharge
		hasSameLocation = hasSameLocation || p.HasSameLocationCharge
	}
	return hasExpress, hasSameLocation, cfg
}

// EligibleOption decides which chargeable delivery option, if any, applies
// to the order. Express only exists when the order crosses locations;
// same-location only when it does not. Standard delivery never charges,
// so it is represented by the empty return.
func EligibleOption(o order.Order, hasExpress, hasSameLocation bool) order.DeliveryOption {
	sameLocation := o.CurrentLocation == o.DeliveryLocation
	if !sameLocation && hasExpress {
		return order.OptionExpress
	}
	if sameLocation && hasSameLocation {
		return order.OptionSameLocation
	}
	return ""
}

// ComputeCharge turns a charge definition into a concrete charge against
// the subtotal. Percentage values are whole percents, so 10 means 10%.
func ComputeCharge(option order.DeliveryOption, cfg ChargeConfig, subtotal money.Money) order.Charge {
	var amount money.Money
	switch cfg.CostType {
	case product.CostTypePercentage:
		amount = subtotal.MulScalar(cfg.Value / 100)
	case product.CostTypeFlat:
		amount = money.FromFloat(cfg.Value)
	}
	return order.Charge{
		Type:             ChargeType,
		Option:           option,
		CostType:         cfg.CostType,
		Value:            cfg.Value,
		CalculatedAmount: amount,
		Message:          cfg.Message,
	}
}

// ApplyCharge returns the patch that attaches a charge to the order. The
// order must still be in requested and must not already carry a
// non-standard delivery option; charges are immutable once applied.
func ApplyCharge(o order.Order, ch order.Charge) (order.Patch, error) {
	if order.CustomerFacingStatus(o.Status) != order.StatusRequested {
		return order.Patch{}, ErrInvalidState
	}
	if o.DeliveryChargeOption != "" && o.DeliveryChargeOption != order.OptionStandard {
		return order.Patch{}, ErrInvalidState
	}

	option := ch.Option
	total := o.TotalAmount.Add(ch.CalculatedAmount)
	return order.Patch{
		DeliveryChargeOption: &option,
		AppliedCharges:       []order.Charge{ch},
		TotalAmount:          &total,
	}, nil
}
