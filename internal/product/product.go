package product

import "github.com/kritsw/wholesale-shop-backend/internal/money"

// Product represents a catalog entry and maps to the `public.products` table.
// JSON tags follow the camelCase convention used elsewhere in the project.
// MOQ/stock and the delivery-charge flags are authoritative here; cart and
// order rows only carry snapshots of them.
type Product struct {
	ID             int         `json:"productId"`
	Name           string      `json:"productName"`
	SubSKUFamilyID string      `json:"subSkuFamilyId,omitempty"`
	Price          money.Money `json:"unitPrice"`
	MOQ            int         `json:"moq"`
	Stock          int         `json:"stock"`
	GroupCode      string      `json:"groupCode,omitempty"`

	HasExpressDeliveryCharge bool    `json:"hasExpressDeliveryCharge"`
	HasSameLocationCharge    bool    `json:"hasSameLocationCharge"`
	DeliveryChargeCostType   string  `json:"deliveryChargeCostType,omitempty"` // "Flat" or "Percentage"
	DeliveryChargeValue      float64 `json:"deliveryChargeValue,omitempty"`
	DeliveryChargeMessage    string  `json:"deliveryChargeMessage,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Group is a set of related products sold under a combined minimum
// order quantity instead of per-item ones.
type Group struct {
	Code     string `json:"groupCode"`
	TotalMOQ int    `json:"totalMoq"`
}

// Delivery-charge cost types as stored in the catalog.
const (
	CostTypeFlat       = "Flat"
	CostTypePercentage = "Percentage"
)
