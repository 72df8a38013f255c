package cart

import (
	"errors"

	"github.com/kritsw/wholesale-shop-backend/internal/money"
)

var (
	ErrNotFound = errors.New("user not found")
)

// Item describes a product in the cart together with the constraint data
// snapshotted from the catalog. Quantity must stay within [MOQ, Stock]
// for the cart to be submittable.
type Item struct {
	ProductID      int         `json:"productId"`
	ProductName    string      `json:"productName,omitempty"`
	SubSKUFamilyID string      `json:"subSkuFamilyId,omitempty"`
	Quantity       int         `json:"quantity"`
	UnitPrice      money.Money `json:"unitPrice"`
	MOQ            int         `json:"moq"`
	Stock          int         `json:"stock"`
	GroupCode      string      `json:"groupCode,omitempty"`
}

// LineTotal is the item's contribution to the cart subtotal.
func (i Item) LineTotal() money.Money {
	return i.UnitPrice.MulInt(i.Quantity)
}

// Subtotal sums the line totals of all items.
func Subtotal(items []Item) money.Money {
	total := money.Zero()
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
