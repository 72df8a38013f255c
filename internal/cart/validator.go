package cart

import "fmt"

// Violation is a typed validation failure. Validators return values, not
// panics, so callers can collect every problem and show them all at once.
type Violation interface {
	error
	violation()
}

// MoqViolation means the quantity is below the product's minimum order
// quantity.
type MoqViolation struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
	MOQ       int `json:"moq"`
}

func (v MoqViolation) Error() string {
	return fmt.Sprintf("product %d: quantity %d is below the minimum order quantity %d", v.ProductID, v.Quantity, v.MOQ)
}

// StockViolation means the quantity exceeds the available stock.
type StockViolation struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
	Stock     int `json:"stock"`
}

func (v StockViolation) Error() string {
	return fmt.Sprintf("product %d: quantity %d exceeds stock %d", v.ProductID, v.Quantity, v.Stock)
}

// GroupMoqViolation means the items sharing a group code together fall
// short of the group's combined minimum. Remaining is the shortfall, so
// the caller can prompt "add N more".
type GroupMoqViolation struct {
	GroupCode string `json:"groupCode"`
	TotalMOQ  int    `json:"totalMoq"`
	Quantity  int    `json:"quantity"`
	Remaining int    `json:"remaining"`
}

func (v GroupMoqViolation) Error() string {
	return fmt.Sprintf("group %s: quantity %d is short of the combined minimum %d by %d", v.GroupCode, v.Quantity, v.TotalMOQ, v.Remaining)
}

func (MoqViolation) violation()      {}
func (StockViolation) violation()    {}
func (GroupMoqViolation) violation() {}

// ValidateItem checks a single item against its own MOQ and stock.
// Returns nil when the item is fine.
func ValidateItem(item Item) Violation {
	if item.Quantity < item.MOQ {
		return MoqViolation{ProductID: item.ProductID, Quantity: item.Quantity, MOQ: item.MOQ}
	}
	if item.Quantity > item.Stock {
		return StockViolation{ProductID: item.ProductID, Quantity: item.Quantity, Stock: item.Stock}
	}
	return nil
}

// ClampQuantity forces a requested quantity into [MOQ, Stock]. Stepper
// interactions go through here so a normal increment or decrement can
// never produce an illegal value, and never surfaces an error.
func ClampQuantity(item Item, requested int) int {
	if requested < item.MOQ {
		return item.MOQ
	}
	if requested > item.Stock {
		return item.Stock
	}
	return requested
}

// ValidateGroup sums the quantities of the items carrying groupCode and
// checks the sum against the group's combined MOQ. Items with other group
// codes are ignored. A sum exactly equal to totalMOQ passes.
func ValidateGroup(groupCode string, items []Item, totalMOQ int) Violation {
	sum := 0
	for _, it := range items {
		if it.GroupCode == groupCode {
			sum += it.Quantity
		}
	}
	if sum < totalMOQ {
		return GroupMoqViolation{GroupCode: groupCode, TotalMOQ: totalMOQ, Quantity: sum, Remaining: totalMOQ - sum}
	}
	return nil
}

// ValidateCart runs every per-item check plus one group check per distinct
// non-empty group code, and aggregates all violations without
// short-circuiting. groupMOQs supplies the combined MOQ per group code as
// provided by the catalog; group codes missing from the map are skipped.
// An empty result means the cart may be submitted.
func ValidateCart(items []Item, groupMOQs map[string]int) []Violation {
	violations := make([]Violation, 0)
	for _, it := range items {
		if v := ValidateItem(it); v != nil {
			violations = append(violations, v)
		}
	}

	seen := make(map[string]bool)
	for _, it := range items {
		if it.GroupCode == "" || seen[it.GroupCode] {
			continue
		}
		seen[it.GroupCode] = true
		totalMOQ, ok := groupMOQs[it.GroupCode]
		if !ok {
			continue
		}
		if v := ValidateGroup(it.GroupCode, items, totalMOQ); v != nil {
			violations = append(violations, v)
		}
	}
	return violations
}
