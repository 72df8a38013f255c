package cart

import (
	"github.com/kritsw/wholesale-shop-backend/internal/product"
)

// Service orchestrates cart operations. Every quantity write goes through
// ClampQuantity so the stored value is always within [MOQ, Stock].
type Service struct {
	repo     Repository
	products product.ServiceInterface
}

// ServiceInterface lets the order handler consume carts without binding to
// the concrete service.
type ServiceInterface interface {
	Get(userID int) ([]Item, error)
	Validate(userID int) ([]Item, []Violation, error)
	GroupMOQs(items []Item) (map[string]int, error)
	Clear(userID int) error
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(userID int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetItems(userID)
}

// SetQuantity writes an absolute quantity, clamped to the product's legal
// range. A fresh add with any requested value lands on at least the MOQ.
func (s *Service) SetQuantity(userID, productID, requested int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	qty := ClampQuantity(Item{MOQ: p.MOQ, Stock: p.Stock}, requested)
	return s.repo.SetQuantity(userID, productID, qty)
}

// Adjust applies a delta from a stepper; the result is clamped, never an
// error. Stepping below the MOQ leaves the quantity at the MOQ; removal
// is an explicit action.
func (s *Service) Adjust(userID, productID, delta int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	items, err := s.repo.GetItems(userID)
	if err != nil {
		return nil, err
	}
	current := 0
	for _, it := range items {
		if it.ProductID == productID {
			current = it.Quantity
			break
		}
	}
	return s.SetQuantity(userID, productID, current+delta)
}

func (s *Service) Remove(userID, productID int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Remove(userID, productID)
}

func (s *Service) Clear(userID int) error {
	if userID <= 0 {
		return ErrNotFound
	}
	return s.repo.Clear(userID)
}

// GroupMOQs fetches the combined MOQ for every distinct group code present
// in the items.
func (s *Service) GroupMOQs(items []Item) (map[string]int, error) {
	seen := make(map[string]bool)
	codes := make([]string, 0)
	for _, it := range items {
		if it.GroupCode != "" && !seen[it.GroupCode] {
			seen[it.GroupCode] = true
			codes = append(codes, it.GroupCode)
		}
	}
	if len(codes) == 0 {
		return map[string]int{}, nil
	}
	return s.products.GroupMOQs(codes)
}

// Validate re-checks the whole cart against catalog constraints and
// returns every violation at once.
func (s *Service) Validate(userID int) ([]Item, []Violation, error) {
	items, err := s.Get(userID)
	if err != nil {
		return nil, nil, err
	}
	groupMOQs, err := s.GroupMOQs(items)
	if err != nil {
		return nil, nil, err
	}
	return items, ValidateCart(items, groupMOQs), nil
}
