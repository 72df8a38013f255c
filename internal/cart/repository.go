package cart

import (
	"sync"

	"github.com/kritsw/wholesale-shop-backend/internal/product"
)

// Repository stores one cart per user as product -> quantity and returns
// items enriched with the catalog's constraint data.
type Repository interface {
	GetItems(userID int) ([]Item, error)
	SetQuantity(userID, productID, qty int) ([]Item, error)
	Remove(userID, productID int) ([]Item, error)
	Clear(userID int) error
}

// InMemoryRepository is used for tests and local scenarios. Products are
// seeded up front so enrichment works without a database.
type InMemoryRepository struct {
	mu       sync.RWMutex
	carts    map[int]map[int]int // userID -> productID -> quantity
	products map[int]product.Product
}

func NewInMemoryRepository(carts map[int]map[int]int, products []product.Product) *InMemoryRepository {
	r := &InMemoryRepository{
		carts:    make(map[int]map[int]int, len(carts)),
		products: make(map[int]product.Product, len(products)),
	}
	for userID, m := range carts {
		cp := make(map[int]int, len(m))
		for pid, qty := range m {
			cp[pid] = qty
		}
		r.carts[userID] = cp
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *InMemoryRepository) GetItems(userID int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.enrich(m), nil
}

func (r *InMemoryRepository) SetQuantity(userID, productID, qty int) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	m[productID] = qty
	return r.enrich(m), nil
}

func (r *InMemoryRepository) Remove(userID, productID int) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m, productID)
	return r.enrich(m), nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID]; !ok {
		return ErrNotFound
	}
	r.carts[userID] = make(map[int]int)
	return nil
}

func (r *InMemoryRepository) enrich(m map[int]int) []Item {
	items := make([]Item, 0, len(m))
	for pid, qty := range m {
		it := Item{ProductID: pid, Quantity: qty}
		if p, ok := r.products[pid]; ok {
			it.ProductName = p.Name
			it.SubSKUFamilyID = p.SubSKUFamilyID
			it.UnitPrice = p.Price
			it.MOQ = p.MOQ
			it.Stock = p.Stock
			it.GroupCode = p.GroupCode
		}
		items = append(items, it)
	}
	return items
}
