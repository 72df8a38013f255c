package product

import (
	"errors"
	"sync"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrGroupNotFound = errors.New("product group not found")
)

type Repository interface {
	List() []Product
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	GetGroup(code string) (Group, error)
	// GroupMOQs returns the combined MOQ for each of the given group codes.
	// Unknown codes are simply absent from the result.
	GroupMOQs(codes []string) (map[string]int, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and seeding local data.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	groups  map[string]Group
}

func NewInMemoryRepository(seed []Product, groups []Group) *InMemoryRepository {
	r := &InMemoryRepository{
		storage: make([]Product, 0, len(seed)),
		groups:  make(map[string]Group, len(groups)),
	}
	r.storage = append(r.storage, seed...)
	for _, g := range groups {
		r.groups[g.Code] = g
	}
	return r
}

func (r *InMemoryRepository) List() []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	return out
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.storage {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetGroup(code string) (Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.groups[code]; ok {
		return g, nil
	}
	return Group{}, ErrGroupNotFound
}

func (r *InMemoryRepository) GroupMOQs(codes []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(codes))
	for _, code := range codes {
		if g, ok := r.groups[code]; ok {
			out[code] = g.TotalMOQ
		}
	}
	return out, nil
}
