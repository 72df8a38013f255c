package payment

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("payment not found")

// Repository persists payment records. Create is idempotent on the
// (orderID, moduleName, transactionRef) triple: resubmitting the same
// gateway callback returns the already-stored record instead of a
// duplicate.
type Repository interface {
	Create(p Payment) (Payment, error)
	ListByOrder(orderID int) ([]Payment, error)
	UpdateStatus(id string, status Status) (Payment, error)
	SaveDetails(d Details) (Details, error)
	ListDetails(orderID int) ([]Details, error)
}

type InMemoryRepository struct {
	mu           sync.RWMutex
	payments     []Payment
	details      []Details
	nextDetailID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextDetailID: 1}
}

func (r *InMemoryRepository) Create(p Payment) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.payments {
		if existing.OrderID == p.OrderID &&
			existing.ModuleName == p.ModuleName &&
			existing.TransactionRef == p.TransactionRef {
			return existing, nil
		}
	}

	r.payments = append(r.payments, p)
	return p, nil
}

func (r *InMemoryRepository) ListByOrder(orderID int) ([]Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Payment, 0)
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id string, status Status) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.payments {
		if p.ID == id {
			p.Status = status
			r.payments[i] = p
			return p, nil
		}
	}
	return Payment{}, ErrNotFound
}

func (r *InMemoryRepository) SaveDetails(d Details) (Details, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == 0 {
		d.ID = r.nextDetailID
		r.nextDetailID++
	}
	r.details = append(r.details, d)
	return d, nil
}

func (r *InMemoryRepository) ListDetails(orderID int) ([]Details, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Details, 0)
	for _, d := range r.details {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}
