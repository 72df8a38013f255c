package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	GetAddresses(userID int) ([]Address, error)
	AddAddress(a Address) (Address, error)
	UpdateAddress(a Address) (Address, error)
	DeleteAddress(userID, addressID int) error
}

// InMemoryRepository for tests
type InMemoryRepository struct {
	mu     sync.RWMutex
	data   map[int][]Address // keyed by userID
	nextID int
}

func NewInMemoryRepository(seed map[int][]Address) *InMemoryRepository {
	r := &InMemoryRepository{data: seed, nextID: 1}
	if r.data == nil {
		r.data = make(map[int][]Address)
	}
	for _, addrs := range r.data {
		for _, a := range addrs {
			if a.AddressID >= r.nextID {
				r.nextID = a.AddressID + 1
			}
		}
	}
	return r
}

func (r *InMemoryRepository) GetAddresses(userID int) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addrs := r.data[userID]
	out := make([]Address, len(addrs))
	copy(out, addrs)
	return out, nil
}

func (r *InMemoryRepository) AddAddress(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.AddressID = r.nextID
	r.nextID++
	r.data[a.UserID] = append(r.data[a.UserID], a)
	return a, nil
}

func (r *InMemoryRepository) UpdateAddress(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addrs, ok := r.data[a.UserID]
	if !ok {
		return Address{}, ErrNotFound
	}
	for i, existing := range addrs {
		if existing.AddressID == a.AddressID {
			a.CreatedAt = existing.CreatedAt
			r.data[a.UserID][i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) DeleteAddress(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	addrs, ok := r.data[userID]
	if !ok {
		return ErrNotFound
	}
	for i, a := range addrs {
		if a.AddressID == addressID {
			r.data[userID] = append(addrs[:i], addrs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
