package address

import (
	"errors"
	"time"
)

var errMissingFields = errors.New("addressDesc or addressName required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetAddresses(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.GetAddresses(userID)
}

func (s *Service) AddAddress(userID int, desc, phone, name, location string) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if desc == "" && name == "" {
		return Address{}, errMissingFields
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.AddAddress(Address{
		UserID:      userID,
		AddressDesc: desc,
		Phone:       phone,
		AddressName: name,
		Location:    location,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Service) UpdateAddress(userID, addressID int, desc, phone, name, location string) (Address, error) {
	if userID <= 0 || addressID <= 0 {
		return Address{}, ErrNotFound
	}
	if desc == "" && name == "" {
		return Address{}, errMissingFields
	}

	return s.repo.UpdateAddress(Address{
		AddressID:   addressID,
		UserID:      userID,
		AddressDesc: desc,
		Phone:       phone,
		AddressName: name,
		Location:    location,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) DeleteAddress(userID, addressID int) error {
	if userID <= 0 || addressID <= 0 {
		return ErrNotFound
	}
	return s.repo.DeleteAddress(userID, addressID)
}
