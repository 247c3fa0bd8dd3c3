package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Angelo10101/newhouseit/internal/models"
)

// ErrNotFound is returned when a record does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("record not found")

// StoreService persists the per-user storefront state: cart, address book,
// profile, and order history.
type StoreService struct {
	db *gorm.DB
}

// NewStoreService creates a new StoreService instance
func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// GetCartItems returns the user's cart, oldest first.
func (s *StoreService) GetCartItems(userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// AddCartItem adds a service to the user's cart.
func (s *StoreService) AddCartItem(userID uuid.UUID, item *models.CartItem) error {
	item.UserID = userID
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// ClearCart removes every item from the user's cart.
func (s *StoreService) ClearCart(userID uuid.UUID) error {
	if err := s.db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// SaveRequest persists a completed booking.
func (s *StoreService) SaveRequest(userID uuid.UUID, req *models.ServiceRequest) error {
	req.UserID = userID
	if err := s.db.Create(req).Error; err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

// GetRequestByReference returns the user's booking settled by the given
// payment reference, or ErrNotFound when the reference has not been
// settled yet.
func (s *StoreService) GetRequestByReference(userID uuid.UUID, reference string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := s.db.Where("payment_reference = ? AND user_id = ?", reference, userID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	return &request, nil
}

// GetRequests returns the user's order history, newest first.
func (s *StoreService) GetRequests(userID uuid.UUID) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}
	return requests, nil
}

// GetAddresses returns the user's saved addresses, oldest first.
func (s *StoreService) GetAddresses(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress returns one of the user's addresses by id.
func (s *StoreService) GetAddress(userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	return &address, nil
}

// SaveAddress stores a new address and returns its id.
func (s *StoreService) SaveAddress(userID uuid.UUID, address *models.Address) (uuid.UUID, error) {
	address.UserID = userID
	if err := s.db.Create(address).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to save address: %w", err)
	}
	return address.ID, nil
}

// DeleteAddress removes an address. Deleting an address that does not
// belong to the user is reported as not found.
func (s *StoreService) DeleteAddress(userID, addressID uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserProfile returns the user's profile, or ErrNotFound when none has
// been saved yet.
func (s *StoreService) GetUserProfile(userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// SaveUserProfile creates or updates the user's profile.
func (s *StoreService) SaveUserProfile(userID uuid.UUID, profile *models.UserProfile) error {
	var existing models.UserProfile
	err := s.db.Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile.UserID = userID
		if err := s.db.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	existing.FirstName = profile.FirstName
	existing.LastName = profile.LastName
	existing.PhoneNumber = profile.PhoneNumber
	// Email is optional on the profile form; an update without one
	// keeps the stored address.
	if profile.Email != "" {
		existing.Email = profile.Email
	}
	if err := s.db.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	*profile = existing
	return nil
}
