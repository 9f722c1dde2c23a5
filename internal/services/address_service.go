package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

func (s *AddressService) List(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Create adds an address. The first address a user saves becomes the
// default; marking a later one default clears the previous flag.
func (s *AddressService) Create(userID uuid.UUID, req *dto.AddressRequest) (*models.Address, error) {
	var count int64
	s.db.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count)

	addr := models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault || count == 0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if addr.IsDefault {
			err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(&addr).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return &addr, nil
}

func (s *AddressService) Update(userID, id uuid.UUID, req *dto.AddressRequest) (*models.Address, error) {
	var addr models.Address
	if err := s.db.First(&addr, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, ErrAddressNotFound
	}

	updates := map[string]interface{}{
		"full_name":   req.FullName,
		"phone":       req.Phone,
		"line1":       req.Line1,
		"line2":       req.Line2,
		"city":        req.City,
		"state":       req.State,
		"postal_code": req.PostalCode,
		"country":     req.Country,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !addr.IsDefault {
			err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error
			if err != nil {
				return err
			}
			updates["is_default"] = true
		}
		return tx.Model(&addr).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	if err := s.db.First(&addr, "id = ?", id).Error; err != nil {
		return nil, ErrAddressNotFound
	}
	return &addr, nil
}

func (s *AddressService) Delete(userID, id uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete address: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}
