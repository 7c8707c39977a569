// Package directory exposes the two external collaborators the messaging
// layer consumes: the staff identity directory and the order service. Only
// their boundary contracts are defined here; the rest of their behavior is
// owned elsewhere.
package directory

import (
	"errors"
	"log"

	"opsdash/backend/internal/models"

	"gorm.io/gorm"
)

// Directory resolves a staff user id to display data and role.
type Directory interface {
	Resolve(userID string) (*models.Identity, error)
}

// Service is the gorm-backed Directory over the mirrored staff_users table.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Resolve повертає ідентичність активного співробітника за його ID.
func (s *Service) Resolve(userID string) (*models.Identity, error) {
	var staff models.StaffUser
	err := s.DB.Where("id = ? AND is_active = ?", userID, true).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to resolve staff user %s: %v", userID, err)
		return nil, err
	}
	identity := staff.AsIdentity()
	return &identity, nil
}
