package storage

import (
	"errors"
	"log"
	"time"

	"opsdash/backend/internal/config"
	"opsdash/backend/internal/models"

	"gorm.io/gorm"
)

// CreateInvitation створює новий рядок запрошення.
func (s *Service) CreateInvitation(inv *models.Invitation) error {
	if inv.Status == "" {
		inv.Status = config.InvitationPending
	}
	if err := s.DB.Create(inv).Error; err != nil {
		log.Printf("ERROR: Failed to create invitation for group %s: %v", inv.GroupID, err)
		return err
	}
	return nil
}

// GetInvitationByID повертає запрошення за ID, або (nil, nil) якщо не знайдено.
func (s *Service) GetInvitationByID(id uint) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.DB.First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindPendingInvitation шукає PENDING запрошення для пари (група, користувач).
// Повертає (nil, nil) якщо такого немає — саме це тримає інваріант
// "не більше одного PENDING на пару".
func (s *Service) FindPendingInvitation(groupID, invitedUserID string) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.DB.Where("group_id = ? AND invited_user_id = ? AND status = ?",
		groupID, invitedUserID, config.InvitationPending).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListPendingInvitations returns the user's PENDING invitations ordered
// newest first. Expiry is the caller's concern (lazy, at read time).
func (s *Service) ListPendingInvitations(invitedUserID string) ([]models.Invitation, error) {
	var invites []models.Invitation
	err := s.DB.Where("invited_user_id = ? AND status = ?",
		invitedUserID, config.InvitationPending).
		Order("created_at desc").
		Find(&invites).Error
	if err != nil {
		log.Printf("ERROR: Failed to list invitations for user %s: %v", invitedUserID, err)
		return nil, err
	}
	return invites, nil
}

func (s *Service) UpdateInvitationStatus(id uint, status string) error {
	return s.DB.Model(&models.Invitation{}).Where("id = ?", id).
		Update("status", status).Error
}

// ExpireInvitations bulk-marks PENDING invitations whose deadline passed.
// Used by the ops CLI; the read path stays lazy regardless.
func (s *Service) ExpireInvitations(now time.Time) (int64, error) {
	res := s.DB.Model(&models.Invitation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			config.InvitationPending, now).
		Update("status", config.InvitationExpired)
	if res.Error != nil {
		log.Printf("ERROR: Failed to expire invitations: %v", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
