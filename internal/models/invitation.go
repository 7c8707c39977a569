package models

import (
	"time"

	"gorm.io/gorm"
)

// Invitation is an offer to join a GROUP room. At most one PENDING
// invitation may exist per (group, invitee) pair; expiry is evaluated
// lazily on read rather than by a background sweep. Bookkeeping columns are
// explicit so the JSON keys stay camelCase.
type Invitation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID         string     `gorm:"type:uuid;not null;index:idx_group_invitee" json:"groupId"`
	InvitedUserID   string     `gorm:"type:text;not null;index:idx_group_invitee" json:"invitedUserId"`
	InvitedByUserID string     `gorm:"type:text;not null" json:"invitedByUserId"`
	Message         string     `gorm:"type:text" json:"message,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Status          string     `gorm:"type:text;not null;index" json:"status"`
}

// IsExpired reports whether the invitation's deadline has passed at now.
// Invitations without an ExpiresAt never expire.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}
