package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffUser представляє співробітника підтримки в довіднику персоналу.
// The messaging layer only reads this table; account management lives in
// the identity service and is mirrored here.
type StaffUser struct {
	ID          string `gorm:"primaryKey" json:"id"`
	DisplayName string `gorm:"type:text;not null" json:"displayName"`
	Avatar      string `gorm:"type:text" json:"avatar,omitempty"`
	// Role is SUPER_ADMIN or CUSTOMER_CARE.
	Role     string `gorm:"type:text;not null" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

// Identity is the resolved view of a staff user handed to sessions and
// message enrichment. It is what the directory boundary returns.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
	Role        string `json:"role"`
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Генерує новий UUID, якщо ID ще не встановлено.
func (u *StaffUser) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// AsIdentity converts the stored row to the boundary shape.
func (u *StaffUser) AsIdentity() Identity {
	return Identity{ID: u.ID, DisplayName: u.DisplayName, Avatar: u.Avatar, Role: u.Role}
}
