package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opsdash/backend/internal/models"
)

// TestStaffUserBeforeCreate перевіряє, що хук BeforeCreate генерує UUID.
func TestStaffUserBeforeCreate(t *testing.T) {
	u := models.StaffUser{DisplayName: "Alice Admin", Role: "CUSTOMER_CARE"}

	err := u.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.NotEmpty(t, u.ID, "ID повинен бути згенерований")
}

func TestStaffUserBeforeCreate_KeepsExistingID(t *testing.T) {
	u := models.StaffUser{ID: "staff-1", DisplayName: "Bob", Role: "SUPER_ADMIN"}

	err := u.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, "staff-1", u.ID)
}

func TestStaffUser_AsIdentity(t *testing.T) {
	u := models.StaffUser{ID: "staff-1", DisplayName: "Bob", Avatar: "b.png", Role: "SUPER_ADMIN"}

	id := u.AsIdentity()
	assert.Equal(t, models.Identity{ID: "staff-1", DisplayName: "Bob", Avatar: "b.png", Role: "SUPER_ADMIN"}, id)
}
