package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"opsdash/backend/internal/models"
)

func TestDirectKeyFor_OrderIndependent(t *testing.T) {
	assert.Equal(t, "admin_a|admin_b", models.DirectKeyFor("admin_a", "admin_b"))
	assert.Equal(t, "admin_a|admin_b", models.DirectKeyFor("admin_b", "admin_a"))
	assert.Equal(t, "admin_a|admin_a", models.DirectKeyFor("admin_a", "admin_a"))
}

func TestRoom_ParticipantRole(t *testing.T) {
	room := models.Room{
		Participants: []models.Participant{
			{UserID: "admin_a", Role: "CREATOR"},
			{UserID: "admin_b", Role: "MEMBER"},
		},
	}

	assert.Equal(t, "CREATOR", room.ParticipantRole("admin_a"))
	assert.Equal(t, "", room.ParticipantRole("stranger"))
	assert.True(t, room.HasParticipant("admin_b"))
	assert.False(t, room.HasParticipant("stranger"))
}
