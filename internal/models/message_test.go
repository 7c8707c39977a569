package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"opsdash/backend/internal/models"
)

// TestMessageWireShape pins the JSON keys of a serialized message: all
// camelCase, no Go-cased bookkeeping fields leaking onto the wire.
func TestMessageWireShape(t *testing.T) {
	msg := models.Message{
		ID:        7,
		CreatedAt: time.Now(),
		RoomID:    "room-1",
		SenderID:  "admin_a",
		Content:   "hi",
		Type:      "TEXT",
	}

	raw, err := json.Marshal(msg)
	assert.NoError(t, err)

	var keys map[string]any
	assert.NoError(t, json.Unmarshal(raw, &keys))
	assert.Contains(t, keys, "id")
	assert.Contains(t, keys, "createdAt")
	assert.Contains(t, keys, "roomId")
	assert.NotContains(t, keys, "ID")
	assert.NotContains(t, keys, "CreatedAt")
	assert.NotContains(t, keys, "UpdatedAt")
	assert.NotContains(t, keys, "DeletedAt")
}

func TestInvitationWireShape(t *testing.T) {
	inv := models.Invitation{ID: 3, GroupID: "g1", InvitedUserID: "admin_c", Status: "PENDING"}

	raw, err := json.Marshal(inv)
	assert.NoError(t, err)

	var keys map[string]any
	assert.NoError(t, json.Unmarshal(raw, &keys))
	assert.Contains(t, keys, "id")
	assert.Contains(t, keys, "groupId")
	assert.NotContains(t, keys, "ID")
	assert.NotContains(t, keys, "DeletedAt")
}
