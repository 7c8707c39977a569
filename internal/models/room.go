package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Room represents a conversation container between staff members.
// A DIRECT room always holds exactly two participants and is unique per
// unordered user pair; a GROUP room holds up to MaxParticipants and keeps
// group metadata alongside the participant list.
type Room struct {
	// ID is the unique identifier for the room (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Type is either DIRECT or GROUP.
	Type string `gorm:"type:text;not null;index" json:"type"`

	// DirectKey is the unordered user-pair key ("minID|maxID") that makes
	// direct-chat creation idempotent. Nil for group rooms.
	DirectKey *string `gorm:"uniqueIndex" json:"-"`

	// Group metadata. Empty for direct rooms.
	GroupName        string         `json:"groupName,omitempty"`
	GroupDescription string         `json:"groupDescription,omitempty"`
	GroupAvatar      string         `json:"groupAvatar,omitempty"`
	AllowedRoles     pq.StringArray `gorm:"type:text[]" json:"allowedRoles,omitempty"`
	IsPublic         bool           `json:"isPublic"`
	MaxParticipants  int            `json:"maxParticipants,omitempty"`

	// LastMessageID is a weak reference to the latest message, kept
	// denormalized for chat-list rendering. Lookup only, never owning.
	LastMessageID *uint     `json:"lastMessageId,omitempty"`
	LastActivity  time.Time `json:"lastActivity"`

	Participants []Participant `gorm:"foreignKey:RoomID" json:"participants,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Participant is a user's membership in a room. Unique per (room, user).
type Participant struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	RoomID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_room_user" json:"-"`
	UserID   string    `gorm:"type:text;not null;uniqueIndex:idx_room_user;index" json:"userId"`
	Role     string    `gorm:"type:text;not null" json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// DirectKeyFor builds the canonical unordered pair key for a direct room.
func DirectKeyFor(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%s|%s", userA, userB)
}

// HasParticipant reports whether userID is currently a member of the room.
func (r *Room) HasParticipant(userID string) bool {
	return r.ParticipantRole(userID) != ""
}

// ParticipantRole returns the role of userID in the room, or "" when the
// user is not a member.
func (r *Room) ParticipantRole(userID string) string {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return p.Role
		}
	}
	return ""
}
