package config

import "time"

const (
	// Rooms
	DefaultMaxParticipants = 50
	RoomTypeDirect         = "DIRECT"
	RoomTypeGroup          = "GROUP"

	// Participant roles
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
	RoleMember  = "MEMBER"

	// Messages
	MessageTypeText           = "TEXT"
	MessageTypeOrderReference = "ORDER_REFERENCE"
	MessageTypeSystem         = "SYSTEM"
	SystemSenderID            = "system"
	DefaultMessagePageLimit   = 50
	MaxMessagePageLimit       = 200

	// Invitations
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationDeclined = "DECLINED"
	InvitationExpired  = "EXPIRED"
	DefaultInviteTTL   = 7 * 24 * time.Hour

	// Presence
	TypingTTL = 2 * time.Second

	// Staff roles
	StaffRoleSuperAdmin   = "SUPER_ADMIN"
	StaffRoleCustomerCare = "CUSTOMER_CARE"
)
