package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Event is the wire envelope for the bidirectional admin channel. Every
// frame in either direction carries an event name and a typed JSON payload;
// client commands may attach a CorrelationID which the server echoes on the
// acknowledgment so optimistic UI state reconciles on id, not content.
type Event struct {
	Name          string          `json:"event"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// Client -> server event names.
const (
	EvCreateAdminGroup        = "createAdminGroup"
	EvStartDirectChat         = "startDirectChat"
	EvSendGroupInvitation     = "sendGroupInvitation"
	EvRespondToInvitation     = "respondToInvitation"
	EvGetPendingInvitations   = "getPendingInvitations"
	EvSendMessage             = "sendMessage"
	EvGetAdminChats           = "getAdminChats"
	EvJoinRoom                = "joinRoom"
	EvLeaveRoom               = "leaveRoom"
	EvTyping                  = "typing"
	EvStopTyping              = "stopTyping"
	EvGetRoomMessages         = "getRoomMessages"
	EvUpdateGroupSettings     = "updateGroupSettings"
	EvManageGroupParticipant  = "manageGroupParticipant"
	EvSearchMentionCandidates = "searchMentionCandidates"
)

// Server -> client event names.
const (
	EvAdminConnected          = "adminConnected"
	EvNewMessage              = "newMessage"
	EvUserTagged              = "userTagged"
	EvGroupCreated            = "groupCreated"
	EvDirectChatStarted       = "directChatStarted"
	EvGroupInvitationReceived = "groupInvitationReceived"
	EvInvitationsSent         = "invitationsSent"
	EvInvitationDeclined      = "invitationDeclined"
	EvJoinedGroup             = "joinedGroup"
	EvUserJoinedGroup         = "userJoinedGroup"
	EvUserLeftGroup           = "userLeftGroup"
	EvGroupLeft               = "groupLeft"
	EvRemovedFromGroup        = "removedFromGroup"
	EvPendingInvitations      = "pendingInvitations"
	EvRoomMessages            = "roomMessages"
	EvAdminChats              = "adminChats"
	EvGroupSettingsUpdated    = "groupSettingsUpdated"
	EvParticipantManaged      = "participantManaged"
	EvMentionCandidates       = "mentionCandidates"
	EvError                   = "error"
)

// Command payloads. Unknown fields are rejected at the boundary, so the
// shapes below are the full schema per event name.

type CreateGroupPayload struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	InitialMemberIDs []string `json:"initialMemberIds,omitempty"`
}

type StartDirectChatPayload struct {
	TargetUserID string `json:"targetUserId"`
	Category     string `json:"category,omitempty"`
}

type SendInvitationPayload struct {
	GroupID        string     `json:"groupId"`
	InvitedUserIDs []string   `json:"invitedUserIds"`
	Message        string     `json:"message,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

type RespondInvitationPayload struct {
	InviteID uint   `json:"inviteId"`
	Response string `json:"response"` // ACCEPT | DECLINE
	Reason   string `json:"reason,omitempty"`
}

type SendMessagePayload struct {
	RoomID           string          `json:"roomId"`
	Content          string          `json:"content"`
	MessageType      string          `json:"messageType,omitempty"`
	TaggedUsers      []string        `json:"taggedUsers,omitempty"`
	ReplyToMessageID *uint           `json:"replyToMessageId,omitempty"`
	OrderReference   *OrderReference `json:"orderReference,omitempty"`
	// OrderID lets the client attach an order by id only; the server
	// hydrates the snapshot through the order service.
	OrderID string `json:"orderId,omitempty"`
}

type GetChatsPayload struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// RoomScopedPayload covers joinRoom, leaveRoom, typing, and stopTyping.
type RoomScopedPayload struct {
	RoomID   string `json:"roomId"`
	RoomType string `json:"roomType,omitempty"`
}

type GetRoomMessagesPayload struct {
	RoomID string `json:"roomId"`
	Limit  int    `json:"limit,omitempty"`
}

type UpdateGroupSettingsPayload struct {
	GroupID          string   `json:"groupId"`
	GroupName        *string  `json:"groupName,omitempty"`
	GroupDescription *string  `json:"groupDescription,omitempty"`
	GroupAvatar      *string  `json:"groupAvatar,omitempty"`
	IsPublic         *bool    `json:"isPublic,omitempty"`
	MaxParticipants  *int     `json:"maxParticipants,omitempty"`
	AllowedRoles     []string `json:"allowedRoles,omitempty"`
}

type ManageParticipantPayload struct {
	GroupID       string `json:"groupId"`
	ParticipantID string `json:"participantId"`
	Action        string `json:"action"` // PROMOTE | DEMOTE | REMOVE
	NewRole       string `json:"newRole,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

type MentionSearchPayload struct {
	RoomID string `json:"roomId"`
	Query  string `json:"query"`
}

// Push payloads.

type AdminConnectedPayload struct {
	Identity   Identity  `json:"identity"`
	ServerTime time.Time `json:"serverTime"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type InvitationsSentPayload struct {
	Success     bool `json:"success"`
	InvitesSent int  `json:"invitesSent"`
}

type InvitationResultPayload struct {
	Success bool   `json:"success"`
	GroupID string `json:"groupId,omitempty"`
}

type UserTaggedPayload struct {
	RoomID     string `json:"roomId"`
	MessageID  uint   `json:"messageId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Preview    string `json:"preview"`
}

type MembershipPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type RoomListPayload struct {
	Chats []Room `json:"chats"`
}

type RoomMessagesPayload struct {
	RoomID   string            `json:"roomId"`
	Messages []EnrichedMessage `json:"messages"`
}

type PendingInvitationsPayload struct {
	Invitations []Invitation `json:"invitations"`
}

type TypingPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// NewEvent marshals data into an envelope. Marshal failures are programmer
// errors on our own payload types, so they degrade to an error event.
func NewEvent(name, correlationID string, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		raw, _ = json.Marshal(ErrorPayload{Error: "internal encoding failure"})
		return Event{Name: EvError, CorrelationID: correlationID, Data: raw}
	}
	return Event{Name: name, CorrelationID: correlationID, Data: raw}
}

// DecodeInto декодує payload події строго: невідомі поля відхиляються на
// межі, до будь-якої мутації стану.
func (e *Event) DecodeInto(v any) error {
	dec := json.NewDecoder(bytes.NewReader(e.Data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return NewValidationError("data", "malformed payload for event "+e.Name)
	}
	return nil
}
