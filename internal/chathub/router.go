package chathub

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"opsdash/backend/internal/config"
	"opsdash/backend/internal/mention"
	"opsdash/backend/internal/models"
)

// dispatch routes one decoded client frame to its handler. Runs on the hub
// goroutine, so every handler below mutates durable state serially.
// typing/stopTyping are fire-and-forget; everything else acknowledges on
// the issuing connection with the command's correlation id echoed.
func (m *ManagerService) dispatch(cmd Command) {
	var err error
	switch cmd.Event.Name {
	case models.EvStartDirectChat:
		err = m.handleStartDirectChat(cmd)
	case models.EvCreateAdminGroup:
		err = m.handleCreateGroup(cmd)
	case models.EvJoinRoom:
		err = m.handleJoinRoom(cmd)
	case models.EvLeaveRoom:
		err = m.handleLeaveRoom(cmd)
	case models.EvSendMessage:
		err = m.handleSendMessage(cmd)
	case models.EvGetRoomMessages:
		err = m.handleGetRoomMessages(cmd)
	case models.EvGetAdminChats:
		err = m.handleGetAdminChats(cmd)
	case models.EvSendGroupInvitation:
		err = m.handleSendInvitation(cmd)
	case models.EvRespondToInvitation:
		err = m.handleRespondInvitation(cmd)
	case models.EvGetPendingInvitations:
		err = m.handleGetPendingInvitations(cmd)
	case models.EvUpdateGroupSettings:
		err = m.handleUpdateGroupSettings(cmd)
	case models.EvManageGroupParticipant:
		err = m.handleManageParticipant(cmd)
	case models.EvSearchMentionCandidates:
		err = m.handleMentionSearch(cmd)
	case models.EvTyping:
		m.handleTyping(cmd, true)
		return
	case models.EvStopTyping:
		m.handleTyping(cmd, false)
		return
	default:
		err = models.NewValidationError("event", "unknown event "+cmd.Event.Name)
	}
	if err != nil {
		m.fail(cmd, err)
	}
}

// fail returns a same-shape {error} on the originating acknowledgment
// channel. Failures never cross into a broadcast to other participants.
func (m *ManagerService) fail(cmd Command, err error) {
	m.sendToClient(cmd.Client, models.NewEvent(models.EvError, cmd.Event.CorrelationID,
		models.ErrorPayload{Error: err.Error()}))
}

func (m *ManagerService) ack(cmd Command, name string, data any) {
	m.sendToClient(cmd.Client, models.NewEvent(name, cmd.Event.CorrelationID, data))
}

func (m *ManagerService) handleStartDirectChat(cmd Command) error {
	var p models.StartDirectChatPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	requesterID := cmd.Client.GetUserID()
	if p.TargetUserID == "" || p.TargetUserID == requesterID {
		return models.NewValidationError("targetUserId", "must name another staff user")
	}
	if _, err := m.Directory.Resolve(p.TargetUserID); err != nil {
		return err
	}

	// Idempotent per unordered pair: an existing room is returned unchanged.
	room, err := m.Storage.FindDirectRoom(requesterID, p.TargetUserID)
	if err != nil {
		return err
	}
	if room == nil {
		key := models.DirectKeyFor(requesterID, p.TargetUserID)
		now := time.Now()
		room = &models.Room{
			ID:           uuid.New().String(),
			Type:         config.RoomTypeDirect,
			DirectKey:    &key,
			LastActivity: now,
			Participants: []models.Participant{
				{UserID: requesterID, Role: config.RoleMember, JoinedAt: now},
				{UserID: p.TargetUserID, Role: config.RoleMember, JoinedAt: now},
			},
		}
		if err := m.Storage.SaveRoom(room); err != nil {
			return err
		}
	}
	m.ack(cmd, models.EvDirectChatStarted, room)
	return nil
}

func (m *ManagerService) handleCreateGroup(cmd Command) error {
	var p models.CreateGroupPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	if p.Name == "" {
		return models.NewValidationError("name", "group name is required")
	}
	creatorID := cmd.Client.GetUserID()
	now := time.Now()
	room := &models.Room{
		ID:               uuid.New().String(),
		Type:             config.RoomTypeGroup,
		GroupName:        p.Name,
		GroupDescription: p.Description,
		MaxParticipants:  config.DefaultMaxParticipants,
		LastActivity:     now,
		Participants: []models.Participant{
			{UserID: creatorID, Role: config.RoleCreator, JoinedAt: now},
		},
	}
	for _, memberID := range p.InitialMemberIDs {
		if memberID == creatorID || memberID == "" {
			continue
		}
		if _, err := m.Directory.Resolve(memberID); err != nil {
			log.Printf("WARNING: Skipping unknown initial member %s for group %s", memberID, p.Name)
			continue
		}
		room.Participants = append(room.Participants,
			models.Participant{UserID: memberID, Role: config.RoleMember, JoinedAt: now})
	}
	if len(room.Participants) > room.MaxParticipants {
		return models.NewValidationError("initialMemberIds", "group would exceed the maximum number of participants")
	}
	if err := m.Storage.SaveRoom(room); err != nil {
		return err
	}
	m.ack(cmd, models.EvGroupCreated, room)
	return nil
}

func (m *ManagerService) handleJoinRoom(cmd Command) error {
	var p models.RoomScopedPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	room, err := m.Storage.GetRoomByID(p.RoomID)
	if err != nil {
		return err
	}
	userID := cmd.Client.GetUserID()
	if !room.HasParticipant(userID) {
		return models.ErrNotParticipant
	}
	m.subscribe(cmd.Client, room.ID)

	// Snapshot of who is composing right now, so the joining client does
	// not wait for the next refresh signal.
	typers, err := m.Storage.GetTypingUsers(room.ID)
	if err != nil {
		log.Printf("WARNING: Failed to read typing snapshot for %s: %v", room.ID, err)
	}
	for _, typer := range typers {
		if typer == userID {
			continue
		}
		m.sendToClient(cmd.Client, models.NewEvent(models.EvTyping, "",
			models.TypingPayload{RoomID: room.ID, UserID: typer}))
	}

	m.ack(cmd, models.EvJoinRoom, map[string]any{"success": true, "room": room})
	return nil
}

func (m *ManagerService) handleLeaveRoom(cmd Command) error {
	var p models.RoomScopedPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	room, err := m.Storage.GetRoomByID(p.RoomID)
	if err != nil {
		return err
	}
	userID := cmd.Client.GetUserID()
	if !room.HasParticipant(userID) {
		return models.ErrNotParticipant
	}
	m.unsubscribe(cmd.Client, room.ID)
	if err := m.Storage.ClearTyping(room.ID, userID); err != nil {
		log.Printf("WARNING: Failed to clear typing on leave: %v", err)
	}

	if room.Type != config.RoomTypeGroup {
		// Direct rooms are never emptied; leaving just drops the view.
		m.ack(cmd, models.EvLeaveRoom, map[string]any{"success": true})
		return nil
	}

	// TODO: decide whether to auto-promote the oldest ADMIN (or block the
	// leave) when the sole CREATOR walks out; today the group is orphaned
	// with no privileged member, matching the shipped behavior.
	if err := m.Storage.RemoveParticipant(room.ID, userID); err != nil {
		return err
	}
	m.ack(cmd, models.EvGroupLeft, map[string]any{"success": true, "roomId": room.ID})
	m.broadcast(room.ID, userID, models.NewEvent(models.EvUserLeftGroup, "",
		models.MembershipPayload{RoomID: room.ID, UserID: userID}))
	m.postSystemMessage(room, "system.left_group", m.displayName(userID))
	return nil
}

func (m *ManagerService) handleSendMessage(cmd Command) error {
	var p models.SendMessagePayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	if p.RoomID == "" {
		return models.NewValidationError("roomId", "required")
	}
	if p.MessageType == "" {
		p.MessageType = config.MessageTypeText
	}
	switch p.MessageType {
	case config.MessageTypeText, config.MessageTypeOrderReference:
	default:
		return models.NewValidationError("messageType", "unsupported type "+p.MessageType)
	}
	if p.Content == "" {
		return models.NewValidationError("content", "required")
	}

	senderID := cmd.Client.GetUserID()
	room, err := m.Storage.GetRoomByID(p.RoomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(senderID) {
		return models.ErrNotParticipant
	}

	// Tags of non-members are rejected before any state mutation.
	if err := mention.ValidateTags(p.TaggedUsers, room); err != nil {
		return err
	}

	// A reply must reference an earlier message in the same room.
	if p.ReplyToMessageID != nil {
		original, err := m.Storage.GetMessageByID(*p.ReplyToMessageID)
		if err != nil {
			return err
		}
		if original == nil || original.RoomID != room.ID {
			return models.NewValidationError("replyToMessageId", "must reference an earlier message in the same room")
		}
	}

	var orderRef models.OrderReference
	if p.MessageType == config.MessageTypeOrderReference {
		switch {
		case p.OrderReference != nil:
			orderRef = *p.OrderReference
		case p.OrderID != "":
			ref, err := m.Orders.ResolveOrder(p.OrderID)
			if err != nil {
				return err
			}
			orderRef = *ref
		default:
			return models.NewValidationError("orderReference", "required for ORDER_REFERENCE messages")
		}
	}

	msg := &models.Message{
		RoomID:           room.ID,
		SenderID:         senderID,
		Content:          p.Content,
		Type:             p.MessageType,
		ReplyToMessageID: p.ReplyToMessageID,
		TaggedUserIDs:    p.TaggedUsers,
		OrderReference:   orderRef,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		return err
	}
	if err := m.Storage.TouchRoomActivity(room.ID, msg.ID); err != nil {
		log.Printf("WARNING: Failed to touch room %s activity: %v", room.ID, err)
	}
	// Sending implicitly stops typing.
	if err := m.Storage.ClearTyping(room.ID, senderID); err != nil {
		log.Printf("WARNING: Failed to clear typing after send: %v", err)
	}

	enriched := m.enrichMessage(*msg, nil)
	enriched.CorrelationID = cmd.Event.CorrelationID

	// Acknowledge once persistence succeeded; subscriber delivery past this
	// point is best-effort fan-out.
	m.ack(cmd, models.EvNewMessage, enriched)
	m.broadcast(room.ID, senderID, models.NewEvent(models.EvNewMessage, cmd.Event.CorrelationID, enriched))

	// Mention alerts reach tagged participants even without an active room
	// subscription.
	for _, taggedID := range p.TaggedUsers {
		if taggedID == senderID || m.isJoined(taggedID, room.ID) {
			continue
		}
		m.sendToUser(taggedID, models.NewEvent(models.EvUserTagged, "", models.UserTaggedPayload{
			RoomID:     room.ID,
			MessageID:  msg.ID,
			SenderID:   senderID,
			SenderName: enriched.SenderName,
			Preview:    preview(p.Content),
		}))
	}
	return nil
}

func (m *ManagerService) handleGetRoomMessages(cmd Command) error {
	var p models.GetRoomMessagesPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	room, err := m.Storage.GetRoomByID(p.RoomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(cmd.Client.GetUserID()) {
		return models.ErrNotParticipant
	}
	limit := p.Limit
	if limit <= 0 {
		limit = config.DefaultMessagePageLimit
	}
	if limit > config.MaxMessagePageLimit {
		limit = config.MaxMessagePageLimit
	}
	page, err := m.Storage.GetRoomMessages(room.ID, limit)
	if err != nil {
		return err
	}

	replyCache := make(map[uint]*models.ReplySnapshot)
	enrichedPage := make([]models.EnrichedMessage, 0, len(page))
	for _, msg := range page {
		enrichedPage = append(enrichedPage, m.enrichMessage(msg, replyCache))
	}
	m.ack(cmd, models.EvRoomMessages, models.RoomMessagesPayload{RoomID: room.ID, Messages: enrichedPage})
	return nil
}

func (m *ManagerService) handleGetAdminChats(cmd Command) error {
	var p models.GetChatsPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	limit := p.Limit
	if limit <= 0 || limit > config.MaxMessagePageLimit {
		limit = config.DefaultMessagePageLimit
	}
	rooms, err := m.Storage.GetRoomsForUser(cmd.Client.GetUserID(), limit, p.Offset)
	if err != nil {
		return err
	}
	m.ack(cmd, models.EvAdminChats, models.RoomListPayload{Chats: rooms})
	return nil
}

func (m *ManagerService) handleTyping(cmd Command, active bool) {
	var p models.RoomScopedPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return // fire-and-forget: no ack, no error surface
	}
	userID := cmd.Client.GetUserID()
	if !m.isJoined(userID, p.RoomID) {
		return
	}
	name := models.EvTyping
	if active {
		if err := m.Storage.SetTyping(p.RoomID, userID, config.TypingTTL); err != nil {
			log.Printf("WARNING: Failed to set typing state: %v", err)
		}
	} else {
		name = models.EvStopTyping
		if err := m.Storage.ClearTyping(p.RoomID, userID); err != nil {
			log.Printf("WARNING: Failed to clear typing state: %v", err)
		}
	}
	m.broadcast(p.RoomID, userID, models.NewEvent(name, "",
		models.TypingPayload{RoomID: p.RoomID, UserID: userID}))
}

func (m *ManagerService) handleSendInvitation(cmd Command) error {
	var p models.SendInvitationPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	if p.GroupID == "" || len(p.InvitedUserIDs) == 0 {
		return models.NewValidationError("invitedUserIds", "groupId and at least one invitee are required")
	}
	room, err := m.Storage.GetRoomByID(p.GroupID)
	if err != nil {
		return err
	}
	if p.ExpiresAt == nil {
		deadline := time.Now().Add(config.DefaultInviteTTL)
		p.ExpiresAt = &deadline
	}
	inviterID := cmd.Client.GetUserID()
	created, err := m.Invitations.Invite(inviterID, room, p.InvitedUserIDs, p.Message, p.ExpiresAt)
	if err != nil {
		return err
	}

	// Invitees are not members yet, so delivery bypasses room subscription.
	for _, inv := range created {
		m.sendToUser(inv.InvitedUserID, models.NewEvent(models.EvGroupInvitationReceived, "", map[string]any{
			"invitation":    inv,
			"groupName":     room.GroupName,
			"invitedBy":     inviterID,
			"invitedByName": m.displayName(inviterID),
		}))
	}
	m.ack(cmd, models.EvInvitationsSent, models.InvitationsSentPayload{
		Success:     true,
		InvitesSent: len(created),
	})
	return nil
}

func (m *ManagerService) handleRespondInvitation(cmd Command) error {
	var p models.RespondInvitationPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	userID := cmd.Client.GetUserID()
	inv, room, err := m.Invitations.Respond(userID, p.InviteID, p.Response)
	if err != nil {
		return err
	}

	if inv.Status == config.InvitationDeclined {
		m.ack(cmd, models.EvRespondToInvitation, models.InvitationResultPayload{Success: true})
		m.sendToUser(inv.InvitedByUserID, models.NewEvent(models.EvInvitationDeclined, "",
			models.MembershipPayload{RoomID: inv.GroupID, UserID: userID, Reason: p.Reason}))
		return nil
	}

	m.ack(cmd, models.EvJoinedGroup, map[string]any{
		"success": true,
		"groupId": room.ID,
		"room":    room,
	})
	m.broadcast(room.ID, userID, models.NewEvent(models.EvUserJoinedGroup, "",
		models.MembershipPayload{RoomID: room.ID, UserID: userID, Role: config.RoleMember}))
	m.postSystemMessage(room, "system.joined_group", m.displayName(userID))
	return nil
}

func (m *ManagerService) handleGetPendingInvitations(cmd Command) error {
	invites, err := m.Invitations.ListPending(cmd.Client.GetUserID())
	if err != nil {
		return err
	}
	m.ack(cmd, models.EvPendingInvitations, models.PendingInvitationsPayload{Invitations: invites})
	return nil
}

func (m *ManagerService) handleUpdateGroupSettings(cmd Command) error {
	var p models.UpdateGroupSettingsPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	room, err := m.Storage.GetRoomByID(p.GroupID)
	if err != nil {
		return err
	}
	if room.Type != config.RoomTypeGroup {
		return models.NewValidationError("groupId", "settings only apply to group rooms")
	}
	userID := cmd.Client.GetUserID()
	switch room.ParticipantRole(userID) {
	case config.RoleCreator, config.RoleAdmin:
	case "":
		return models.ErrNotParticipant
	default:
		return models.ErrNotAuthorized
	}

	updates := make(map[string]interface{})
	if p.GroupName != nil {
		if *p.GroupName == "" {
			return models.NewValidationError("groupName", "cannot be empty")
		}
		updates["group_name"] = *p.GroupName
	}
	if p.GroupDescription != nil {
		updates["group_description"] = *p.GroupDescription
	}
	if p.GroupAvatar != nil {
		updates["group_avatar"] = *p.GroupAvatar
	}
	if p.IsPublic != nil {
		updates["is_public"] = *p.IsPublic
	}
	if p.MaxParticipants != nil {
		if *p.MaxParticipants < len(room.Participants) {
			return models.NewValidationError("maxParticipants", "below current participant count")
		}
		updates["max_participants"] = *p.MaxParticipants
	}
	if len(p.AllowedRoles) > 0 {
		updates["allowed_roles"] = pq.StringArray(p.AllowedRoles)
	}
	if len(updates) == 0 {
		return models.NewValidationError("data", "no settings to update")
	}
	if err := m.Storage.UpdateGroupSettings(room.ID, updates); err != nil {
		return err
	}
	updated, err := m.Storage.GetRoomByID(room.ID)
	if err != nil {
		return err
	}
	m.ack(cmd, models.EvGroupSettingsUpdated, updated)
	m.broadcast(room.ID, userID, models.NewEvent(models.EvGroupSettingsUpdated, "", updated))
	return nil
}

func (m *ManagerService) handleManageParticipant(cmd Command) error {
	var p models.ManageParticipantPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	room, err := m.Storage.GetRoomByID(p.GroupID)
	if err != nil {
		return err
	}
	if room.Type != config.RoomTypeGroup {
		return models.NewValidationError("groupId", "participants are managed on group rooms only")
	}
	actorID := cmd.Client.GetUserID()
	actorRole := room.ParticipantRole(actorID)
	switch actorRole {
	case config.RoleCreator, config.RoleAdmin:
	case "":
		return models.ErrNotParticipant
	default:
		return models.ErrNotAuthorized
	}
	targetRole := room.ParticipantRole(p.ParticipantID)
	if targetRole == "" {
		return models.NewValidationError("participantId", "not a participant of this group")
	}
	if targetRole == config.RoleCreator {
		return models.ErrNotAuthorized
	}

	switch p.Action {
	case "PROMOTE":
		newRole := p.NewRole
		if newRole == "" {
			newRole = config.RoleAdmin
		}
		if newRole != config.RoleAdmin && newRole != config.RoleMember {
			return models.NewValidationError("newRole", "must be ADMIN or MEMBER")
		}
		if err := m.Storage.UpdateParticipantRole(room.ID, p.ParticipantID, newRole); err != nil {
			return err
		}
		m.finishManage(cmd, room, p, newRole)
	case "DEMOTE":
		if err := m.Storage.UpdateParticipantRole(room.ID, p.ParticipantID, config.RoleMember); err != nil {
			return err
		}
		m.finishManage(cmd, room, p, config.RoleMember)
	case "REMOVE":
		if err := m.Storage.RemoveParticipant(room.ID, p.ParticipantID); err != nil {
			return err
		}
		if removed, ok := m.Clients[p.ParticipantID]; ok {
			m.unsubscribe(removed, room.ID)
			m.sendToClient(removed, models.NewEvent(models.EvRemovedFromGroup, "",
				models.MembershipPayload{RoomID: room.ID, UserID: p.ParticipantID, Reason: p.Reason}))
		}
		m.finishManage(cmd, room, p, "")
		m.postSystemMessage(room, "system.removed_from_group",
			m.displayName(p.ParticipantID), m.displayName(actorID))
	default:
		return models.NewValidationError("action", "must be PROMOTE, DEMOTE, or REMOVE")
	}
	return nil
}

func (m *ManagerService) finishManage(cmd Command, room *models.Room, p models.ManageParticipantPayload, newRole string) {
	updated, err := m.Storage.GetRoomByID(room.ID)
	if err != nil {
		log.Printf("WARNING: Failed to reload room %s after manage: %v", room.ID, err)
		updated = room
	}
	m.ack(cmd, models.EvParticipantManaged, map[string]any{"success": true, "room": updated})
	m.broadcast(room.ID, cmd.Client.GetUserID(), models.NewEvent(models.EvParticipantManaged, "",
		models.MembershipPayload{RoomID: room.ID, UserID: p.ParticipantID, Role: newRole, Reason: p.Reason}))
}

func (m *ManagerService) handleMentionSearch(cmd Command) error {
	var p models.MentionSearchPayload
	if err := cmd.Event.DecodeInto(&p); err != nil {
		return err
	}
	room, err := m.Storage.GetRoomByID(p.RoomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(cmd.Client.GetUserID()) {
		return models.ErrNotParticipant
	}
	candidates := mention.SearchCandidates(room, m.resolveIdentities(participantIDs(room)), p.Query)
	m.ack(cmd, models.EvMentionCandidates, map[string]any{"candidates": candidates})
	return nil
}

// --- helpers ---

// enrichMessage decorates a stored message with resolved sender display
// data and, for replies, the denormalized {senderName, content} snapshot.
// The snapshot is taken now and never refreshed: old replies keep the name
// the sender had when the page was rendered.
func (m *ManagerService) enrichMessage(msg models.Message, replyCache map[uint]*models.ReplySnapshot) models.EnrichedMessage {
	out := models.EnrichedMessage{Message: msg}
	if msg.SenderID == config.SystemSenderID {
		out.SenderName = "System"
	} else if id, err := m.Directory.Resolve(msg.SenderID); err == nil {
		out.SenderName = id.DisplayName
		out.SenderAvatar = id.Avatar
	}
	if msg.ReplyToMessageID != nil {
		out.ReplyTo = m.replySnapshot(*msg.ReplyToMessageID, replyCache)
	}
	return out
}

func (m *ManagerService) replySnapshot(id uint, cache map[uint]*models.ReplySnapshot) *models.ReplySnapshot {
	if cache != nil {
		if snap, ok := cache[id]; ok {
			return snap
		}
	}
	original, err := m.Storage.GetMessageByID(id)
	if err != nil || original == nil {
		return nil
	}
	snap := &models.ReplySnapshot{Content: original.Content}
	if original.SenderID == config.SystemSenderID {
		snap.SenderName = "System"
	} else if identity, err := m.Directory.Resolve(original.SenderID); err == nil {
		snap.SenderName = identity.DisplayName
	}
	if cache != nil {
		cache[id] = snap
	}
	return snap
}

// postSystemMessage persists and fans out a SYSTEM lifecycle message.
func (m *ManagerService) postSystemMessage(room *models.Room, key string, args ...any) {
	msg := &models.Message{
		RoomID:   room.ID,
		SenderID: config.SystemSenderID,
		Content:  m.Localizer.Format(key, args...),
		Type:     config.MessageTypeSystem,
	}
	if err := m.Storage.SaveMessage(msg); err != nil {
		log.Printf("ERROR: Failed to save system message for room %s: %v", room.ID, err)
		return
	}
	if err := m.Storage.TouchRoomActivity(room.ID, msg.ID); err != nil {
		log.Printf("WARNING: Failed to touch room %s activity: %v", room.ID, err)
	}
	enriched := m.enrichMessage(*msg, nil)
	m.broadcast(room.ID, "", models.NewEvent(models.EvNewMessage, "", enriched))
}

func (m *ManagerService) displayName(userID string) string {
	if identity, err := m.Directory.Resolve(userID); err == nil {
		return identity.DisplayName
	}
	return userID
}

func (m *ManagerService) resolveIdentities(userIDs []string) map[string]models.Identity {
	out := make(map[string]models.Identity, len(userIDs))
	for _, id := range userIDs {
		if identity, err := m.Directory.Resolve(id); err == nil {
			out[id] = *identity
		}
	}
	return out
}

func participantIDs(room *models.Room) []string {
	ids := make([]string, 0, len(room.Participants))
	for _, p := range room.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// preview truncates on rune boundaries so a multibyte name or emoji never
// splits into invalid UTF-8.
func preview(content string) string {
	const max = 120
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "…"
}
