// Package invitations owns the group-invitation lifecycle: creation with
// pending-pair dedupe, accept/decline transitions, and lazy expiry.
package invitations

import (
	"fmt"
	"log"
	"time"

	"opsdash/backend/internal/config"
	"opsdash/backend/internal/models"
)

// Store is the slice of the storage layer the invitation lifecycle needs.
// The full storage service satisfies it.
type Store interface {
	GetRoomByID(roomID string) (*models.Room, error)
	AddParticipant(p *models.Participant) error
	CreateInvitation(inv *models.Invitation) error
	GetInvitationByID(id uint) (*models.Invitation, error)
	FindPendingInvitation(groupID, invitedUserID string) (*models.Invitation, error)
	ListPendingInvitations(invitedUserID string) ([]models.Invitation, error)
	UpdateInvitationStatus(id uint, status string) error
}

// Service handles the business logic for group invitations. Event fan-out
// stays in the hub; this service only mutates durable state and reports
// outcomes.
type Service struct {
	Storage Store
}

// NewService creates a new invitation service.
func NewService(s Store) *Service {
	return &Service{Storage: s}
}

// Invite creates PENDING invitations for each invitee that does not already
// hold one for this group. The inviter must be an ADMIN or CREATOR of the
// group. Invitees who are already participants or already invited are
// skipped, never duplicated.
func (s *Service) Invite(inviterID string, room *models.Room, invitedUserIDs []string, message string, expiresAt *time.Time) ([]models.Invitation, error) {
	if room.Type != config.RoomTypeGroup {
		return nil, models.NewValidationError("groupId", "invitations only apply to group rooms")
	}
	switch room.ParticipantRole(inviterID) {
	case config.RoleCreator, config.RoleAdmin:
	case "":
		return nil, models.ErrNotParticipant
	default:
		return nil, models.ErrNotAuthorized
	}

	var created []models.Invitation
	for _, invitee := range invitedUserIDs {
		if invitee == "" || invitee == inviterID || room.HasParticipant(invitee) {
			continue
		}
		existing, err := s.Storage.FindPendingInvitation(room.ID, invitee)
		if err != nil {
			return created, err
		}
		if existing != nil && !existing.IsExpired(time.Now()) {
			continue // інваріант: не більше одного PENDING на пару
		}
		if existing != nil {
			// Протерміноване PENDING фіксуємо перед створенням нового.
			if err := s.Storage.UpdateInvitationStatus(existing.ID, config.InvitationExpired); err != nil {
				return created, err
			}
		}

		inv := models.Invitation{
			GroupID:         room.ID,
			InvitedUserID:   invitee,
			InvitedByUserID: inviterID,
			Message:         message,
			ExpiresAt:       expiresAt,
			Status:          config.InvitationPending,
		}
		if err := s.Storage.CreateInvitation(&inv); err != nil {
			return created, err
		}
		created = append(created, inv)
	}
	return created, nil
}

// Respond applies ACCEPT or DECLINE to a PENDING, unexpired invitation
// addressed to userID. Any other state fails with ErrInvitationState,
// including an invitation that looked valid in a stale pending list and
// lapsed before the response arrived.
func (s *Service) Respond(userID string, inviteID uint, response string) (*models.Invitation, *models.Room, error) {
	inv, err := s.Storage.GetInvitationByID(inviteID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil || inv.InvitedUserID != userID {
		return nil, nil, models.ErrInvitationState
	}
	if inv.Status != config.InvitationPending {
		return nil, nil, models.ErrInvitationState
	}
	if inv.IsExpired(time.Now()) {
		if err := s.Storage.UpdateInvitationStatus(inv.ID, config.InvitationExpired); err != nil {
			log.Printf("ERROR: Failed to lazily expire invitation %d: %v", inv.ID, err)
		}
		return nil, nil, models.ErrInvitationState
	}

	switch response {
	case "ACCEPT":
		room, err := s.accept(userID, inv)
		if err != nil {
			return nil, nil, err
		}
		inv.Status = config.InvitationAccepted
		return inv, room, nil
	case "DECLINE":
		if err := s.Storage.UpdateInvitationStatus(inv.ID, config.InvitationDeclined); err != nil {
			return nil, nil, err
		}
		inv.Status = config.InvitationDeclined
		return inv, nil, nil
	default:
		return nil, nil, models.NewValidationError("response", "must be ACCEPT or DECLINE")
	}
}

func (s *Service) accept(userID string, inv *models.Invitation) (*models.Room, error) {
	room, err := s.Storage.GetRoomByID(inv.GroupID)
	if err != nil {
		return nil, err
	}
	if room.MaxParticipants > 0 && len(room.Participants) >= room.MaxParticipants {
		return nil, models.ErrRoomFull
	}
	if !room.HasParticipant(userID) {
		p := models.Participant{
			RoomID:   room.ID,
			UserID:   userID,
			Role:     config.RoleMember,
			JoinedAt: time.Now(),
		}
		if err := s.Storage.AddParticipant(&p); err != nil {
			return nil, fmt.Errorf("adding accepted invitee to group: %w", err)
		}
		room.Participants = append(room.Participants, p)
	}
	if err := s.Storage.UpdateInvitationStatus(inv.ID, config.InvitationAccepted); err != nil {
		return nil, err
	}
	return room, nil
}

// ListPending returns the user's open invitations, lazily dropping expired
// rows at read time. No background sweep exists; a stale client list can
// still race a just-expired invitation into ErrInvitationState on respond.
func (s *Service) ListPending(userID string) ([]models.Invitation, error) {
	all, err := s.Storage.ListPendingInvitations(userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	fresh := all[:0]
	for _, inv := range all {
		if inv.IsExpired(now) {
			if err := s.Storage.UpdateInvitationStatus(inv.ID, config.InvitationExpired); err != nil {
				log.Printf("WARNING: Failed to mark invitation %d expired: %v", inv.ID, err)
			}
			continue
		}
		fresh = append(fresh, inv)
	}
	return fresh, nil
}
