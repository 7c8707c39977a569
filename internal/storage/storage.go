package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"opsdash/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence boundary consumed by the hub and the
// invitation service. Rooms, messages, and invitations are the only mutable
// shared state; all writes go through these methods.
type Storage interface {
	// Rooms
	SaveRoom(room *models.Room) error
	GetRoomByID(roomID string) (*models.Room, error)
	FindDirectRoom(userA, userB string) (*models.Room, error)
	GetRoomsForUser(userID string, limit, offset int) ([]models.Room, error)
	AddParticipant(p *models.Participant) error
	RemoveParticipant(roomID, userID string) error
	RemoveAllParticipants(roomID string) error
	UpdateParticipantRole(roomID, userID, role string) error
	UpdateGroupSettings(roomID string, updates map[string]interface{}) error
	TouchRoomActivity(roomID string, lastMessageID uint) error

	// Messages
	SaveMessage(msg *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	GetRoomMessages(roomID string, limit int) ([]models.Message, error)

	// Broadcast backbone
	PublishRoomEvent(roomID, excludeUserID string, ev models.Event) error

	// Invitations
	CreateInvitation(inv *models.Invitation) error
	GetInvitationByID(id uint) (*models.Invitation, error)
	FindPendingInvitation(groupID, invitedUserID string) (*models.Invitation, error)
	ListPendingInvitations(invitedUserID string) ([]models.Invitation, error)
	UpdateInvitationStatus(id uint, status string) error
	ExpireInvitations(now time.Time) (int64, error)

	// Typing presence (ephemeral, Redis only)
	SetTyping(roomID, userID string, ttl time.Duration) error
	ClearTyping(roomID, userID string) error
	GetTypingUsers(roomID string) ([]string, error)
}

// Service implements Storage over PostgreSQL (gorm) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// broadcastChannel is the Redis Pub/Sub channel carrying all room events.
const broadcastChannel = "admin:chat:broadcast"

// roomEnvelope wraps an event with its room for the pub/sub listener. The
// shape mirrors chathub.RoomEvent on the consuming side.
type roomEnvelope struct {
	RoomID  string       `json:"room_id"`
	Exclude string       `json:"exclude,omitempty"`
	Event   models.Event `json:"event"`
}

// SaveRoom зберігає кімнату в PostgreSQL.
func (s *Service) SaveRoom(room *models.Room) error {
	return s.DB.Save(room).Error
}

// GetRoomByID повертає кімнату разом з її учасниками.
func (s *Service) GetRoomByID(roomID string) (*models.Room, error) {
	var room models.Room
	err := s.DB.Preload("Participants").Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// FindDirectRoom looks up the DIRECT room for an unordered user pair.
// Returns (nil, nil) when no such room exists yet.
func (s *Service) FindDirectRoom(userA, userB string) (*models.Room, error) {
	key := models.DirectKeyFor(userA, userB)
	var room models.Room
	err := s.DB.Preload("Participants").Where("direct_key = ?", key).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to find direct room for %s: %v", key, err)
		return nil, err
	}
	return &room, nil
}

// GetRoomsForUser повертає кімнати користувача, найактивніші першими.
func (s *Service) GetRoomsForUser(userID string, limit, offset int) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("Participants").
		Joins("JOIN participants ON participants.room_id = rooms.id").
		Where("participants.user_id = ?", userID).
		Order("rooms.last_activity desc").
		Limit(limit).Offset(offset).
		Find(&rooms).Error
	if err != nil {
		log.Printf("ERROR: Failed to list rooms for user %s: %v", userID, err)
		return nil, err
	}
	return rooms, nil
}

func (s *Service) AddParticipant(p *models.Participant) error {
	return s.DB.Create(p).Error
}

func (s *Service) RemoveParticipant(roomID, userID string) error {
	return s.DB.Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.Participant{}).Error
}

// RemoveAllParticipants empties a room. The room row itself is never
// deleted, only left inert.
func (s *Service) RemoveAllParticipants(roomID string) error {
	return s.DB.Where("room_id = ?", roomID).Delete(&models.Participant{}).Error
}

func (s *Service) UpdateParticipantRole(roomID, userID, role string) error {
	return s.DB.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("role", role).Error
}

func (s *Service) UpdateGroupSettings(roomID string, updates map[string]interface{}) error {
	return s.DB.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error
}

// TouchRoomActivity оновлює денормалізований покажчик останнього
// повідомлення та час активності кімнати.
func (s *Service) TouchRoomActivity(roomID string, lastMessageID uint) error {
	return s.DB.Model(&models.Room{}).Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"last_message_id": lastMessageID,
			"last_activity":   gorm.Expr("NOW()"),
		}).Error
}

// SaveMessage зберігає повідомлення в PostgreSQL. msg.ID буде заповнено GORM.
func (s *Service) SaveMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// GetMessageByID повертає повідомлення за ID, або (nil, nil) якщо не знайдено.
func (s *Service) GetMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	err := s.DB.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetRoomMessages returns the most recent limit messages in ascending
// order. Ordering is by the server-assigned sequence, which also drives
// message ordering inside a room.
func (s *Service) GetRoomMessages(roomID string, limit int) ([]models.Message, error) {
	var page []models.Message
	err := s.DB.Where("room_id = ?", roomID).
		Order("id desc").Limit(limit).
		Find(&page).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for room %s: %v", roomID, err)
		return nil, err
	}
	// Newest-first from the query, oldest-first for the client.
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

// PublishRoomEvent публікує подію кімнати в Redis Pub/Sub.
func (s *Service) PublishRoomEvent(roomID, excludeUserID string, ev models.Event) error {
	env := roomEnvelope{RoomID: roomID, Exclude: excludeUserID, Event: ev}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, broadcastChannel, string(raw)).Err()
}

// SubscribeBroadcast підписується на канал широкомовлення кімнат.
func (s *Service) SubscribeBroadcast() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, broadcastChannel)
}
