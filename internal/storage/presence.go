package storage

import (
	"strings"
	"time"
)

// Typing state lives only in Redis under typing:<roomID>:<userID> with a
// short TTL. An entry past its TTL is simply absent; nothing is ever swept
// or persisted.

func typingKey(roomID, userID string) string {
	return "typing:" + roomID + ":" + userID
}

// SetTyping позначає користувача як "друкує" в кімнаті на час ttl.
func (s *Service) SetTyping(roomID, userID string, ttl time.Duration) error {
	return s.Redis.Set(s.Ctx, typingKey(roomID, userID), "1", ttl).Err()
}

// ClearTyping знімає позначку (stopTyping, надсилання повідомлення, розрив з'єднання).
func (s *Service) ClearTyping(roomID, userID string) error {
	return s.Redis.Del(s.Ctx, typingKey(roomID, userID)).Err()
}

// GetTypingUsers returns the ids of users currently composing in the room.
// Advisory only: a key may lapse between the scan and delivery.
func (s *Service) GetTypingUsers(roomID string) ([]string, error) {
	prefix := "typing:" + roomID + ":"
	var users []string
	iter := s.Redis.Scan(s.Ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(s.Ctx) {
		users = append(users, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
