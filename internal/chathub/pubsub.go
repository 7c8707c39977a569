package chathub

import (
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// Broadcaster is the slice of the storage layer that exposes the Redis
// Pub/Sub backbone. The concrete storage service satisfies it; tests feed
// PubSubCh directly instead.
type Broadcaster interface {
	SubscribeBroadcast() *redis.PubSub
}

// StartPubSubListener запускає Goroutine, яка слухає канал широкомовлення
// та передає події кімнат у головний цикл хаба. Every instance runs its own
// listener, so locally published events loop back through the same path as
// events from other instances.
func (m *ManagerService) StartPubSubListener(b Broadcaster) {
	go func() {
		pubsub := b.SubscribeBroadcast()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var ev RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error unmarshalling broadcast payload: %v", err)
				continue
			}
			m.PubSubCh <- ev
		}
	}()
}
