package chathub

import (
	"log"
	"time"

	"opsdash/backend/internal/directory"
	"opsdash/backend/internal/invitations"
	"opsdash/backend/internal/localization"
	"opsdash/backend/internal/models"
	"opsdash/backend/internal/storage"
)

// ManagerService is the session registry and broadcast hub. All mutable
// hub state (Clients, room subscriptions) is touched only inside Run's
// goroutine; every mutation is serialized through the channels below, which
// also serializes room mutations and preserves message ordering.
type ManagerService struct {
	// Clients maps staff id -> active connection. One connection per user;
	// a newer connection replaces and closes the older one.
	Clients map[string]Client

	// subs is roomID -> set of joined clients; joined is the reverse index.
	subs   map[string]map[string]Client
	joined map[string]map[string]bool

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	CommandCh    chan Command
	PubSubCh     chan RoomEvent

	Storage     storage.Storage
	Directory   directory.Directory
	Orders      directory.OrderResolver
	Invitations *invitations.Service
	Localizer   *localization.Localizer
}

// NewManagerService wires the hub against its collaborators.
func NewManagerService(s storage.Storage, dir directory.Directory, orders directory.OrderResolver, inv *invitations.Service, loc *localization.Localizer) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		subs:         make(map[string]map[string]Client),
		joined:       make(map[string]map[string]bool),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		CommandCh:    make(chan Command),
		PubSubCh:     make(chan RoomEvent, 64),
		Storage:      s,
		Directory:    dir,
		Orders:       orders,
		Invitations:  inv,
		Localizer:    loc,
	}
}

// Run is the hub dispatcher. Головний цикл: реєстрація, відключення,
// команди клієнтів та події з Redis Pub/Sub.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case cmd := <-m.CommandCh:
			m.dispatch(cmd)

		case ev := <-m.PubSubCh:
			m.deliverRoomEvent(ev)
		}
	}
}

func (m *ManagerService) register(client Client) {
	userID := client.GetUserID()
	if old, ok := m.Clients[userID]; ok && old != client {
		// Лише одне активне з'єднання на користувача.
		log.Printf("INFO: Replacing existing session for %s", userID)
		m.dropSubscriptions(old)
		old.Close()
	}
	m.Clients[userID] = client

	m.sendToClient(client, models.NewEvent(models.EvAdminConnected, "", models.AdminConnectedPayload{
		Identity:   client.GetIdentity(),
		ServerTime: time.Now(),
	}))
	log.Printf("INFO: Admin %s connected", userID)
}

func (m *ManagerService) unregister(client Client) {
	userID := client.GetUserID()
	current, ok := m.Clients[userID]
	if !ok || current != client {
		return // a replacement session already took over
	}
	m.dropSubscriptions(client)
	delete(m.Clients, userID)
	client.Close()
	log.Printf("INFO: Admin %s disconnected", userID)
}

// dropSubscriptions releases every room subscription held by the client and
// clears its typing keys. Presence is owned by the connection that reported
// it, so disconnect wipes it.
func (m *ManagerService) dropSubscriptions(client Client) {
	userID := client.GetUserID()
	for roomID := range m.joined[userID] {
		if members, ok := m.subs[roomID]; ok {
			delete(members, userID)
			if len(members) == 0 {
				delete(m.subs, roomID)
			}
		}
		if err := m.Storage.ClearTyping(roomID, userID); err != nil {
			log.Printf("WARNING: Failed to clear typing for %s in %s: %v", userID, roomID, err)
		}
	}
	delete(m.joined, userID)
}

func (m *ManagerService) subscribe(client Client, roomID string) {
	userID := client.GetUserID()
	if m.subs[roomID] == nil {
		m.subs[roomID] = make(map[string]Client)
	}
	m.subs[roomID][userID] = client
	if m.joined[userID] == nil {
		m.joined[userID] = make(map[string]bool)
	}
	m.joined[userID][roomID] = true
}

func (m *ManagerService) unsubscribe(client Client, roomID string) {
	userID := client.GetUserID()
	if members, ok := m.subs[roomID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.subs, roomID)
		}
	}
	delete(m.joined[userID], roomID)
}

// isJoined reports whether the user's session is currently viewing roomID.
func (m *ManagerService) isJoined(userID, roomID string) bool {
	return m.joined[userID][roomID]
}

// deliverRoomEvent fans an event out to every session joined to the room.
// Fire-and-forget per connection: a slow subscriber is dropped rather than
// ever blocking delivery to the rest.
func (m *ManagerService) deliverRoomEvent(ev RoomEvent) {
	for userID, client := range m.subs[ev.RoomID] {
		if userID == ev.Exclude {
			continue
		}
		m.sendToClient(client, ev.Event)
	}
}

// sendToClient performs a non-blocking send. Переповнений канал означає
// мертвого або занадто повільного клієнта — відключаємо його. Dropping
// removes the client from the registry, and only the current registered
// session is ever written to: a handler issuing several sends in one
// dispatch must not touch a channel Close has already closed.
func (m *ManagerService) sendToClient(client Client, ev models.Event) {
	userID := client.GetUserID()
	if current, ok := m.Clients[userID]; !ok || current != client {
		return
	}
	select {
	case client.GetSendChannel() <- ev:
	default:
		log.Printf("WARNING: Send buffer full for %s, dropping connection", userID)
		m.dropSubscriptions(client)
		delete(m.Clients, userID)
		client.Close()
	}
}

// sendToUser delivers an event straight to a user's session regardless of
// room subscription (invitations, mention alerts). No-op when offline.
func (m *ManagerService) sendToUser(userID string, ev models.Event) {
	if client, ok := m.Clients[userID]; ok {
		m.sendToClient(client, ev)
	}
}

// broadcast hands a room event to the backbone. Local delivery happens when
// the pub/sub listener loops it back through PubSubCh.
func (m *ManagerService) broadcast(roomID, excludeUserID string, ev models.Event) {
	if err := m.Storage.PublishRoomEvent(roomID, excludeUserID, ev); err != nil {
		log.Printf("ERROR: Failed to publish event %s for room %s: %v", ev.Name, roomID, err)
	}
}
