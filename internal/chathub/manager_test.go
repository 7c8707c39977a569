package chathub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"opsdash/backend/internal/chathub"
	"opsdash/backend/internal/models"
)

func TestManager_RegisterUnregister(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, newFakeDirectory())

	clientA := newMockClient("admin_a", "Alice Admin")

	go hub.Run()

	hub.RegisterCh <- clientA
	connected, ok := waitForEvent(clientA, models.EvAdminConnected, time.Second)
	assert.True(t, ok, "registered client should receive adminConnected")

	var payload models.AdminConnectedPayload
	assert.NoError(t, connected.DecodeInto(&payload))
	assert.Equal(t, "admin_a", payload.Identity.ID)
	assert.Equal(t, "Alice Admin", payload.Identity.DisplayName)
	assert.False(t, payload.ServerTime.IsZero())

	time.Sleep(50 * time.Millisecond)
	assert.Contains(t, hub.Clients, "admin_a")

	hub.UnregisterCh <- clientA
	time.Sleep(50 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "admin_a")
}

func TestManager_SingleConnectionPerUser(t *testing.T) {
	storageMock := new(MockStorage)
	hub := createTestHub(storageMock, newFakeDirectory())

	first := newMockClient("admin_a", "Alice Admin")
	second := newMockClient("admin_a", "Alice Admin")

	go hub.Run()

	hub.RegisterCh <- first
	hub.RegisterCh <- second
	time.Sleep(100 * time.Millisecond)

	assert.True(t, first.closed, "older session should be closed on replacement")
	assert.Equal(t, chathub.Client(second), hub.Clients["admin_a"])
}

// TestManager_RoomEventOrdering verifies that two subscribers observe room
// events in the same relative order.
func TestManager_RoomEventOrdering(t *testing.T) {
	storageMock := new(MockStorage)
	dir := newFakeDirectory(
		models.Identity{ID: "admin_a", DisplayName: "Alice"},
		models.Identity{ID: "admin_b", DisplayName: "Bob"},
	)
	hub := createTestHub(storageMock, dir)

	room := &models.Room{
		ID:   "room-1",
		Type: "GROUP",
		Participants: []models.Participant{
			{UserID: "admin_a", Role: "CREATOR"},
			{UserID: "admin_b", Role: "MEMBER"},
		},
	}
	storageMock.On("GetRoomByID", "room-1").Return(room, nil)
	storageMock.On("GetTypingUsers", "room-1").Return([]string{}, nil)

	clientA := newMockClient("admin_a", "Alice")
	clientB := newMockClient("admin_b", "Bob")

	go hub.Run()
	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB

	join := models.NewEvent(models.EvJoinRoom, "", models.RoomScopedPayload{RoomID: "room-1"})
	hub.CommandCh <- chathub.Command{Client: clientA, Event: join}
	hub.CommandCh <- chathub.Command{Client: clientB, Event: join}
	time.Sleep(50 * time.Millisecond)

	firstMsg := models.NewEvent(models.EvNewMessage, "", models.EnrichedMessage{SenderName: "first"})
	secondMsg := models.NewEvent(models.EvNewMessage, "", models.EnrichedMessage{SenderName: "second"})
	hub.PubSubCh <- chathub.RoomEvent{RoomID: "room-1", Event: firstMsg}
	hub.PubSubCh <- chathub.RoomEvent{RoomID: "room-1", Event: secondMsg}

	for _, client := range []*MockClient{clientA, clientB} {
		var got []string
		for len(got) < 2 {
			ev, ok := waitForEvent(client, models.EvNewMessage, time.Second)
			if !assert.True(t, ok, "subscriber should receive both messages") {
				return
			}
			var msg models.EnrichedMessage
			assert.NoError(t, ev.DecodeInto(&msg))
			got = append(got, msg.SenderName)
		}
		assert.Equal(t, []string{"first", "second"}, got)
	}
}

func TestManager_ExcludedUserSkipped(t *testing.T) {
	storageMock := new(MockStorage)
	dir := newFakeDirectory(
		models.Identity{ID: "admin_a", DisplayName: "Alice"},
		models.Identity{ID: "admin_b", DisplayName: "Bob"},
	)
	hub := createTestHub(storageMock, dir)

	room := &models.Room{
		ID:   "room-1",
		Type: "GROUP",
		Participants: []models.Participant{
			{UserID: "admin_a", Role: "CREATOR"},
			{UserID: "admin_b", Role: "MEMBER"},
		},
	}
	storageMock.On("GetRoomByID", "room-1").Return(room, nil)
	storageMock.On("GetTypingUsers", "room-1").Return([]string{}, nil)

	clientA := newMockClient("admin_a", "Alice")
	clientB := newMockClient("admin_b", "Bob")

	go hub.Run()
	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB

	join := models.NewEvent(models.EvJoinRoom, "", models.RoomScopedPayload{RoomID: "room-1"})
	hub.CommandCh <- chathub.Command{Client: clientA, Event: join}
	hub.CommandCh <- chathub.Command{Client: clientB, Event: join}
	time.Sleep(50 * time.Millisecond)

	typing := models.NewEvent(models.EvTyping, "", models.TypingPayload{RoomID: "room-1", UserID: "admin_a"})
	hub.PubSubCh <- chathub.RoomEvent{RoomID: "room-1", Exclude: "admin_a", Event: typing}

	_, ok := waitForEvent(clientB, models.EvTyping, time.Second)
	assert.True(t, ok, "other participant should receive the typing signal")

	_, ok = waitForEvent(clientA, models.EvTyping, 150*time.Millisecond)
	assert.False(t, ok, "the excluded author must not receive their own typing signal")

	storageMock.AssertExpectations(t)
}

// TestManager_SlowClientDroppedWithoutPanic: a send-buffer overflow drops
// the session, and the remaining sends of the same dispatch are skipped
// instead of hitting the just-closed channel. The dispatcher keeps running.
func TestManager_SlowClientDroppedWithoutPanic(t *testing.T) {
	storageMock := new(MockStorage)
	dir := newFakeDirectory(
		models.Identity{ID: "admin_a", DisplayName: "Alice"},
		models.Identity{ID: "admin_b", DisplayName: "Bob"},
	)
	hub := createTestHub(storageMock, dir)

	room := &models.Room{
		ID:   "room-1",
		Type: "GROUP",
		Participants: []models.Participant{
			{UserID: "admin_a", Role: "MEMBER"},
		},
	}
	storageMock.On("GetRoomByID", "room-1").Return(room, nil)
	// Two active typers force consecutive sends before the final join ack.
	storageMock.On("GetTypingUsers", "room-1").Return([]string{"admin_b", "admin_c"}, nil)
	storageMock.On("ClearTyping", "room-1", "admin_a").Return(nil)

	slow := newSlowClient("admin_a", "Alice", 1)

	go hub.Run()
	hub.RegisterCh <- slow // adminConnected fills the only buffer slot
	joinAs(hub, slow, "room-1")

	// The hub must survive the drop and keep serving other sessions.
	healthy := newMockClient("admin_b", "Bob")
	hub.RegisterCh <- healthy
	_, ok := waitForEvent(healthy, models.EvAdminConnected, time.Second)
	assert.True(t, ok, "hub keeps dispatching after dropping the slow client")

	time.Sleep(50 * time.Millisecond)
	assert.True(t, slow.closed, "overflowing session is closed")
	assert.NotContains(t, hub.Clients, "admin_a")
	storageMock.AssertCalled(t, "ClearTyping", "room-1", "admin_a")
}
