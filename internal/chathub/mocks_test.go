package chathub_test

import (
	"time"

	"github.com/stretchr/testify/mock"

	"opsdash/backend/internal/chathub"
	"opsdash/backend/internal/invitations"
	"opsdash/backend/internal/localization"
	"opsdash/backend/internal/models"
)

// MockStorage is a testify/mock implementation of the storage.Storage
// interface, allowing flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

// Room operations
func (m *MockStorage) SaveRoom(room *models.Room) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.Room, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) FindDirectRoom(userA, userB string) (*models.Room, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomsForUser(userID string, limit, offset int) ([]models.Room, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockStorage) AddParticipant(p *models.Participant) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStorage) RemoveParticipant(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) RemoveAllParticipants(roomID string) error {
	args := m.Called(roomID)
	return args.Error(0)
}

func (m *MockStorage) UpdateParticipantRole(roomID, userID, role string) error {
	args := m.Called(roomID, userID, role)
	return args.Error(0)
}

func (m *MockStorage) UpdateGroupSettings(roomID string, updates map[string]interface{}) error {
	args := m.Called(roomID, updates)
	return args.Error(0)
}

func (m *MockStorage) TouchRoomActivity(roomID string, lastMessageID uint) error {
	args := m.Called(roomID, lastMessageID)
	return args.Error(0)
}

// Message operations
func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(id uint) (*models.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) GetRoomMessages(roomID string, limit int) ([]models.Message, error) {
	args := m.Called(roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// Broadcast backbone
func (m *MockStorage) PublishRoomEvent(roomID, excludeUserID string, ev models.Event) error {
	args := m.Called(roomID, excludeUserID, ev)
	return args.Error(0)
}

// Invitation operations
func (m *MockStorage) CreateInvitation(inv *models.Invitation) error {
	args := m.Called(inv)
	return args.Error(0)
}

func (m *MockStorage) GetInvitationByID(id uint) (*models.Invitation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStorage) FindPendingInvitation(groupID, invitedUserID string) (*models.Invitation, error) {
	args := m.Called(groupID, invitedUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockStorage) ListPendingInvitations(invitedUserID string) ([]models.Invitation, error) {
	args := m.Called(invitedUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockStorage) UpdateInvitationStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStorage) ExpireInvitations(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

// Typing presence
func (m *MockStorage) SetTyping(roomID, userID string, ttl time.Duration) error {
	args := m.Called(roomID, userID, ttl)
	return args.Error(0)
}

func (m *MockStorage) ClearTyping(roomID, userID string) error {
	args := m.Called(roomID, userID)
	return args.Error(0)
}

func (m *MockStorage) GetTypingUsers(roomID string) ([]string, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// fakeDirectory is a map-backed stand-in for the staff directory.
type fakeDirectory struct {
	staff map[string]models.Identity
}

func newFakeDirectory(identities ...models.Identity) *fakeDirectory {
	d := &fakeDirectory{staff: make(map[string]models.Identity)}
	for _, id := range identities {
		d.staff[id.ID] = id
	}
	return d
}

func (d *fakeDirectory) Resolve(userID string) (*models.Identity, error) {
	if id, ok := d.staff[userID]; ok {
		return &id, nil
	}
	return nil, models.ErrUserNotFound
}

// fakeOrders resolves every order to a canned snapshot.
type fakeOrders struct {
	ref models.OrderReference
}

func (o *fakeOrders) ResolveOrder(orderID string) (*models.OrderReference, error) {
	ref := o.ref
	ref.OrderID = orderID
	return &ref, nil
}

// MockClient is a test double for the chathub.Client interface. Its Send
// channel is buffered so hub fan-out never blocks in tests.
type MockClient struct {
	userID   string
	identity models.Identity
	Recv     chan models.Event
	closed   bool
}

func newMockClient(id, name string) *MockClient {
	return &MockClient{
		userID:   id,
		identity: models.Identity{ID: id, DisplayName: name, Role: "CUSTOMER_CARE"},
		Recv:     make(chan models.Event, 32),
	}
}

func (c *MockClient) GetUserID() string                   { return c.userID }
func (c *MockClient) GetIdentity() models.Identity        { return c.identity }
func (c *MockClient) GetSendChannel() chan<- models.Event { return c.Recv }
func (c *MockClient) Run()                                {}
func (c *MockClient) Close()                              { c.closed = true }

// slowClient mirrors the production websocket client, whose Close also
// closes the send channel. Overflow handling must stay safe against that,
// not just the softer MockClient close.
type slowClient struct {
	MockClient
}

func newSlowClient(id, name string, buffer int) *slowClient {
	return &slowClient{MockClient{
		userID:   id,
		identity: models.Identity{ID: id, DisplayName: name, Role: "CUSTOMER_CARE"},
		Recv:     make(chan models.Event, buffer),
	}}
}

func (c *slowClient) Close() {
	if !c.closed {
		close(c.Recv)
	}
	c.closed = true
}

// waitForEvent drains the client's channel until an event with the given
// name arrives or the timeout fires.
func waitForEvent(c *MockClient, name string, timeout time.Duration) (models.Event, bool) {
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-c.Recv:
			if ev.Name == name {
				return ev, true
			}
		case <-deadline:
			return models.Event{}, false
		}
	}
}

func testLocalizer() *localization.Localizer {
	return localization.NewStaticLocalizer("en", map[string]map[string]string{
		"en": {
			"system.joined_group":       "%s joined the group",
			"system.left_group":         "%s left the group",
			"system.removed_from_group": "%s was removed from the group by %s",
		},
	})
}

func createTestHub(storageMock *MockStorage, dir *fakeDirectory) *chathub.ManagerService {
	return chathub.NewManagerService(
		storageMock,
		dir,
		&fakeOrders{ref: models.OrderReference{CustomerName: "Test Customer"}},
		invitations.NewService(storageMock),
		testLocalizer(),
	)
}
