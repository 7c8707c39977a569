package chathub

import "opsdash/backend/internal/models"

// Client is the interface for one authenticated admin connection. It
// abstracts the underlying transport so the hub can manage sessions
// uniformly and tests can substitute in-memory doubles.
type Client interface {
	// GetUserID returns the staff id bound to the connection at upgrade time.
	GetUserID() string
	// GetIdentity returns the identity resolved through the staff directory
	// when the session was established.
	GetIdentity() models.Identity

	// GetSendChannel returns the channel the hub writes outbound events to.
	// Delivery is best-effort: a full channel drops the client.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and associated channels.
	Close()
}

// Command is one decoded client frame paired with the session that sent it.
// The issuing client is carried explicitly so dispatch always observes the
// session state current at dispatch time, never a stale closure capture.
type Command struct {
	Client Client
	Event  models.Event
}

// RoomEvent is the fan-out unit flowing from the broadcast backbone to the
// hub: an event scoped to a room, optionally excluding one user (the author
// of a typing signal, the sender of an already-acknowledged message).
type RoomEvent struct {
	RoomID  string       `json:"room_id"`
	Exclude string       `json:"exclude,omitempty"`
	Event   models.Event `json:"event"`
}
