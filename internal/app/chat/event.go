/*
Package chat contains the realtime subsystem: connection presence tracking and
room-scoped event fan-out over WebSocket connections.

This file defines the closed event vocabulary exchanged over the channel.
Inbound frames are validated at the boundary; anything outside the vocabulary
is dropped by the caller, never relayed.
*/
package chat

import (
	"encoding/json"
	"fmt"
)

// EventType names one kind of realtime event.
type EventType string

// Client-to-server events.
const (
	// EventAddUser requests the login acknowledgement with the room roster.
	EventAddUser EventType = "add-user"

	// EventNewMessage carries chat text to relay to the rest of the room.
	EventNewMessage EventType = "new-message"

	// EventTyping signals the sender started typing.
	EventTyping EventType = "typing"

	// EventStopTyping signals the sender stopped typing.
	EventStopTyping EventType = "stop-typing"
)

// Server-to-client events.
const (
	// EventLoginAck acknowledges add-user with the member roster.
	EventLoginAck EventType = "login-ack"

	// EventParticipantJoined announces a new room member to everyone else.
	EventParticipantJoined EventType = "participant-joined"

	// EventParticipantLeft announces a departed room member to everyone left.
	EventParticipantLeft EventType = "participant-left"
)

// MaxMessageTextBytes is the maximum allowed size of relayed message text.
const MaxMessageTextBytes = 2000

// Event is the wire envelope for every frame on the realtime channel.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessagePayload is the payload of a relayed new-message event.
type MessagePayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	Timestamp   int64  `json:"timestamp"`
}

// TextPayload is the payload of an inbound new-message event.
type TextPayload struct {
	Text string `json:"text"`
}

// TypingPayload names the participant a typing notice refers to.
type TypingPayload struct {
	DisplayName string `json:"displayName"`
}

// NoticePayload is a human-readable room notice (join/leave announcements).
type NoticePayload struct {
	Text string `json:"text"`
}

// LoginAckPayload answers add-user with the caller's own name and the roster.
type LoginAckPayload struct {
	DisplayName string   `json:"displayName"`
	Members     []Member `json:"members"`
}

// inboundTypes is the closed set of event types a client may send.
var inboundTypes = map[EventType]struct{}{
	EventAddUser:    {},
	EventNewMessage: {},
	EventTyping:     {},
	EventStopTyping: {},
}

// ParseInbound decodes a raw frame and validates its type against the inbound
// vocabulary. Malformed or out-of-vocabulary frames return an error; the
// caller logs and drops them without closing the connection.
func ParseInbound(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("invalid event frame: %w", err)
	}

	if _, ok := inboundTypes[ev.Type]; !ok {
		return Event{}, fmt.Errorf("unsupported event type %q", ev.Type)
	}

	return ev, nil
}

// decodePayload unmarshals an event payload strictly; a nil payload is an error.
func decodePayload(raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing event payload")
	}
	return json.Unmarshal(raw, dest)
}

// EncodeEvent marshals an outbound event envelope with its payload.
func EncodeEvent(t EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", t, err)
	}

	return json.Marshal(Event{Type: t, Payload: payloadBytes})
}
