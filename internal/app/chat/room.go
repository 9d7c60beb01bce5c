/*
Package chat contains the realtime subsystem: connection presence tracking and
room-scoped event fan-out over WebSocket connections.

This file defines the Room, the broadcast hub for one named group of
connections. The Run loop serializes registration, deregistration, and relay
so membership changes and fan-out never interleave mid-event.
*/
package chat

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"inkwell/internal/pkg/logx"
)

const relayChannelBuffer = 1024

// envelope is a frame queued for delivery. A broadcast envelope is tagged
// with its originating connection so the sender never receives its own event
// back; a targeted envelope names the single recipient instead.
type envelope struct {
	senderConnID string
	targetConnID string
	data         []byte
}

// Room is a single named broadcast group. Every event a member emits is
// relayed to every other member; nothing is echoed to the originator and
// nothing is persisted.
type Room struct {
	// ID is the room identifier used as the presence registry key.
	ID string

	// registry records membership; it is shared across rooms and injected.
	registry *Registry

	// clients holds the live connections keyed by connection id.
	clients map[string]*Client

	// relay carries member-originated frames awaiting fan-out.
	relay chan envelope

	// register and unregister carry lifecycle transitions into the Run loop.
	register   chan *Client
	unregister chan *Client

	// stopChan terminates the Run loop immediately.
	stopChan chan struct{}

	// mu protects access to the clients map.
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewRoom creates a Room bound to the given presence registry.
func NewRoom(id string, registry *Registry) *Room {
	roomLogger := logx.Logger().With().
		Str("room_id", id).
		Logger()

	return &Room{
		ID:         id,
		registry:   registry,
		clients:    make(map[string]*Client),
		relay:      make(chan envelope, relayChannelBuffer),
		register:   make(chan *Client),
		// buffered so the Run loop can queue removals for itself during fan-out
		unregister: make(chan *Client, 32),
		stopChan:   make(chan struct{}),
		logger:     roomLogger,
	}
}

// Members returns the current roster snapshot from the presence registry.
func (r *Room) Members() []Member {
	return r.registry.List(r.ID)
}

// RegisterClient queues a client for registration with the Run loop.
func (r *Room) RegisterClient(client *Client) {
	select {
	case r.register <- client:
	case <-r.stopChan:
		r.logger.Warn().Str("conn_id", client.connID).Msg("Register ignored, room stopped.")
	}
}

// Stop terminates the Room's Run loop.
func (r *Room) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
}

// Run starts the main event loop for the Room. It handles client
// registration, deregistration, and event fan-out until stopped.
func (r *Room) Run() {
	defer func() {
		r.mu.Lock()
		for _, client := range r.clients {
			r.registry.Leave(r.ID, client.connID)
			closeSend(client)
		}
		r.clients = make(map[string]*Client)
		r.mu.Unlock()

		r.logger.Info().Msg("Room Run loop finished.")
	}()

	for {
		select {
		case client := <-r.register:
			r.handleRegister(client)

		case client := <-r.unregister:
			r.handleUnregister(client)

		case env := <-r.relay:
			if env.targetConnID != "" {
				r.deliverTo(env.targetConnID, env.data)
			} else {
				r.fanOut(env.data, env.senderConnID)
			}

		case <-r.stopChan:
			return
		}
	}
}

// handleRegister records the new member and announces it to everyone else.
// The registry join happens before the notice so a login-ack requested
// immediately after always includes the new member.
func (r *Room) handleRegister(client *Client) {
	r.mu.Lock()
	r.clients[client.connID] = client
	r.mu.Unlock()

	r.registry.Join(r.ID, Member{ConnID: client.connID, DisplayName: client.displayName})

	r.logger.Info().
		Str("conn_id", client.connID).
		Str("display_name", client.displayName).
		Int("total_members", r.registry.Count(r.ID)).
		Msg("Client joined room.")

	notice, err := EncodeEvent(EventParticipantJoined, NoticePayload{
		Text: fmt.Sprintf("%s joined the room", client.displayName),
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build participant-joined notice.")
		return
	}
	r.fanOut(notice, client.connID)
}

// handleUnregister removes the member and announces the departure to the
// remaining members. Stale clients (already replaced or removed) are ignored,
// which keeps the leave transition effective exactly once.
func (r *Room) handleUnregister(client *Client) {
	r.mu.Lock()
	current, ok := r.clients[client.connID]
	if !ok || current != client {
		r.mu.Unlock()
		r.logger.Info().
			Str("conn_id", client.connID).
			Msg("Ignoring unregister for unknown or stale connection.")
		return
	}

	delete(r.clients, client.connID)
	closeSend(client)
	r.mu.Unlock()

	r.registry.Leave(r.ID, client.connID)

	r.logger.Info().
		Str("conn_id", client.connID).
		Str("display_name", client.displayName).
		Int("total_members", r.registry.Count(r.ID)).
		Msg("Client left room.")

	notice, err := EncodeEvent(EventParticipantLeft, NoticePayload{
		Text: fmt.Sprintf("%s left the room", client.displayName),
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to build participant-left notice.")
		return
	}
	r.fanOut(notice, client.connID)
}

// fanOut delivers data to every member except the originator. Each member's
// send queue preserves enqueue order, so one sender's events reach a given
// observer in emission order. A member with a full queue is dropped from the
// room rather than allowed to stall everyone else.
func (r *Room) fanOut(data []byte, excludeConnID string) {
	r.mu.RLock()
	var stalled []*Client
	for connID, client := range r.clients {
		if connID == excludeConnID {
			continue
		}

		select {
		case client.send <- data:
		default:
			r.logger.Warn().
				Str("conn_id", connID).
				Msg("Client send channel full, scheduling removal.")
			stalled = append(stalled, client)
		}
	}
	r.mu.RUnlock()

	for _, client := range stalled {
		select {
		case r.unregister <- client:
		default:
			r.logger.Warn().Msg("Unregister channel full, skipping client cleanup.")
		}
	}
}

// deliverTo queues data for a single connection. Like fanOut, it runs only in
// the Run goroutine, so sends never race the channel close.
func (r *Room) deliverTo(connID string, data []byte) {
	r.mu.RLock()
	client, ok := r.clients[connID]
	r.mu.RUnlock()

	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		r.logger.Warn().
			Str("conn_id", connID).
			Msg("Client send channel full, dropping targeted frame.")
	}
}

// closeSend closes a client's send channel, ending its WritePump. Callers
// reach here at most once per client: the stale guard in handleUnregister and
// the clients-map reset in Run's cleanup keep the paths disjoint.
func closeSend(client *Client) {
	close(client.send)
}
