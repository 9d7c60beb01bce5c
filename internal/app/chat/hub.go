/*
Package chat contains the realtime subsystem: connection presence tracking and
room-scoped event fan-out over WebSocket connections.

This file defines the Hub, which owns the set of active rooms and their Run
goroutines.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"inkwell/internal/pkg/logx"
)

// GeneralRoomID is the room every realtime connection currently joins.
const GeneralRoomID = "general"

// Hub manages the lifecycle of all active rooms and the shared presence
// registry behind them.
type Hub struct {
	registry *Registry
	rooms    map[string]*Room
	mu       sync.Mutex
	logger   zerolog.Logger
}

// NewHub creates a Hub backed by the given presence registry.
func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		rooms:    make(map[string]*Room),
		logger:   logx.Logger().With().Str("component", "chat_hub").Logger(),
	}
}

// Registry returns the presence registry shared by all rooms.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// GetOrCreateRoom returns the room with the given id, starting its Run loop
// on first use.
func (h *Hub) GetOrCreateRoom(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[id]; ok {
		return room
	}

	room := NewRoom(id, h.registry)
	h.rooms[id] = room
	go room.Run()

	h.logger.Info().Str("room_id", id).Msg("Room created.")
	return room
}

// Shutdown stops every room's Run loop.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, room := range h.rooms {
		room.Stop()
		delete(h.rooms, id)
	}

	h.logger.Info().Msg("Chat hub shut down.")
}
