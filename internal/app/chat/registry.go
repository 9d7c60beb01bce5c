/*
Package chat contains the realtime subsystem: connection presence tracking and
room-scoped event fan-out over WebSocket connections.

This file defines the Registry, the in-memory presence tracker mapping each
room to its currently joined connections. The registry is process-wide state
but never a package global: it is constructed in main and handed to the Hub,
so a distributed implementation can replace it without touching the rooms.
*/
package chat

import "sync"

// Member identifies one joined connection within a room. DisplayName is the
// client-claimed name from the handshake; two members may share a display
// name and remain distinguished by ConnID.
type Member struct {
	ConnID      string `json:"connId"`
	DisplayName string `json:"displayName"`
}

// Registry tracks which connections are currently joined to which room,
// preserving join order. All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string][]Member
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string][]Member),
	}
}

// Join registers the connection as a member of room. Display names are not
// checked for uniqueness.
func (r *Registry) Join(room string, m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room] = append(r.rooms[room], m)
}

// List returns a point-in-time snapshot of the room's members in join order.
// An unknown room yields an empty slice, not an error.
func (r *Registry) List(room string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Member, len(r.rooms[room]))
	copy(members, r.rooms[room])
	return members
}

// Leave removes the connection from the room. Removing a connection that is
// not present is a no-op.
func (r *Registry) Leave(room, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[room]
	for i, m := range members {
		if m.ConnID == connID {
			r.rooms[room] = append(members[:i], members[i+1:]...)
			break
		}
	}

	if len(r.rooms[room]) == 0 {
		delete(r.rooms, room)
	}
}

// Count returns the number of members currently joined to room.
func (r *Registry) Count(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[room])
}
