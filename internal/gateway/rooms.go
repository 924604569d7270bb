package gateway

import "sync"

// roomRegistry tracks which sockets are subscribed to which conversation
// room. It keeps a reverse index so a disconnecting socket can be dropped
// from all of its rooms in one call.
type roomRegistry struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{} // conversationID -> socketID set
	rooms   map[string]map[string]struct{} // socketID -> conversationID set
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{
		members: make(map[string]map[string]struct{}),
		rooms:   make(map[string]map[string]struct{}),
	}
}

// Join subscribes a socket to a room. Joining twice is a no-op.
func (r *roomRegistry) Join(conversationID, socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.members[conversationID] == nil {
		r.members[conversationID] = make(map[string]struct{})
	}
	r.members[conversationID][socketID] = struct{}{}

	if r.rooms[socketID] == nil {
		r.rooms[socketID] = make(map[string]struct{})
	}
	r.rooms[socketID][conversationID] = struct{}{}
}

// Leave unsubscribes a socket from a room. Leaving a room the socket never
// joined is a no-op.
func (r *roomRegistry) Leave(conversationID, socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leaveLocked(conversationID, socketID)
}

func (r *roomRegistry) leaveLocked(conversationID, socketID string) {
	if set := r.members[conversationID]; set != nil {
		delete(set, socketID)
		if len(set) == 0 {
			delete(r.members, conversationID)
		}
	}
	if set := r.rooms[socketID]; set != nil {
		delete(set, conversationID)
		if len(set) == 0 {
			delete(r.rooms, socketID)
		}
	}
}

// DropSocket removes the socket from every room it joined.
func (r *roomRegistry) DropSocket(socketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conversationID := range r.rooms[socketID] {
		r.leaveLocked(conversationID, socketID)
	}
}

// Members returns a snapshot of the room's socket ids.
func (r *roomRegistry) Members(conversationID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.members[conversationID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Contains reports whether the socket is subscribed to the room.
func (r *roomRegistry) Contains(conversationID, socketID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[conversationID][socketID]
	return ok
}
