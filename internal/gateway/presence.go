package gateway

import "sync"

// presenceRegistry tracks which sockets belong to which user. Status
// transitions happen only on the first socket arriving and the last socket
// leaving, so a user with three tabs open stays "online" until all three are
// gone.
type presenceRegistry struct {
	mu      sync.RWMutex
	sockets map[string]map[string]struct{} // userID -> socketID set
}

func newPresenceRegistry() *presenceRegistry {
	return &presenceRegistry{
		sockets: make(map[string]map[string]struct{}),
	}
}

// Add registers a socket for a user and reports whether it is the user's
// first live socket.
func (p *presenceRegistry) Add(userID, socketID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.sockets[userID]
	if !ok {
		set = make(map[string]struct{})
		p.sockets[userID] = set
	}
	set[socketID] = struct{}{}
	return len(set) == 1
}

// Remove unregisters a socket and reports whether it was the user's last
// live socket. Removing an unknown socket reports false.
func (p *presenceRegistry) Remove(userID, socketID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	set, ok := p.sockets[userID]
	if !ok {
		return false
	}
	if _, ok := set[socketID]; !ok {
		return false
	}
	delete(set, socketID)
	if len(set) == 0 {
		delete(p.sockets, userID)
		return true
	}
	return false
}

// IsOnline reports whether the user has at least one live socket.
func (p *presenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.sockets[userID]) > 0
}

// SocketsForUser returns a snapshot of the user's socket ids.
func (p *presenceRegistry) SocketsForUser(userID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	set := p.sockets[userID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// OnlineUsers returns a snapshot of all users with at least one live socket.
func (p *presenceRegistry) OnlineUsers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.sockets))
	for id := range p.sockets {
		out = append(out, id)
	}
	return out
}
