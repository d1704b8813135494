package events

import "sync"

// Sender delivers one event to a single open stream. It is a capability
// closure bound to that stream's connection and must return an error once
// the connection is no longer writable.
type Sender func(Event) error

// Subscriber pairs a client id with its delivery capability. gen identifies
// the exact registration so eviction cannot hit a newer one for the same
// key.
type Subscriber struct {
	ClientID string
	Send     Sender
	gen      uint64
}

// Registry tracks the live event-stream subscribers of each user. At most
// one subscriber exists per (userID, clientID) pair: a later registration
// for the same key silently replaces the earlier one, and the replaced
// registration's cleanup becomes a no-op.
type Registry struct {
	mu      sync.RWMutex
	lastGen uint64
	users   map[string]map[string]registration
}

type registration struct {
	send Sender
	gen  uint64
}

// NewRegistry creates an empty registry. One registry is created at process
// start and shared by the stream endpoint and the broadcast dispatcher.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]map[string]registration),
	}
}

// Register stores send under the composite key, replacing any existing
// sender for that exact key. The returned function removes this specific
// registration: it is idempotent, and once the key has been replaced or
// removed it does nothing, so a stale connection tearing down late cannot
// evict its replacement. Registrations with a missing user or client id are
// ignored.
func (r *Registry) Register(userID, clientID string, send Sender) (unregister func()) {
	if userID == "" || clientID == "" || send == nil {
		return func() {}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clients, ok := r.users[userID]
	if !ok {
		clients = make(map[string]registration)
		r.users[userID] = clients
	}
	r.lastGen++
	gen := r.lastGen
	clients[clientID] = registration{send: send, gen: gen}

	return func() { r.remove(userID, clientID, gen) }
}

// remove deletes the entry only while it still holds the given generation.
func (r *Registry) remove(userID, clientID string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, ok := r.users[userID]
	if !ok {
		return
	}
	reg, ok := clients[clientID]
	if !ok || reg.gen != gen {
		return
	}
	delete(clients, clientID)
	if len(clients) == 0 {
		delete(r.users, userID)
	}
}

// Subscribers returns a snapshot of the user's current subscribers. The
// returned slice is a copy; concurrent register/unregister calls do not
// invalidate it.
func (r *Registry) Subscribers(userID string) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := r.users[userID]
	if len(clients) == 0 {
		return nil
	}

	subs := make([]Subscriber, 0, len(clients))
	for id, reg := range clients {
		subs = append(subs, Subscriber{ClientID: id, Send: reg.send, gen: reg.gen})
	}
	return subs
}

// Count returns the number of live subscribers for a user.
func (r *Registry) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID])
}

// TotalCount returns the number of live subscribers across all users.
func (r *Registry) TotalCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, clients := range r.users {
		total += len(clients)
	}
	return total
}
