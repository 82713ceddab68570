package session

import "sync"

// Registry is the process-wide table of live sessions and per-topic
// subscriber sets. Membership mutations and snapshots hold the mutex for
// their duration only; it is never held across a network send.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	topics   map[string]map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		topics:   make(map[string]map[string]struct{}),
	}
}

// Add registers a live session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Remove deletes a session and purges its id from every topic's subscriber
// set in one critical section. Called on teardown; idempotent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	for _, members := range r.topics {
		delete(members, id)
	}
}

// Get looks up a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Subscribe adds a session id to a topic's subscriber set.
func (r *Registry) Subscribe(topic, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.topics[topic]
	if !ok {
		members = make(map[string]struct{})
		r.topics[topic] = members
	}
	members[sessionID] = struct{}{}
}

// Unsubscribe removes a session id from a topic's subscriber set and
// reports whether it was a member. Never an error: repeat unsubscribes
// simply report false.
func (r *Registry) Unsubscribe(topic, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.topics[topic]
	if !ok {
		return false
	}
	if _, member := members[sessionID]; !member {
		return false
	}
	delete(members, sessionID)
	return true
}

// Subscribers returns a snapshot copy of a topic's subscriber ids. Empty
// for unknown topics.
func (r *Registry) Subscribers(topic string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.topics[topic]
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	return ids
}

// Prune removes dead session ids from a topic's subscriber set and the
// session table in one pass. Used by the broadcast fan-out after send
// failures.
func (r *Registry) Prune(topic string, ids []string) {
	if len(ids) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.topics[topic]
	for _, id := range ids {
		if members != nil {
			delete(members, id)
		}
		delete(r.sessions, id)
	}
}

// All returns a snapshot of every live session, for shutdown.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
