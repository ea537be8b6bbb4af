package notify

import (
	"sync"
	"time"
)

type session struct {
	identityID string
	expiresAt  time.Time
	relay      *Relay
}

// Hub maps session ids to their relays.
type Hub struct {
	mu       sync.Mutex
	ttl      time.Duration
	opts     []Option
	now      func() time.Time
	sessions map[string]*session
}

// NewHub creates a Hub whose relays use ttl and opts.
func NewHub(ttl time.Duration, opts ...Option) *Hub {
	return &Hub{
		ttl:      ttl,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Open registers a session, or returns its relay if already open.
// A zero expiresAt never expires.
func (h *Hub) Open(sessionID, identityID string, expiresAt time.Time) *Relay {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[sessionID]; ok {
		return s.relay
	}
	s := &session{
		identityID: identityID,
		expiresAt:  expiresAt,
		relay:      NewRelay(h.ttl, h.opts...),
	}
	h.sessions[sessionID] = s
	return s.relay
}

// Get returns the relay of an open session.
func (h *Hub) Get(sessionID string) (*Relay, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	if !ok || h.expired(s) {
		return nil, false
	}
	return s.relay, true
}

// Close ends a session and drops its notifications.
func (h *Hub) Close(sessionID string) {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()
	if ok {
		s.relay.Close()
	}
}

// Each calls fn for every live session, pruning expired ones first.
// fn runs without the hub lock held.
func (h *Hub) Each(fn func(sessionID, identityID string, r *Relay)) {
	type item struct {
		sid, iid string
		r        *Relay
	}
	var live []item
	var dead []*Relay

	h.mu.Lock()
	for sid, s := range h.sessions {
		if h.expired(s) {
			delete(h.sessions, sid)
			dead = append(dead, s.relay)
			continue
		}
		live = append(live, item{sid, s.identityID, s.relay})
	}
	h.mu.Unlock()

	for _, r := range dead {
		r.Close()
	}
	for _, it := range live {
		fn(it.sid, it.iid, it.r)
	}
}

// Len reports the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) expired(s *session) bool {
	return !s.expiresAt.IsZero() && !h.now().Before(s.expiresAt)
}
