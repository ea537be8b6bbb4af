// Package notify keeps the short-lived in-app notifications of each session.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays active without dismissal.
const DefaultTTL = 8 * time.Second

// Kind classifies a notification for display.
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindSystem       Kind = "system"
	KindAlert        Kind = "alert"
)

// Notification is one in-app alert.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// Timer is the handle of a scheduled removal.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option customises a Relay.
type Option func(*Relay)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(r *Relay) { r.sched = s }
}

// WithClock replaces time.Now for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

type entry struct {
	n     Notification
	timer Timer
}

// Relay is one session's active notification set. Insertion order is
// display order.
type Relay struct {
	mu     sync.Mutex
	ttl    time.Duration
	sched  Scheduler
	now    func() time.Time
	items  []entry
	closed bool
}

// NewRelay creates a Relay whose entries expire after ttl.
func NewRelay(ttl time.Duration, opts ...Option) *Relay {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Relay{ttl: ttl, sched: realScheduler{}, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Push assigns an id, appends n and schedules its removal.
func (r *Relay) Push(n Notification) Notification {
	n.ID = uuid.New().String()
	n.CreatedAt = r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return n
	}
	id := n.ID
	t := r.sched.AfterFunc(r.ttl, func() { r.remove(id) })
	r.items = append(r.items, entry{n: n, timer: t})
	return n
}

// Dismiss removes id now and cancels its scheduled removal. It reports
// whether the notification was still active.
func (r *Relay) Dismiss(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.n.ID == id {
			e.timer.Stop()
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the current notifications in insertion order.
func (r *Relay) Active() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	for i, e := range r.items {
		out[i] = e.n
	}
	return out
}

// Close drops everything and stops pending timers. Later pushes are ignored.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		e.timer.Stop()
	}
	r.items = nil
	r.closed = true
}

func (r *Relay) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.n.ID == id {
			r.items = append(r.items[:i:i], r.items[i+1:]...)
			return
		}
	}
}
