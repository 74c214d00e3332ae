// Package notify delivers short user-facing notices (errors, warnings,
// confirmations) from background components to whoever renders them.
package notify

import (
	"sync"
	"time"
)

// Kind is the severity of a notice.
type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
)

// DefaultDuration is how long a notice stays visible when none is given.
const DefaultDuration = 3 * time.Second

// Notice is one published message.
type Notice struct {
	ID       int
	Message  string
	Kind     Kind
	Duration time.Duration
	At       time.Time
}

// Expired reports whether n should no longer be shown at now.
func (n Notice) Expired(now time.Time) bool {
	return now.Sub(n.At) >= n.Duration
}

// Bus fans notices out to subscribers. It is owned by the application root
// and handed to the components that publish; there is no package-level
// instance. Safe for concurrent use.
type Bus struct {
	mu      sync.RWMutex
	nextID  int
	subs    map[int]func(Notice)
	nextSub int
	closed  bool
	now     func() time.Time
	ttl     time.Duration
}

// Option configures a Bus.
type Option func(*Bus)

// WithDefaultDuration sets the duration used when Publish is given none.
func WithDefaultDuration(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.ttl = d
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs: make(map[int]func(Notice)),
		now:  time.Now,
		ttl:  DefaultDuration,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for every later notice. fn runs on the publishing
// goroutine and must not block. The returned function removes the
// subscription and is safe to call more than once.
func (b *Bus) Subscribe(fn func(Notice)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish sends a notice to all subscribers and returns its id. Ids
// increase monotonically from 0. A zero duration means the bus default.
// After Close, Publish still returns an id but delivers nothing.
func (b *Bus) Publish(message string, kind Kind, d time.Duration) int {
	if d <= 0 {
		d = b.ttl
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	n := Notice{ID: id, Message: message, Kind: kind, Duration: d, At: b.now()}
	subs := make([]func(Notice), 0, len(b.subs))
	if !b.closed {
		for _, fn := range b.subs {
			subs = append(subs, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
	return id
}

// Error publishes an error notice with the bus default duration.
func (b *Bus) Error(message string) int {
	return b.Publish(message, KindError, 0)
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops all subscribers. Later subscriptions are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	clear(b.subs)
}

// Channel adapts the bus to a buffered channel, for consumers that poll
// (such as a Bubble Tea command). Notices are dropped when the channel is
// full. The channel is closed by the returned stop function.
func (b *Bus) Channel(size int) (<-chan Notice, func()) {
	ch := make(chan Notice, size)
	var mu sync.Mutex
	stopped := false
	unsub := b.Subscribe(func(n Notice) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		select {
		case ch <- n:
		default:
		}
	})
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			unsub()
			mu.Lock()
			stopped = true
			close(ch)
			mu.Unlock()
		})
	}
}
