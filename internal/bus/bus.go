// Package bus defines the change-notifier contract and its in-process
// implementation. Every Domain State mutation publishes exactly one
// event; delivery is fire-and-forget and never blocks the mutator.
package bus

import (
	"sync"

	"github.com/arif-itm/FarmProof/internal/types"
)

// Notifier delivers state-change events to all live subscribers.
// Implementations exist for the in-process case (Local) and the
// server-relayed case (relay.Client); both sides of the application
// program against this one contract.
type Notifier interface {
	// Publish broadcasts an event to all subscribers without blocking.
	Publish(types.Event)
	// Subscribe registers a new subscriber. The returned cancel func
	// removes it; canceling twice is safe.
	Subscribe() (<-chan types.Event, func())
}

const subscriberBuffer = 16

// Local fans events out to in-process subscribers over buffered
// channels. A subscriber that falls behind misses events rather than
// stalling the publisher; every event carries full state, so the next
// delivered event resynchronizes it.
type Local struct {
	mu   sync.RWMutex
	subs map[chan types.Event]struct{}
}

// NewLocal creates an in-process notifier.
func NewLocal() *Local {
	return &Local{subs: make(map[chan types.Event]struct{})}
}

func (l *Local) Publish(ev types.Event) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for sub := range l.subs {
		select {
		case sub <- ev:
		default:
			// Subscriber is slow/blocked, skip
		}
	}
}

func (l *Local) Subscribe() (<-chan types.Event, func()) {
	ch := make(chan types.Event, subscriberBuffer)

	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, ch)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the live subscriber count.
func (l *Local) Subscribers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}
