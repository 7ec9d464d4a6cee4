package bus

import (
	"testing"

	"github.com/arif-itm/FarmProof/internal/types"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	l := NewLocal()

	ch1, cancel1 := l.Subscribe()
	ch2, cancel2 := l.Subscribe()
	defer cancel1()
	defer cancel2()

	if l.Subscribers() != 2 {
		t.Fatalf("Expected 2 subscribers, got %d", l.Subscribers())
	}

	state := types.DefaultState()
	l.Publish(types.Event{Type: types.EventReset, State: &state})

	for i, ch := range []<-chan types.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != types.EventReset {
				t.Errorf("Subscriber %d: expected reset, got %s", i, ev.Type)
			}
		default:
			t.Errorf("Subscriber %d received nothing", i)
		}
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	l := NewLocal()

	ch, cancel := l.Subscribe()
	_, keep := l.Subscribe()
	defer keep()

	cancel()
	cancel() // second cancel is a no-op

	if l.Subscribers() != 1 {
		t.Errorf("Expected 1 subscriber after cancel, got %d", l.Subscribers())
	}

	if _, open := <-ch; open {
		t.Error("Expected canceled channel to be closed")
	}

	// Publishing after cancel must not panic.
	state := types.DefaultState()
	l.Publish(types.Event{Type: types.EventUpdate, State: &state})
}

func TestSlowSubscriberIsSkipped(t *testing.T) {
	l := NewLocal()

	slow, cancelSlow := l.Subscribe()
	fast, cancelFast := l.Subscribe()
	defer cancelSlow()
	defer cancelFast()

	state := types.DefaultState()

	// Fill the slow subscriber's buffer, then drain fast alongside.
	for i := 0; i < subscriberBuffer+5; i++ {
		l.Publish(types.Event{Type: types.EventUpdate, State: &state})
		select {
		case <-fast:
		default:
			t.Fatalf("Fast subscriber missed event %d", i)
		}
	}

	// The slow subscriber holds a full buffer; the overflow was dropped.
	if got := len(slow); got != subscriberBuffer {
		t.Errorf("Expected slow buffer to hold %d events, got %d", subscriberBuffer, got)
	}
}
