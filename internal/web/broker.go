package web

import (
	"sync"
)

// sseBroker manages SSE connections for broadcasting state updates
type sseBroker struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

func newSSEBroker() *sseBroker {
	return &sseBroker{
		clients: make(map[chan []byte]struct{}),
	}
}

func (b *sseBroker) register(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = struct{}{}
}

func (b *sseBroker) unregister(client chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; !ok {
		return
	}
	delete(b.clients, client)
	close(client)
}

func (b *sseBroker) broadcast(data []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client <- data:
		default:
			// Client is slow/blocked, skip
		}
	}
}

func (b *sseBroker) count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
