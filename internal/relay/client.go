// Package relay implements the server-relayed deployment shape: a
// client process whose durable backing and change notifier both live on
// a remote FarmProof server. Load reads the authoritative snapshot,
// Publish pushes a write request, and Run consumes the server's SSE
// stream, fanning received events out to local subscribers. The client
// holds only a replica and never mutates it in place; every update it
// sees is a full-state replacement.
package relay

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/arif-itm/FarmProof/internal/bus"
	"github.com/arif-itm/FarmProof/internal/codec"
	"github.com/arif-itm/FarmProof/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const reconnectDelay = 3 * time.Second

// Client talks to a remote FarmProof server. It implements both
// backing.Backing and bus.Notifier, so a Store wired to a Client is the
// relay-connected twin of a Store wired to local storage and a local
// bus.
type Client struct {
	baseURL string
	http    *http.Client
	// Streaming requests must not carry the write timeout.
	stream *http.Client
	local  *bus.Local
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		stream:  &http.Client{},
		local:   bus.NewLocal(),
	}
}

// Load fetches the authoritative snapshot. An unreachable server yields
// the default Domain State, matching durable-read failure semantics.
func (c *Client) Load() (types.DomainState, error) {
	resp, err := c.http.Get(c.baseURL + "/api/db")
	if err != nil {
		return types.DefaultState(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.DefaultState(), nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.DefaultState(), nil
	}
	state, err := codec.DecodeState(data)
	if err != nil {
		return types.DefaultState(), nil
	}
	return state, nil
}

// Save persists a snapshot on the server without broadcasting an event.
// The explicit null tag marks the silent-autosave path; a write with no
// tag at all would be relayed as an update.
func (c *Client) Save(state types.DomainState) error {
	body, err := json.Marshal(struct {
		State     types.DomainState `json:"state"`
		EventType *types.EventType  `json:"eventType"`
	}{State: state})
	if err != nil {
		return fmt.Errorf("encode save request: %w", err)
	}
	return c.post("/api/db", body)
}

// Publish pushes a mutation to the server as a write request; the
// server persists the state and relays the event to every subscriber,
// this client included. Delivery is fire-and-forget: failures are
// logged and never reach the mutator.
func (c *Client) Publish(ev types.Event) {
	body, err := codec.EncodeEvent(ev)
	if err != nil {
		log.Printf("Warning: failed to encode %s event: %v", ev.Type, err)
		return
	}
	if err := c.post("/api/db", body); err != nil {
		log.Printf("Warning: failed to push %s event: %v", ev.Type, err)
	}
}

// Subscribe registers a local subscriber for events received over the
// server stream. Run must be active for events to arrive.
func (c *Client) Subscribe() (<-chan types.Event, func()) {
	return c.local.Subscribe()
}

// Close releases nothing; the SSE stream is owned by Run's context.
func (c *Client) Close() error {
	return nil
}

// Reset asks the server to wipe state back to defaults.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/reset", nil)
	if err != nil {
		return fmt.Errorf("build reset request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reset: server returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(path string, body []byte) error {
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: server returned HTTP %d", path, resp.StatusCode)
	}
	return nil
}

// Run consumes the server's SSE stream until the context is canceled,
// reconnecting after stream loss. Received envelopes are decoded,
// rehydrated, and fanned out to local subscribers.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.consumeStream(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Event stream disconnected: %v (reconnecting in %s)", err, reconnectDelay)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Client) consumeStream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned HTTP %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var data bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 {
				c.dispatch(data.Bytes())
				data.Reset()
			}
		case strings.HasPrefix(line, ":"):
			// Heartbeat comment, no payload.
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return fmt.Errorf("stream closed by server")
}

func (c *Client) dispatch(raw []byte) {
	ev, err := codec.DecodeEvent(raw)
	if err != nil {
		log.Printf("Warning: dropping undecodable event: %v", err)
		return
	}
	c.local.Publish(ev)
}
