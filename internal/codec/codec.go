// Package codec is the single encode/decode boundary for values crossing
// durable storage or the change notifier. All deserialization passes
// through one typed step that validates shape and rehydrates timestamps,
// rather than ad hoc field checks scattered through consumers.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/arif-itm/FarmProof/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMissingState indicates an event envelope without a state snapshot.
var ErrMissingState = errors.New("event envelope is missing state")

// EncodeState serializes a Domain State to its canonical JSON document,
// the exact shape written to durable backing and sent over the wire.
func EncodeState(s types.DomainState) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState deserializes a Domain State document and rehydrates it.
func DecodeState(data []byte) (types.DomainState, error) {
	var s types.DomainState
	if err := json.Unmarshal(data, &s); err != nil {
		return types.DomainState{}, fmt.Errorf("decode state: %w", err)
	}
	Rehydrate(&s)
	return s, nil
}

// Rehydrate restores richly-typed fields after deserialization:
// every timestamp is normalized to UTC, missing timestamps are
// backfilled, and nil slices become empty ones so callers can range
// without nil checks. Rehydrating an already-rehydrated state is a no-op.
func Rehydrate(s *types.DomainState) {
	if s.Farmers == nil {
		s.Farmers = []types.Farmer{}
	}
	if s.Ledger == nil {
		s.Ledger = []types.LedgerEntry{}
	}
	for i := range s.Farmers {
		s.Farmers[i].RegisteredAt = rehydrateTime(s.Farmers[i].RegisteredAt)
	}
	for i := range s.Ledger {
		s.Ledger[i].Timestamp = rehydrateTime(s.Ledger[i].Timestamp)
	}
}

func rehydrateTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// envelope is the wire shape of a change-notifier broadcast:
// {eventType, payload, state}, with payload varying per event type.
type envelope struct {
	EventType types.EventType     `json:"eventType"`
	Payload   jsoniter.RawMessage `json:"payload,omitempty"`
	State     *types.DomainState  `json:"state"`
}

// EncodeEvent serializes an event envelope for the wire.
func EncodeEvent(ev types.Event) ([]byte, error) {
	env := envelope{EventType: ev.Type, State: ev.State}
	if ev.Payload != nil {
		raw, err := json.Marshal(ev.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", ev.Type, err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// DecodeEvent deserializes an event envelope, decoding the payload into
// the concrete type for its event tag and rehydrating the state
// snapshot. An envelope with no eventType field carries an ordinary
// state replacement and gets the update tag; an explicit null or empty
// tag marks a silent autosave and stays empty. Envelopes with an
// unrecognized tag keep a nil payload; the state still applies.
// Envelopes without state are rejected.
func DecodeEvent(data []byte) (types.Event, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return types.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if env.State == nil {
		return types.Event{}, ErrMissingState
	}
	Rehydrate(env.State)

	evType, err := decodeEventTag(env.EventType)
	if err != nil {
		return types.Event{}, err
	}

	ev := types.Event{Type: evType, State: env.State}
	if len(env.Payload) == 0 {
		return ev, nil
	}

	switch evType {
	case types.EventRegistration:
		var p types.RegistrationPayload
		err = json.Unmarshal(env.Payload, &p)
		ev.Payload = p
	case types.EventPayout:
		var p types.PayoutPayload
		err = json.Unmarshal(env.Payload, &p)
		ev.Payload = p
	case types.EventOracle:
		var p types.OraclePayload
		err = json.Unmarshal(env.Payload, &p)
		ev.Payload = p
	case types.EventThresholds:
		var p types.ThresholdsPayload
		err = json.Unmarshal(env.Payload, &p)
		ev.Payload = p
	case types.EventFlood:
		var p types.FloodPayload
		err = json.Unmarshal(env.Payload, &p)
		ev.Payload = p
	}
	if err != nil {
		return types.Event{}, fmt.Errorf("decode %s payload: %w", evType, err)
	}
	return ev, nil
}

// wireEnvelope keeps the event tag raw so an absent field can be told
// apart from an explicit null, the way the original autosave protocol
// distinguishes them.
type wireEnvelope struct {
	EventType jsoniter.RawMessage `json:"eventType"`
	Payload   jsoniter.RawMessage `json:"payload,omitempty"`
	State     *types.DomainState  `json:"state"`
}

// decodeEventTag resolves the wire tag: a missing field means a plain
// state replacement and defaults to update; null or "" is the silent
// autosave marker and resolves to the empty tag.
func decodeEventTag(raw jsoniter.RawMessage) (types.EventType, error) {
	if len(raw) == 0 {
		return types.EventUpdate, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var tag types.EventType
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", fmt.Errorf("decode event tag: %w", err)
	}
	return tag, nil
}
