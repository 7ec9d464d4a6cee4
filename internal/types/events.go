package types

// EventType tags a state-change broadcast so subscribers can run
// UI-level side effects (toasts, counters) without inspecting the state
// delta. The full state always rides along, so a subscriber that ignores
// the tag still resynchronizes correctly.
type EventType string

const (
	EventRegistration EventType = "registration" // A farmer registered and paid a premium
	EventPayout       EventType = "payout"       // A payout settled for one farmer
	EventOracle       EventType = "oracle"       // A new oracle reading was recorded
	EventThresholds   EventType = "thresholds"   // Trigger thresholds were reconfigured
	EventFlood        EventType = "flood"        // The simulated-flood flag flipped
	EventReset        EventType = "reset"        // State was reset to defaults
	EventUpdate       EventType = "update"       // Generic state replacement
)

// Payload is the per-event payload union. Each event category carries
// only the fields relevant to that category.
type Payload interface {
	isPayload()
}

// RegistrationPayload accompanies EventRegistration.
type RegistrationPayload struct {
	FarmerID string `json:"farmerId"`
	Name     string `json:"name"`
	Coverage int64  `json:"coverage"`
	Premium  int64  `json:"premium"`
}

// PayoutPayload accompanies EventPayout.
type PayoutPayload struct {
	FarmerID string `json:"farmerId"`
	Tx       string `json:"tx"`
	Block    int64  `json:"block"`
	Amount   int64  `json:"amount"`
}

// OraclePayload accompanies EventOracle with the raw index readings.
type OraclePayload struct {
	Rainfall float64 `json:"rainfall"`
	NDVI     float64 `json:"ndvi"`
	River    float64 `json:"river"`
	Source   string  `json:"source,omitempty"`
}

// ThresholdsPayload accompanies EventThresholds.
type ThresholdsPayload struct {
	Thresholds Thresholds `json:"thresholds"`
}

// FloodPayload accompanies EventFlood.
type FloodPayload struct {
	Active bool `json:"active"`
}

func (RegistrationPayload) isPayload() {}
func (PayoutPayload) isPayload()       {}
func (OraclePayload) isPayload()       {}
func (ThresholdsPayload) isPayload()   {}
func (FloodPayload) isPayload()        {}

// Event is the envelope broadcast for every state change. State is the
// full post-mutation Domain State; Payload may be nil for events that
// need no extra context (reset, generic update).
type Event struct {
	Type    EventType
	Payload Payload
	State   *DomainState
}
