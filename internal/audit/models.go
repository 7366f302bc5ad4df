package audit

import "time"

// Event captures one security-relevant action at the gate or in the API.
// Keep it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	ActorID   string            `json:"actor_id,omitempty"`
	Action    string            `json:"action"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}
