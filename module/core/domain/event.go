package domain

import "time"

type EventKind string

const (
	EventAlertCreated    EventKind = "alert.created"
	EventAlertUpdated    EventKind = "alert.updated"
	EventPositionUpdated EventKind = "position.updated"
)

// Event is what the core hands to notification sinks. Delivery is
// fire-and-forget; at-least-once is acceptable.
type Event struct {
	Kind      EventKind `json:"kind"`
	TenantID  string    `json:"tenant_id"`
	Alert     *Alert    `json:"alert,omitempty"`
	VehicleID string    `json:"vehicle_id,omitempty"`
	Position  *Position `json:"position,omitempty"`
	At        time.Time `json:"at"`
}
