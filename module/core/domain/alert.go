package domain

import "time"

type AlertType string

const (
	AlertZoneExit         AlertType = "zone_exit"
	AlertOffHoursMovement AlertType = "off_hours_movement"
	AlertBatteryLow       AlertType = "battery_low"
	AlertDeviceOffline    AlertType = "device_offline"
	AlertSpeedExceeded    AlertType = "speed_exceeded"
	AlertPotentialTheft   AlertType = "potential_theft"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Alert is a persisted violation record. At most one active alert exists
// per (vehicle, type) pair; repeated violations of the same kind refresh
// the live alert instead of duplicating it.
type Alert struct {
	ID              string        `json:"id"`
	TenantID        string        `json:"tenant_id"`
	VehicleID       string        `json:"vehicle_id"`
	ZoneID          string        `json:"zone_id,omitempty"`
	Type            AlertType     `json:"type"`
	Severity        AlertSeverity `json:"severity"`
	Status          AlertStatus   `json:"status"`
	Message         string        `json:"message"`
	Position        Position      `json:"position"`
	TriggeredAt     time.Time     `json:"triggered_at"`
	AcknowledgedAt  *time.Time    `json:"acknowledged_at,omitempty"`
	AcknowledgedBy  string        `json:"acknowledged_by,omitempty"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
	ResolvedBy      string        `json:"resolved_by,omitempty"`
	ResolutionNotes string        `json:"resolution_notes,omitempty"`
}

// Acknowledge transitions active -> acknowledged.
func (a *Alert) Acknowledge(by string, at time.Time) error {
	if a.Status != AlertActive {
		return ErrInvalidTransition
	}
	a.Status = AlertAcknowledged
	a.AcknowledgedAt = &at
	a.AcknowledgedBy = by
	return nil
}

// Resolve transitions active or acknowledged -> resolved. Resolved is
// terminal.
func (a *Alert) Resolve(by, notes string, at time.Time) error {
	if a.Status == AlertResolved {
		return ErrInvalidTransition
	}
	a.Status = AlertResolved
	a.ResolvedAt = &at
	a.ResolvedBy = by
	a.ResolutionNotes = notes
	return nil
}

// Violation is one policy breach detected for a single position update,
// before it is persisted as an alert.
type Violation struct {
	Type     AlertType     `json:"type"`
	Severity AlertSeverity `json:"severity"`
	ZoneID   string        `json:"zone_id,omitempty"`
	Message  string        `json:"message"`
}

// HasTheftSignature reports whether one detection pass produced both a
// zone exit and off-hours movement. Either signal alone is a common false
// positive; the conjunction within a single position sample is treated as
// high confidence.
func HasTheftSignature(violations []Violation) bool {
	var exit, offHours bool
	for _, v := range violations {
		switch v.Type {
		case AlertZoneExit:
			exit = true
		case AlertOffHoursMovement:
			offHours = true
		}
	}
	return exit && offHours
}
