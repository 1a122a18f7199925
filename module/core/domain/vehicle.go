package domain

import "time"

type VehicleStatus string

const (
	VehicleAvailable     VehicleStatus = "available"
	VehicleInService     VehicleStatus = "in_service"
	VehicleInMaintenance VehicleStatus = "in_maintenance"
	VehicleOutOfService  VehicleStatus = "out_of_service"
	VehicleStolen        VehicleStatus = "stolen"
)

type Vehicle struct {
	ID         string        `json:"id"`
	TenantID   string        `json:"tenant_id"`
	Name       string        `json:"name"`
	Status     VehicleStatus `json:"status"`
	Position   Position      `json:"position"`
	LastSeenAt time.Time     `json:"last_seen_at"`
	// ZoneIDs is the set of zones the vehicle is authorized to operate in.
	// An empty set disables all geofence checks for the vehicle.
	ZoneIDs []string `json:"zone_ids"`
}

type HistoryQuery struct {
	VehicleID string
	Start     time.Time
	End       time.Time
}

// TrackPoint is one entry of a vehicle's position history.
type TrackPoint struct {
	VehicleID string    `json:"vehicle_id"`
	Position  Position  `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}
