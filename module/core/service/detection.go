package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/metrics"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/publisher"
)

// noiseThresholdMeters is the displacement below which a position update is
// treated as GPS jitter rather than movement.
const noiseThresholdMeters = 10.0

type alertRecorder interface {
	RecordViolation(ctx context.Context, v *domain.Vehicle, viol domain.Violation) (*domain.Alert, bool, error)
	FlagPotentialTheft(ctx context.Context, v *domain.Vehicle, violations []domain.Violation) (*domain.Alert, error)
}

// DetectionService runs the geofence and operating-hours checks for each
// inbound position update and turns breaches into alerts.
type DetectionService struct {
	vehicles  database.VehicleStore
	zones     database.ZoneStore
	alerts    alertRecorder
	events    publisher.EventPublisher
	collector *metrics.Collector
	now       func() time.Time

	// Shared with the alert lifecycle: operator transitions and detection
	// refreshes for one vehicle must not interleave.
	locks *VehicleLocks
}

func NewDetectionService(
	vehicles database.VehicleStore,
	zones database.ZoneStore,
	alerts alertRecorder,
	events publisher.EventPublisher,
	collector *metrics.Collector,
	locks *VehicleLocks,
) *DetectionService {
	return &DetectionService{
		vehicles:  vehicles,
		zones:     zones,
		alerts:    alerts,
		events:    events,
		collector: collector,
		now:       time.Now,
		locks:     locks,
	}
}

// ProcessPosition applies a position update to the vehicle, detects
// violations against its assigned zones, upserts the resulting alerts, and
// flags compound theft. The whole sequence holds the vehicle's lock. A
// store failure before any alert mutation aborts the pass; event publishing
// is fire-and-forget and never fails the update.
func (s *DetectionService) ProcessPosition(ctx context.Context, vehicleID string, pos domain.Position) (*domain.Vehicle, []domain.Violation, error) {
	unlock := s.locks.lock(vehicleID)
	defer unlock()

	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, nil, fmt.Errorf("load vehicle %s: %w", vehicleID, err)
	}

	now := s.now()
	prev := v.Position
	v.Position = pos
	v.LastSeenAt = now

	var violations []domain.Violation
	// Checks apply to leased equipment only, and a vehicle with no zone
	// assignment is exempt from all of them.
	if v.Status == domain.VehicleInService && len(v.ZoneIDs) > 0 {
		zones, err := s.zones.GetActiveByIDs(ctx, v.ZoneIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("load zones for vehicle %s: %w", vehicleID, err)
		}
		violations = evaluate(v, prev, pos, zones, now)
	}

	if err := s.vehicles.Save(ctx, v); err != nil {
		return nil, nil, fmt.Errorf("save vehicle %s: %w", vehicleID, err)
	}
	s.collector.ObservePosition()

	for _, viol := range violations {
		s.collector.ObserveViolation(string(viol.Type))
		alert, created, err := s.alerts.RecordViolation(ctx, v, viol)
		if err != nil {
			return nil, nil, err
		}
		s.publishAlert(ctx, alert, created, now)
	}

	theft, err := s.alerts.FlagPotentialTheft(ctx, v, violations)
	if err != nil {
		return nil, nil, err
	}
	if theft != nil {
		s.publishAlert(ctx, theft, true, now)
	}

	s.publish(ctx, &domain.Event{
		Kind:      domain.EventPositionUpdated,
		TenantID:  v.TenantID,
		VehicleID: v.ID,
		Position:  &pos,
		At:        now,
	})

	return v, violations, nil
}

// evaluate is the pure rule pass over the vehicle's active assigned zones.
// Zone exit is judged on containment alone; off-hours checks additionally
// require real displacement, and the two stay independent of each other.
func evaluate(v *domain.Vehicle, prev, next domain.Position, zones []domain.Zone, now time.Time) []domain.Violation {
	var violations []domain.Violation

	inside := false
	names := make([]string, 0, len(zones))
	for i := range zones {
		names = append(names, zones[i].Name)
		if zones[i].Contains(next) {
			inside = true
		}
	}
	if !inside {
		violations = append(violations, domain.Violation{
			Type:     domain.AlertZoneExit,
			Severity: domain.SeverityCritical,
			Message: fmt.Sprintf("vehicle %s left its authorized zones (%s)",
				vehicleLabel(v), strings.Join(names, ", ")),
		})
	}

	if domain.DistanceMeters(prev, next) < noiseThresholdMeters {
		return violations
	}

	for i := range zones {
		z := &zones[i]
		if !z.HasSchedule() {
			continue
		}
		if !z.AllowsDay(now) {
			violations = append(violations, domain.Violation{
				Type:     domain.AlertOffHoursMovement,
				Severity: domain.SeverityWarning,
				ZoneID:   z.ID,
				Message: fmt.Sprintf("vehicle %s moved on %s, which is not an allowed day for zone %s",
					vehicleLabel(v), now.Weekday(), z.Name),
			})
		} else if !z.WithinAllowedHours(now) {
			violations = append(violations, domain.Violation{
				Type:     domain.AlertOffHoursMovement,
				Severity: domain.SeverityCritical,
				ZoneID:   z.ID,
				Message: fmt.Sprintf("vehicle %s moved at %s outside the allowed window %s-%s for zone %s",
					vehicleLabel(v), now.Format("15:04"), z.AllowedHours.Start, z.AllowedHours.End, z.Name),
			})
		}
	}

	return violations
}

func (s *DetectionService) publishAlert(ctx context.Context, alert *domain.Alert, created bool, at time.Time) {
	kind := domain.EventAlertUpdated
	if created {
		kind = domain.EventAlertCreated
	}
	s.publish(ctx, &domain.Event{
		Kind:     kind,
		TenantID: alert.TenantID,
		Alert:    alert,
		At:       at,
	})
}

func (s *DetectionService) publish(ctx context.Context, e *domain.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		log.Printf("publish %s event: %v", e.Kind, err)
	}
}

func vehicleLabel(v *domain.Vehicle) string {
	if v.Name != "" {
		return v.Name
	}
	return v.ID
}
