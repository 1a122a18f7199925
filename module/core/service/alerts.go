package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/metrics"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
)

// AlertService owns alert persistence and lifecycle. Its upsert guarantees
// at most one active alert per (vehicle, type) pair: repeated violations of
// the same kind refresh the live alert instead of flooding the store.
type AlertService struct {
	alerts    database.AlertStore
	collector *metrics.Collector
	now       func() time.Time
	newID     func() string

	// Shared with the detection service. Lifecycle transitions must hold
	// the vehicle's lock: an unsynchronized resolve racing a detection
	// refresh would let the refresh save a stale active row over the
	// resolution. RecordViolation and FlagPotentialTheft do NOT lock here;
	// they run inside a detection pass that already holds it.
	locks *VehicleLocks
}

func NewAlertService(alerts database.AlertStore, collector *metrics.Collector, locks *VehicleLocks) *AlertService {
	return &AlertService{
		alerts:    alerts,
		collector: collector,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     locks,
	}
}

// RecordViolation upserts an alert for the violation. When an active alert
// of the same type already exists for the vehicle, only its message and
// position are refreshed; id, severity, and triggeredAt are kept. The
// returned bool reports whether a new record was created.
func (s *AlertService) RecordViolation(ctx context.Context, v *domain.Vehicle, viol domain.Violation) (*domain.Alert, bool, error) {
	existing, err := s.alerts.FindActive(ctx, v.ID, viol.Type)
	if err != nil {
		return nil, false, fmt.Errorf("find active alert: %w", err)
	}

	if existing != nil {
		existing.Message = viol.Message
		existing.Position = v.Position
		if err := s.alerts.Save(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("refresh alert: %w", err)
		}
		s.collector.ObserveAlertRefreshed()
		return existing, false, nil
	}

	alert := &domain.Alert{
		ID:          s.newID(),
		TenantID:    v.TenantID,
		VehicleID:   v.ID,
		ZoneID:      viol.ZoneID,
		Type:        viol.Type,
		Severity:    viol.Severity,
		Status:      domain.AlertActive,
		Message:     viol.Message,
		Position:    v.Position,
		TriggeredAt: s.now(),
	}
	if err := s.alerts.Save(ctx, alert); err != nil {
		return nil, false, fmt.Errorf("create alert: %w", err)
	}
	s.collector.ObserveAlertCreated(string(viol.Type))
	return alert, true, nil
}

// FlagPotentialTheft creates a fresh critical theft alert when one
// detection pass produced both a zone exit and off-hours movement. Theft
// alerts are never deduplicated: each compound detection is its own record.
func (s *AlertService) FlagPotentialTheft(ctx context.Context, v *domain.Vehicle, violations []domain.Violation) (*domain.Alert, error) {
	if !domain.HasTheftSignature(violations) {
		return nil, nil
	}

	alert := &domain.Alert{
		ID:        s.newID(),
		TenantID:  v.TenantID,
		VehicleID: v.ID,
		Type:      domain.AlertPotentialTheft,
		Severity:  domain.SeverityCritical,
		Status:    domain.AlertActive,
		Message: fmt.Sprintf("potential theft: vehicle %s left its authorized zones while moving off-hours",
			vehicleLabel(v)),
		Position:    v.Position,
		TriggeredAt: s.now(),
	}
	if err := s.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("create theft alert: %w", err)
	}
	s.collector.ObserveAlertCreated(string(domain.AlertPotentialTheft))
	return alert, nil
}

// Acknowledge transitions an active alert to acknowledged. Unknown ids
// surface domain.ErrNotFound; non-active alerts domain.ErrInvalidTransition.
func (s *AlertService) Acknowledge(ctx context.Context, id, by string) (*domain.Alert, error) {
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Serialize with detection passes for this vehicle, then re-read so
	// the transition applies to the current row.
	unlock := s.locks.lock(alert.VehicleID)
	defer unlock()

	alert, err = s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := alert.Acknowledge(by, s.now()); err != nil {
		return nil, err
	}
	if err := s.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("save alert: %w", err)
	}
	return alert, nil
}

// Resolve transitions an active or acknowledged alert to resolved, with
// optional notes. Resolved is terminal.
func (s *AlertService) Resolve(ctx context.Context, id, by, notes string) (*domain.Alert, error) {
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(alert.VehicleID)
	defer unlock()

	alert, err = s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := alert.Resolve(by, notes, s.now()); err != nil {
		return nil, err
	}
	if err := s.alerts.Save(ctx, alert); err != nil {
		return nil, fmt.Errorf("save alert: %w", err)
	}
	return alert, nil
}

func (s *AlertService) List(ctx context.Context, tenantID string, status domain.AlertStatus) ([]domain.Alert, error) {
	return s.alerts.ListByTenant(ctx, tenantID, status)
}
