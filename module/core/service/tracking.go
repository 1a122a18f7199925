package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/cache"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/publisher"
)

// TrackingService keeps the position history and the live fleet view, and
// runs the periodic per-tenant position sweep for dashboards.
type TrackingService struct {
	positions database.PositionLog
	vehicles  database.VehicleStore
	cache     cache.FleetStateCache
	events    publisher.EventPublisher
	now       func() time.Time
}

func NewTrackingService(
	positions database.PositionLog,
	vehicles database.VehicleStore,
	stateCache cache.FleetStateCache,
	events publisher.EventPublisher,
) *TrackingService {
	return &TrackingService{
		positions: positions,
		vehicles:  vehicles,
		cache:     stateCache,
		events:    events,
		now:       time.Now,
	}
}

// RecordTrack appends the vehicle's current position to the history and
// refreshes the live cache. The cache is best-effort; its failure does not
// fail the update.
func (s *TrackingService) RecordTrack(ctx context.Context, v *domain.Vehicle) error {
	point := &domain.TrackPoint{
		VehicleID: v.ID,
		Position:  v.Position,
		Timestamp: v.LastSeenAt,
	}
	if err := s.positions.Insert(ctx, point); err != nil {
		return fmt.Errorf("insert track point: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.UpdateVehicleState(ctx, v); err != nil {
			log.Printf("fleet state cache update for %s: %v", v.ID, err)
		}
	}
	return nil
}

func (s *TrackingService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.vehicles.GetByID(ctx, id)
}

func (s *TrackingService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *TrackingService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.TrackPoint, error) {
	return s.positions.GetHistory(ctx, query)
}

// BroadcastPositions publishes every vehicle's current position to its
// tenant's subscribers. It is a read-only sweep over stored state.
func (s *TrackingService) BroadcastPositions(ctx context.Context) error {
	fleet, err := s.vehicles.List(ctx)
	if err != nil {
		return fmt.Errorf("list vehicles: %w", err)
	}

	now := s.now()
	for i := range fleet {
		v := &fleet[i]
		ev := &domain.Event{
			Kind:      domain.EventPositionUpdated,
			TenantID:  v.TenantID,
			VehicleID: v.ID,
			Position:  &v.Position,
			At:        now,
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			log.Printf("broadcast position for %s: %v", v.ID, err)
		}
	}
	return nil
}

// Run loops the position sweep at the given interval until ctx is done.
func (s *TrackingService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.BroadcastPositions(ctx); err != nil {
				log.Printf("position sweep: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
