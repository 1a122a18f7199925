package database

import (
	"context"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

type VehicleStore interface {
	// GetByID returns domain.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	Save(ctx context.Context, v *domain.Vehicle) error
	List(ctx context.Context) ([]domain.Vehicle, error)
}

type ZoneStore interface {
	// GetByID returns domain.ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*domain.Zone, error)
	// GetActiveByIDs returns the active zones among ids, in full, so
	// containment and schedule checks can run in-process.
	GetActiveByIDs(ctx context.Context, ids []string) ([]domain.Zone, error)
}

type AlertStore interface {
	// FindActive returns the live alert for (vehicle, type), or nil when
	// none exists. Absence is not an error here.
	FindActive(ctx context.Context, vehicleID string, t domain.AlertType) (*domain.Alert, error)
	// FindByID returns domain.ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*domain.Alert, error)
	Save(ctx context.Context, a *domain.Alert) error
	ListByTenant(ctx context.Context, tenantID string, status domain.AlertStatus) ([]domain.Alert, error)
}

type PositionLog interface {
	Insert(ctx context.Context, p *domain.TrackPoint) error
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.TrackPoint, error)
}
