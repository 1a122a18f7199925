package cache

import (
	"context"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

// FleetStateCache holds the short-lived live view of the fleet that
// dashboards poll between broadcasts.
type FleetStateCache interface {
	UpdateVehicleState(ctx context.Context, v *domain.Vehicle) error
}
