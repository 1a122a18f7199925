package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/cache"
)

var _ cache.FleetStateCache = (*StateCache)(nil)

// stateTTL bounds how long a vehicle stays "live" after its last update.
const stateTTL = 60 * time.Second

type StateCache struct {
	client *redis.Client
}

func NewStateCache(client *redis.Client) *StateCache {
	return &StateCache{client: client}
}

func (c *StateCache) UpdateVehicleState(ctx context.Context, v *domain.Vehicle) error {
	stateKey := fmt.Sprintf("vehicle:%s:state", v.ID)
	geoKey := fmt.Sprintf("tenant:%s:geo", v.TenantID)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, stateKey, map[string]interface{}{
		"vehicle_id":   v.ID,
		"tenant_id":    v.TenantID,
		"name":         v.Name,
		"status":       string(v.Status),
		"lat":          v.Position.Lat,
		"lon":          v.Position.Lon,
		"last_seen_at": v.LastSeenAt.Unix(),
	})
	pipe.Expire(ctx, stateKey, stateTTL)
	pipe.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      v.ID,
		Longitude: v.Position.Lon,
		Latitude:  v.Position.Lat,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis state pipeline: %w", err)
	}
	return nil
}
