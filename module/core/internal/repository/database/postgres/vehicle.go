package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
)

var _ database.VehicleStore = (*VehicleRepo)(nil)

type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, status, latitude, longitude, last_seen_at, zone_ids FROM vehicles WHERE id = $1`,
		id,
	)

	var v domain.Vehicle
	var zoneIDs pq.StringArray
	err := row.Scan(&v.ID, &v.TenantID, &v.Name, &v.Status, &v.Position.Lat, &v.Position.Lon, &v.LastSeenAt, &zoneIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.ZoneIDs = zoneIDs
	return &v, nil
}

func (r *VehicleRepo) Save(ctx context.Context, v *domain.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, tenant_id, name, status, latitude, longitude, last_seen_at, zone_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   status = EXCLUDED.status,
		   latitude = EXCLUDED.latitude,
		   longitude = EXCLUDED.longitude,
		   last_seen_at = EXCLUDED.last_seen_at,
		   zone_ids = EXCLUDED.zone_ids`,
		v.ID, v.TenantID, v.Name, v.Status, v.Position.Lat, v.Position.Lon, v.LastSeenAt, pq.StringArray(v.ZoneIDs),
	)
	return err
}

func (r *VehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, status, latitude, longitude, last_seen_at, zone_ids FROM vehicles ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		var zoneIDs pq.StringArray
		if err := rows.Scan(&v.ID, &v.TenantID, &v.Name, &v.Status, &v.Position.Lat, &v.Position.Lon, &v.LastSeenAt, &zoneIDs); err != nil {
			return nil, err
		}
		v.ZoneIDs = zoneIDs
		results = append(results, v)
	}
	return results, rows.Err()
}
