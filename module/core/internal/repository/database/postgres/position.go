package postgres

import (
	"context"
	"database/sql"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
)

var _ database.PositionLog = (*PositionRepo)(nil)

// PositionRepo is the append-only position history.
type PositionRepo struct {
	db *sql.DB
}

func NewPositionRepo(db *sql.DB) *PositionRepo {
	return &PositionRepo{db: db}
}

func (r *PositionRepo) Insert(ctx context.Context, p *domain.TrackPoint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_positions (vehicle_id, latitude, longitude, timestamp) VALUES ($1, $2, $3, $4)`,
		p.VehicleID, p.Position.Lat, p.Position.Lon, p.Timestamp,
	)
	return err
}

func (r *PositionRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.TrackPoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT vehicle_id, latitude, longitude, timestamp FROM vehicle_positions WHERE vehicle_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`,
		query.VehicleID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.TrackPoint
	for rows.Next() {
		var p domain.TrackPoint
		if err := rows.Scan(&p.VehicleID, &p.Position.Lat, &p.Position.Lon, &p.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
