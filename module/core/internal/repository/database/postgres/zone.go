package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
)

var _ database.ZoneStore = (*ZoneRepo)(nil)

type ZoneRepo struct {
	db *sql.DB
}

func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

const zoneColumns = `id, tenant_id, name, ring, active, allowed_start, allowed_end, allowed_days, color`

func (r *ZoneRepo) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+zoneColumns+` FROM zones WHERE id = $1`,
		id,
	)
	z, err := scanZone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return z, nil
}

func (r *ZoneRepo) GetActiveByIDs(ctx context.Context, ids []string) ([]domain.Zone, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+zoneColumns+` FROM zones WHERE id = ANY($1) AND active ORDER BY name`,
		pq.StringArray(ids),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *z)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanZone(row rowScanner) (*domain.Zone, error) {
	var z domain.Zone
	var ringJSON []byte
	var start, end sql.NullString
	var days pq.Int64Array

	err := row.Scan(&z.ID, &z.TenantID, &z.Name, &ringJSON, &z.Active, &start, &end, &days, &z.Color)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(ringJSON, &z.Ring); err != nil {
		return nil, fmt.Errorf("decode zone ring: %w", err)
	}
	if start.Valid && end.Valid {
		z.AllowedHours = &domain.HoursWindow{Start: start.String, End: end.String}
	}
	for _, d := range days {
		z.AllowedDays = append(z.AllowedDays, time.Weekday(d))
	}
	return &z, nil
}
