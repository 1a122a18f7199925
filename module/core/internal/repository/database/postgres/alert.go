package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zeph-kun/saas-btp/module/core/domain"
	"github.com/zeph-kun/saas-btp/module/core/internal/repository/database"
)

var _ database.AlertStore = (*AlertRepo)(nil)

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

const alertColumns = `id, tenant_id, vehicle_id, zone_id, type, severity, status, message,
	latitude, longitude, triggered_at, acknowledged_at, acknowledged_by,
	resolved_at, resolved_by, resolution_notes`

func (r *AlertRepo) FindActive(ctx context.Context, vehicleID string, t domain.AlertType) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE vehicle_id = $1 AND type = $2 AND status = $3 LIMIT 1`,
		vehicleID, t, domain.AlertActive,
	)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AlertRepo) FindByID(ctx context.Context, id string) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = $1`,
		id,
	)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AlertRepo) Save(ctx context.Context, a *domain.Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, tenant_id, vehicle_id, zone_id, type, severity, status, message,
		   latitude, longitude, triggered_at, acknowledged_at, acknowledged_by,
		   resolved_at, resolved_by, resolution_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (id) DO UPDATE SET
		   status = EXCLUDED.status,
		   message = EXCLUDED.message,
		   latitude = EXCLUDED.latitude,
		   longitude = EXCLUDED.longitude,
		   acknowledged_at = EXCLUDED.acknowledged_at,
		   acknowledged_by = EXCLUDED.acknowledged_by,
		   resolved_at = EXCLUDED.resolved_at,
		   resolved_by = EXCLUDED.resolved_by,
		   resolution_notes = EXCLUDED.resolution_notes`,
		a.ID, a.TenantID, a.VehicleID, nullString(a.ZoneID), a.Type, a.Severity, a.Status, a.Message,
		a.Position.Lat, a.Position.Lon, a.TriggeredAt, a.AcknowledgedAt, nullString(a.AcknowledgedBy),
		a.ResolvedAt, nullString(a.ResolvedBy), nullString(a.ResolutionNotes),
	)
	return err
}

func (r *AlertRepo) ListByTenant(ctx context.Context, tenantID string, status domain.AlertStatus) ([]domain.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY triggered_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}
	return results, rows.Err()
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var a domain.Alert
	var zoneID, ackBy, resBy, notes sql.NullString
	var ackAt, resAt sql.NullTime

	err := row.Scan(&a.ID, &a.TenantID, &a.VehicleID, &zoneID, &a.Type, &a.Severity, &a.Status, &a.Message,
		&a.Position.Lat, &a.Position.Lon, &a.TriggeredAt, &ackAt, &ackBy,
		&resAt, &resBy, &notes)
	if err != nil {
		return nil, err
	}

	a.ZoneID = zoneID.String
	a.AcknowledgedBy = ackBy.String
	a.ResolvedBy = resBy.String
	a.ResolutionNotes = notes.String
	if ackAt.Valid {
		t := ackAt.Time
		a.AcknowledgedAt = &t
	}
	if resAt.Valid {
		t := resAt.Time
		a.ResolvedAt = &t
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
