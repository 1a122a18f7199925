package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/zeph-kun/saas-btp/module/core/domain"
)

func TestPositionInsert_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts := time.Unix(1715003456, 0)
	mock.ExpectExec(`INSERT INTO vehicle_positions`).
		WithArgs("B1234XYZ", 48.85, 2.35, ts).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPositionRepo(db)
	err = repo.Insert(context.Background(), &domain.TrackPoint{
		VehicleID: "B1234XYZ",
		Position:  domain.Position{Lat: 48.85, Lon: 2.35},
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPositionInsert_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts := time.Unix(1715003456, 0)
	mock.ExpectExec(`INSERT INTO vehicle_positions`).
		WithArgs("B1234XYZ", 48.85, 2.35, ts).
		WillReturnError(sqlmock.ErrCancelled)

	repo := NewPositionRepo(db)
	err = repo.Insert(context.Background(), &domain.TrackPoint{
		VehicleID: "B1234XYZ",
		Position:  domain.Position{Lat: 48.85, Lon: 2.35},
		Timestamp: ts,
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetHistory_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	ts1 := time.Unix(1715000000, 0)
	ts2 := time.Unix(1715005000, 0)
	start := time.Unix(1715000000, 0)
	end := time.Unix(1715009999, 0)

	rows := sqlmock.NewRows([]string{"vehicle_id", "latitude", "longitude", "timestamp"}).
		AddRow("B1234XYZ", 48.85, 2.35, ts1).
		AddRow("B1234XYZ", 48.86, 2.36, ts2)

	mock.ExpectQuery(`SELECT vehicle_id, latitude, longitude, timestamp FROM vehicle_positions WHERE vehicle_id = (.+) AND timestamp >= (.+) AND timestamp <= (.+) ORDER BY timestamp ASC`).
		WithArgs("B1234XYZ", start, end).
		WillReturnRows(rows)

	repo := NewPositionRepo(db)
	results, err := repo.GetHistory(context.Background(), &domain.HistoryQuery{
		VehicleID: "B1234XYZ",
		Start:     start,
		End:       end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Position.Lat != 48.85 {
		t.Errorf("expected 48.85, got %f", results[0].Position.Lat)
	}
	if results[1].Position.Lat != 48.86 {
		t.Errorf("expected 48.86, got %f", results[1].Position.Lat)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetHistory_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	start := time.Unix(1715000000, 0)
	end := time.Unix(1715009999, 0)
	rows := sqlmock.NewRows([]string{"vehicle_id", "latitude", "longitude", "timestamp"})

	mock.ExpectQuery(`SELECT vehicle_id, latitude, longitude, timestamp FROM vehicle_positions`).
		WithArgs("B1234XYZ", start, end).
		WillReturnRows(rows)

	repo := NewPositionRepo(db)
	results, err := repo.GetHistory(context.Background(), &domain.HistoryQuery{
		VehicleID: "B1234XYZ",
		Start:     start,
		End:       end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestGetHistory_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	start := time.Unix(1715000000, 0)
	end := time.Unix(1715009999, 0)

	mock.ExpectQuery(`SELECT vehicle_id, latitude, longitude, timestamp FROM vehicle_positions`).
		WithArgs("B1234XYZ", start, end).
		WillReturnError(sqlmock.ErrCancelled)

	repo := NewPositionRepo(db)
	_, err = repo.GetHistory(context.Background(), &domain.HistoryQuery{
		VehicleID: "B1234XYZ",
		Start:     start,
		End:       end,
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
