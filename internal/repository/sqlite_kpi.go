package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

// SQLiteKPIEntryRepo implements KPIEntryRepo using a SQLite database.
type SQLiteKPIEntryRepo struct {
	db db.DBTX
}

func NewSQLiteKPIEntryRepo(q db.DBTX) *SQLiteKPIEntryRepo {
	return &SQLiteKPIEntryRepo{db: q}
}

func (r *SQLiteKPIEntryRepo) Create(ctx context.Context, k *domain.KPIEntry) error {
	ensureID(&k.ID)
	stampIfZero(&k.CreatedAt)
	_, err := r.db.ExecContext(ctx, `INSERT INTO kpi_entries
		(id, track_id, name, actual_value, target_value, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		k.ID, k.TrackID, k.Name, k.Actual, k.Target, formatTime(k.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting kpi entry: %w", err)
	}
	return nil
}

func (r *SQLiteKPIEntryRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.KPIEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, track_id, name, actual_value, target_value, created_at
		FROM kpi_entries WHERE track_id = ? ORDER BY created_at, id`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing kpi entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.KPIEntry
	for rows.Next() {
		var k domain.KPIEntry
		var created string
		if err := rows.Scan(&k.ID, &k.TrackID, &k.Name, &k.Actual, &k.Target, &created); err != nil {
			return nil, fmt.Errorf("scanning kpi entry row: %w", err)
		}
		if k.CreatedAt, err = parseTime("created_at", created); err != nil {
			return nil, err
		}
		entries = append(entries, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating kpi entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteKPIEntryRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "kpi entries", `SELECT COUNT(*) FROM kpi_entries`)
}

// SQLiteTrackKPIRepo implements TrackKPIRepo using a SQLite database.
type SQLiteTrackKPIRepo struct {
	db db.DBTX
}

func NewSQLiteTrackKPIRepo(q db.DBTX) *SQLiteTrackKPIRepo {
	return &SQLiteTrackKPIRepo{db: q}
}

func (r *SQLiteTrackKPIRepo) Create(ctx context.Context, k *domain.TrackKPI) error {
	ensureID(&k.ID)
	stampIfZero(&k.CreatedAt)
	_, err := r.db.ExecContext(ctx, `INSERT INTO track_kpis
		(id, track_id, name, name_alt, sort_order, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		k.ID, k.TrackID, k.Name, k.NameAlt, k.SortOrder, formatTime(k.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting track kpi: %w", err)
	}
	return nil
}

func (r *SQLiteTrackKPIRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.TrackKPI, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, track_id, name, name_alt, sort_order, created_at
		FROM track_kpis WHERE track_id = ? ORDER BY sort_order`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing track kpis: %w", err)
	}
	defer rows.Close()

	var kpis []*domain.TrackKPI
	for rows.Next() {
		var k domain.TrackKPI
		var created string
		if err := rows.Scan(&k.ID, &k.TrackID, &k.Name, &k.NameAlt, &k.SortOrder, &created); err != nil {
			return nil, fmt.Errorf("scanning track kpi row: %w", err)
		}
		if k.CreatedAt, err = parseTime("created_at", created); err != nil {
			return nil, err
		}
		kpis = append(kpis, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating track kpis: %w", err)
	}
	return kpis, nil
}

func (r *SQLiteTrackKPIRepo) DeleteByTrack(ctx context.Context, trackID string) (int, error) {
	return deleteByTrack(ctx, r.db, "track_kpis", trackID)
}

func (r *SQLiteTrackKPIRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "track kpis", `SELECT COUNT(*) FROM track_kpis`)
}
