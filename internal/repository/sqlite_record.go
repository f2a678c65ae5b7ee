package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

// SQLiteRecordRepo implements RecordRepo using a SQLite database.
type SQLiteRecordRepo struct {
	db db.DBTX
}

func NewSQLiteRecordRepo(q db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: q}
}

func (r *SQLiteRecordRepo) Create(ctx context.Context, rec *domain.Record) error {
	ensureID(&rec.ID)
	if rec.Status == "" {
		rec.Status = domain.DeriveStatus(rec.Progress)
	}
	stampIfZero(&rec.CreatedAt, &rec.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `INSERT INTO records
		(id, track_id, title, title_alt, status, progress, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TrackID, rec.Title, rec.TitleAlt, string(rec.Status), rec.Progress, rec.Notes,
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (r *SQLiteRecordRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, track_id, title, title_alt, status, progress, notes,
		created_at, updated_at FROM records WHERE track_id = ? ORDER BY created_at, id`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var status, created, updated string
		if err := rows.Scan(&rec.ID, &rec.TrackID, &rec.Title, &rec.TitleAlt, &status, &rec.Progress,
			&rec.Notes, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}
		rec.Status = domain.NodeStatus(status)
		if rec.CreatedAt, err = parseTime("created_at", created); err != nil {
			return nil, err
		}
		if rec.UpdatedAt, err = parseTime("updated_at", updated); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func (r *SQLiteRecordRepo) DeleteByTrack(ctx context.Context, trackID string) (int, error) {
	return deleteByTrack(ctx, r.db, "records", trackID)
}

func (r *SQLiteRecordRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "records", `SELECT COUNT(*) FROM records`)
}
