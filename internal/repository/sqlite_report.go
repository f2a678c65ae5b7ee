package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

// SQLiteReportRepo implements ReportRepo using a SQLite database.
type SQLiteReportRepo struct {
	db db.DBTX
}

func NewSQLiteReportRepo(q db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: q}
}

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	ensureID(&rep.ID)
	stampIfZero(&rep.SubmittedAt)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, track_id, title, submitted_at) VALUES (?, ?, ?, ?)`,
		rep.ID, rep.TrackID, rep.Title, formatTime(rep.SubmittedAt))
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *SQLiteReportRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, track_id, title, submitted_at FROM reports WHERE track_id = ? ORDER BY submitted_at DESC, id`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		var rep domain.Report
		var submitted string
		if err := rows.Scan(&rep.ID, &rep.TrackID, &rep.Title, &submitted); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		if rep.SubmittedAt, err = parseTime("submitted_at", submitted); err != nil {
			return nil, err
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

func (r *SQLiteReportRepo) CountByTrack(ctx context.Context, trackID string) (int, error) {
	return countRows(ctx, r.db, "reports", `SELECT COUNT(*) FROM reports WHERE track_id = ?`, trackID)
}

func (r *SQLiteReportRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "reports", `SELECT COUNT(*) FROM reports`)
}
