package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

// SQLitePenaltyRepo implements PenaltyRepo using a SQLite database.
type SQLitePenaltyRepo struct {
	db db.DBTX
}

func NewSQLitePenaltyRepo(q db.DBTX) *SQLitePenaltyRepo {
	return &SQLitePenaltyRepo{db: q}
}

func (r *SQLitePenaltyRepo) Create(ctx context.Context, p *domain.Penalty) error {
	ensureID(&p.ID)
	if p.Severity == "" {
		p.Severity = domain.ClassifySeverity(p.Violation)
	}
	stampIfZero(&p.CreatedAt)
	_, err := r.db.ExecContext(ctx, `INSERT INTO penalties
		(id, track_id, violation, violation_alt, severity, resolved, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TrackID, p.Violation, p.ViolationAlt, string(p.Severity), boolToInt(p.Resolved),
		p.SortOrder, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting penalty: %w", err)
	}
	return nil
}

func (r *SQLitePenaltyRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.Penalty, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, track_id, violation, violation_alt, severity,
		resolved, sort_order, created_at FROM penalties WHERE track_id = ? ORDER BY sort_order`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing penalties: %w", err)
	}
	defer rows.Close()

	var penalties []*domain.Penalty
	for rows.Next() {
		var p domain.Penalty
		var severity, created string
		var resolved int
		if err := rows.Scan(&p.ID, &p.TrackID, &p.Violation, &p.ViolationAlt, &severity,
			&resolved, &p.SortOrder, &created); err != nil {
			return nil, fmt.Errorf("scanning penalty row: %w", err)
		}
		p.Severity = domain.PenaltySeverity(severity)
		p.Resolved = intToBool(resolved)
		if p.CreatedAt, err = parseTime("created_at", created); err != nil {
			return nil, err
		}
		penalties = append(penalties, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating penalties: %w", err)
	}
	return penalties, nil
}

func (r *SQLitePenaltyRepo) DeleteByTrack(ctx context.Context, trackID string) (int, error) {
	return deleteByTrack(ctx, r.db, "penalties", trackID)
}

// Count returns the total and unresolved penalty counts.
func (r *SQLitePenaltyRepo) Count(ctx context.Context) (int, int, error) {
	var total, unresolved int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN resolved = 0 THEN 1 ELSE 0 END), 0) FROM penalties`,
	).Scan(&total, &unresolved)
	if err != nil {
		return 0, 0, fmt.Errorf("counting penalties: %w", err)
	}
	return total, unresolved, nil
}
