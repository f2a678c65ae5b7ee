package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

const taskColumns = `id, track_id, title, status, progress, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(q db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: q}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	ensureID(&t.ID)
	if t.Status == "" {
		t.Status = domain.DeriveStatus(t.Progress)
	}
	stampIfZero(&t.CreatedAt, &t.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TrackID, t.Title, string(t.Status), t.Progress,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "task", ID: id}
	}
	return t, err
}

func (r *SQLiteTaskRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE track_id = ? ORDER BY created_at, id`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) UpdateProgress(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET progress = ?, status = ?, updated_at = ? WHERE id = ?`,
		t.Progress, string(t.Status), formatTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("updating task progress: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Aggregate(ctx context.Context, trackID string) (ProgressAggregate, error) {
	return aggregateProgress(ctx, r.db, "tasks", trackID)
}

func (r *SQLiteTaskRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "tasks", `SELECT COUNT(*) FROM tasks`)
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var status, createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.TrackID, &t.Title, &status, &t.Progress, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Status = domain.NodeStatus(status)
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
