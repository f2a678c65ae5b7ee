package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

const trackColumns = `id, key, name, name_alt, description, description_extended, color,
		created_at, updated_at`

// SQLiteTrackRepo implements TrackRepo using a SQLite database.
type SQLiteTrackRepo struct {
	db db.DBTX
}

func NewSQLiteTrackRepo(q db.DBTX) *SQLiteTrackRepo {
	return &SQLiteTrackRepo{db: q}
}

func (r *SQLiteTrackRepo) Create(ctx context.Context, t *domain.Track) error {
	ensureID(&t.ID)
	stampIfZero(&t.CreatedAt, &t.UpdatedAt)
	_, err := r.db.ExecContext(ctx, `INSERT INTO tracks (`+trackColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Key, t.Name, t.NameAlt, t.Description, t.DescriptionExtended, t.Color,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting track: %w", err)
	}
	return nil
}

func (r *SQLiteTrackRepo) GetByID(ctx context.Context, id string) (*domain.Track, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	return scanTrack(row)
}

func (r *SQLiteTrackRepo) GetByKey(ctx context.Context, key string) (*domain.Track, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+trackColumns+` FROM tracks WHERE key = ?`, key)
	return scanTrack(row)
}

func (r *SQLiteTrackRepo) List(ctx context.Context) ([]*domain.Track, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+trackColumns+` FROM tracks ORDER BY name, key`)
	if err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*domain.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracks: %w", err)
	}
	return tracks, nil
}

// UpdateDescription writes the summary fields derived during a rebuild.
func (r *SQLiteTrackRepo) UpdateDescription(ctx context.Context, id, description, extended string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tracks SET description = ?, description_extended = ?, updated_at = ? WHERE id = ?`,
		description, extended, formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("updating track description: %w", err)
	}
	return requireAffected(res, "track", id)
}

func (r *SQLiteTrackRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting track: %w", err)
	}
	return requireAffected(res, "track", id)
}

func (r *SQLiteTrackRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, "tracks", `SELECT COUNT(*) FROM tracks`)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (*domain.Track, error) {
	var t domain.Track
	var createdAt, updatedAt string
	err := row.Scan(&t.ID, &t.Key, &t.Name, &t.NameAlt, &t.Description, &t.DescriptionExtended,
		&t.Color, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("track: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning track: %w", err)
	}
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func requireAffected(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected %s rows: %w", resource, err)
	}
	if n == 0 {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
