package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

// scopeNodeColumns is the canonical SELECT column list for scope_nodes.
const scopeNodeColumns = `id, track_id, parent_id, code, title, title_alt, body, body_alt,
		order_index, progress, status, created_at, updated_at`

// SQLiteScopeNodeRepo implements ScopeNodeRepo using a SQLite database.
type SQLiteScopeNodeRepo struct {
	db db.DBTX
}

func NewSQLiteScopeNodeRepo(q db.DBTX) *SQLiteScopeNodeRepo {
	return &SQLiteScopeNodeRepo{db: q}
}

// Create inserts n. The identity is generated here when n.ID is empty and
// written back to n, so callers can parent later nodes on it.
func (r *SQLiteScopeNodeRepo) Create(ctx context.Context, n *domain.ScopeNode) error {
	ensureID(&n.ID)
	if n.Status == "" {
		n.Status = domain.DeriveStatus(n.Progress)
	}
	stampIfZero(&n.CreatedAt, &n.UpdatedAt)

	_, err := r.db.ExecContext(ctx, `INSERT INTO scope_nodes (`+scopeNodeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.TrackID,
		n.ParentID, // *string: nil becomes SQL NULL
		n.Code,
		n.Title,
		n.TitleAlt,
		n.Body,
		n.BodyAlt,
		n.OrderIndex,
		n.Progress,
		string(n.Status),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting scope node %s: %w", n.Code, err)
	}
	return nil
}

func (r *SQLiteScopeNodeRepo) GetByID(ctx context.Context, id string) (*domain.ScopeNode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scopeNodeColumns+` FROM scope_nodes WHERE id = ?`, id)
	n, err := scanScopeNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "scope node", ID: id}
	}
	return n, err
}

// ListByTrack returns every node of the track in walk order.
func (r *SQLiteScopeNodeRepo) ListByTrack(ctx context.Context, trackID string) ([]*domain.ScopeNode, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scopeNodeColumns+` FROM scope_nodes WHERE track_id = ? ORDER BY order_index, code`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing scope nodes by track: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.ScopeNode
	for rows.Next() {
		n, err := scanScopeNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scope node row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scope nodes: %w", err)
	}
	return nodes, nil
}

// Codes returns the codes already taken in a track.
func (r *SQLiteScopeNodeRepo) Codes(ctx context.Context, trackID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code FROM scope_nodes WHERE track_id = ?`, trackID)
	if err != nil {
		return nil, fmt.Errorf("listing scope codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning scope code: %w", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scope codes: %w", err)
	}
	return codes, nil
}

// NextOrderIndex returns one past the largest orderIndex among the children
// of parentID, or among all of the track's nodes when parentID is nil.
func (r *SQLiteScopeNodeRepo) NextOrderIndex(ctx context.Context, trackID string, parentID *string) (int, error) {
	query := `SELECT COALESCE(MAX(order_index) + 1, 0) FROM scope_nodes WHERE track_id = ?`
	args := []any{trackID}
	if parentID != nil {
		query += ` AND parent_id = ?`
		args = append(args, *parentID)
	}
	var next int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("computing next order index: %w", err)
	}
	return next, nil
}

func (r *SQLiteScopeNodeRepo) UpdateProgress(ctx context.Context, n *domain.ScopeNode) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scope_nodes SET progress = ?, status = ?, updated_at = ? WHERE id = ?`,
		n.Progress, string(n.Status), formatTime(n.UpdatedAt), n.ID)
	if err != nil {
		return fmt.Errorf("updating scope node progress: %w", err)
	}
	return requireAffected(res, "scope node", n.ID)
}

// UpdateText rewrites the title and body fields. Code and parent are never
// touched.
func (r *SQLiteScopeNodeRepo) UpdateText(ctx context.Context, n *domain.ScopeNode) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scope_nodes SET title = ?, title_alt = ?, body = ?, body_alt = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.TitleAlt, n.Body, n.BodyAlt, formatTime(n.UpdatedAt), n.ID)
	if err != nil {
		return fmt.Errorf("updating scope node text: %w", err)
	}
	return requireAffected(res, "scope node", n.ID)
}

func (r *SQLiteScopeNodeRepo) UpdateOrder(ctx context.Context, trackID, id string, orderIndex int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scope_nodes SET order_index = ?, updated_at = ? WHERE id = ? AND track_id = ?`,
		orderIndex, formatTime(nowUTC()), id, trackID)
	if err != nil {
		return fmt.Errorf("updating scope node order: %w", err)
	}
	return requireAffected(res, "scope node", id)
}

func (r *SQLiteScopeNodeRepo) DeleteByTrack(ctx context.Context, trackID string) (int, error) {
	return deleteByTrack(ctx, r.db, "scope_nodes", trackID)
}

func (r *SQLiteScopeNodeRepo) Aggregate(ctx context.Context, trackID string) (ProgressAggregate, error) {
	return aggregateProgress(ctx, r.db, "scope_nodes", trackID)
}

// scanScopeNode leaves sql.ErrNoRows unwrapped so GetByID can map it.
func scanScopeNode(row rowScanner) (*domain.ScopeNode, error) {
	var n domain.ScopeNode
	var parentID sql.NullString
	var status, createdAt, updatedAt string

	err := row.Scan(&n.ID, &n.TrackID, &parentID, &n.Code, &n.Title, &n.TitleAlt, &n.Body, &n.BodyAlt,
		&n.OrderIndex, &n.Progress, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning scope node: %w", err)
	}

	if parentID.Valid {
		n.ParentID = &parentID.String
	}
	n.Status = domain.NodeStatus(status)
	if n.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
