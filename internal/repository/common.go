package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
)

func countRows(ctx context.Context, q db.DBTX, what, query string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", what, err)
	}
	return n, nil
}

// deleteByTrack removes every row of table owned by trackID. table is always
// a package constant.
func deleteByTrack(ctx context.Context, q db.DBTX, table, trackID string) (int, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE track_id = ?`, trackID)
	if err != nil {
		return 0, fmt.Errorf("deleting %s for track %s: %w", table, trackID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting %s for track %s: %w", table, trackID, err)
	}
	return int(n), nil
}

// aggregateProgress summarizes the progress/status columns of table for one
// track.
func aggregateProgress(ctx context.Context, q db.DBTX, table, trackID string) (ProgressAggregate, error) {
	agg := ProgressAggregate{ByStatus: make(map[domain.NodeStatus]int, len(domain.AllStatuses))}
	for _, s := range domain.AllStatuses {
		agg.ByStatus[s] = 0
	}

	var avg float64
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(progress), 0) FROM `+table+` WHERE track_id = ?`, trackID,
	).Scan(&agg.Total, &avg)
	if err != nil {
		return agg, fmt.Errorf("aggregating %s progress: %w", table, err)
	}
	agg.AvgProgress = avg

	rows, err := q.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM `+table+` WHERE track_id = ? GROUP BY status`, trackID)
	if err != nil {
		return agg, fmt.Errorf("grouping %s by status: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return agg, fmt.Errorf("scanning %s status group: %w", table, err)
		}
		agg.ByStatus[domain.NodeStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return agg, fmt.Errorf("iterating %s status groups: %w", table, err)
	}
	agg.Completed = agg.ByStatus[domain.StatusCompleted]
	return agg, nil
}
