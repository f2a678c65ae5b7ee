package repository

import (
	"context"

	"github.com/alexanderramin/trackscope/internal/domain"
)

// ProgressAggregate summarizes the progress column of one track's rows.
type ProgressAggregate struct {
	Total       int
	AvgProgress float64
	Completed   int
	ByStatus    map[domain.NodeStatus]int
}

// CompletedRatio returns the share of completed rows as a percentage.
func (a ProgressAggregate) CompletedRatio() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Completed) / float64(a.Total) * 100
}

type TrackRepo interface {
	Create(ctx context.Context, t *domain.Track) error
	GetByID(ctx context.Context, id string) (*domain.Track, error)
	GetByKey(ctx context.Context, key string) (*domain.Track, error)
	List(ctx context.Context) ([]*domain.Track, error)
	UpdateDescription(ctx context.Context, id, description, extended string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type ScopeNodeRepo interface {
	Create(ctx context.Context, n *domain.ScopeNode) error
	GetByID(ctx context.Context, id string) (*domain.ScopeNode, error)
	ListByTrack(ctx context.Context, trackID string) ([]*domain.ScopeNode, error)
	Codes(ctx context.Context, trackID string) ([]string, error)
	NextOrderIndex(ctx context.Context, trackID string, parentID *string) (int, error)
	UpdateProgress(ctx context.Context, n *domain.ScopeNode) error
	UpdateText(ctx context.Context, n *domain.ScopeNode) error
	UpdateOrder(ctx context.Context, trackID, id string, orderIndex int) error
	DeleteByTrack(ctx context.Context, trackID string) (int, error)
	Aggregate(ctx context.Context, trackID string) (ProgressAggregate, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByTrack(ctx context.Context, trackID string) ([]*domain.Task, error)
	UpdateProgress(ctx context.Context, t *domain.Task) error
	Aggregate(ctx context.Context, trackID string) (ProgressAggregate, error)
	Count(ctx context.Context) (int, error)
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.Report) error
	ListByTrack(ctx context.Context, trackID string) ([]*domain.Report, error)
	CountByTrack(ctx context.Context, trackID string) (int, error)
	Count(ctx context.Context) (int, error)
}

type KPIEntryRepo interface {
	Create(ctx context.Context, k *domain.KPIEntry) error
	ListByTrack(ctx context.Context, trackID string) ([]*domain.KPIEntry, error)
	Count(ctx context.Context) (int, error)
}

type TrackKPIRepo interface {
	Create(ctx context.Context, k *domain.TrackKPI) error
	ListByTrack(ctx context.Context, trackID string) ([]*domain.TrackKPI, error)
	DeleteByTrack(ctx context.Context, trackID string) (int, error)
	Count(ctx context.Context) (int, error)
}

type PenaltyRepo interface {
	Create(ctx context.Context, p *domain.Penalty) error
	ListByTrack(ctx context.Context, trackID string) ([]*domain.Penalty, error)
	DeleteByTrack(ctx context.Context, trackID string) (int, error)
	Count(ctx context.Context) (total, unresolved int, err error)
}

type RecordRepo interface {
	Create(ctx context.Context, r *domain.Record) error
	ListByTrack(ctx context.Context, trackID string) ([]*domain.Record, error)
	DeleteByTrack(ctx context.Context, trackID string) (int, error)
	Count(ctx context.Context) (int, error)
}
