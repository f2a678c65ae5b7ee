package service

import (
	"context"
	"time"

	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/importer"
	"github.com/alexanderramin/trackscope/internal/tree"
)

type TrackService interface {
	Create(ctx context.Context, req CreateTrackRequest) (*domain.Track, error)
	// Get resolves ref as a track ID first, then as a track key.
	Get(ctx context.Context, ref string) (*domain.Track, error)
	List(ctx context.Context) ([]*domain.Track, error)
	Delete(ctx context.Context, ref string) error
}

type ScopeService interface {
	Get(ctx context.Context, id string) (*domain.ScopeNode, error)
	Tree(ctx context.Context, trackID string) ([]*tree.Node, error)
	Search(ctx context.Context, trackID, query string) ([]*tree.Node, error)
	Stats(ctx context.Context, trackID string) (*contract.ScopeStats, error)
	CreateNode(ctx context.Context, req CreateNodeRequest) (*domain.ScopeNode, error)
	UpdateNode(ctx context.Context, id string, req UpdateNodeRequest) (*domain.ScopeNode, error)
	SetProgress(ctx context.Context, id string, req SetProgressRequest) (*domain.ScopeNode, error)
	Reorder(ctx context.Context, trackID string, items []contract.OrderItem) error
	ImportText(ctx context.Context, trackID, text string) (*contract.ImportResult, error)
}

// RebuildOptions controls a bulk rebuild. Without Apply the rebuild only
// parses and counts.
type RebuildOptions struct {
	Apply   bool
	Workers int
}

type RebuildService interface {
	Rebuild(ctx context.Context, src importer.Source, mapping *config.Mapping, opts RebuildOptions) (*contract.RebuildReport, error)
}

type ProgressService interface {
	TrackProgress(ctx context.Context, trackID string, mode domain.ProgressMode) (*contract.TrackProgress, error)
	Summary(ctx context.Context, mode domain.ProgressMode) (*contract.ExecutiveSummary, error)
}

type SignalService interface {
	AddTask(ctx context.Context, trackID, title string, progress float64) (*domain.Task, error)
	SetTaskProgress(ctx context.Context, id string, progress float64) (*domain.Task, error)
	ListTasks(ctx context.Context, trackID string) ([]*domain.Task, error)
	AddReport(ctx context.Context, trackID, title string, submittedAt *time.Time) (*domain.Report, error)
	ListReports(ctx context.Context, trackID string) ([]*domain.Report, error)
	RecordKPI(ctx context.Context, trackID, name string, actual, target float64) (*domain.KPIEntry, error)
	ListKPIs(ctx context.Context, trackID string) ([]*domain.KPIEntry, error)
}

// SeedResult holds the outcome of a seed import.
type SeedResult struct {
	Tracks      []*domain.Track
	TaskCount   int
	ReportCount int
	KPICount    int
	ScopeCount  int
}

type ImportService interface {
	ImportSeed(ctx context.Context, filePath string) (*SeedResult, error)
	ImportSeedFromSchema(ctx context.Context, schema *importer.SeedSchema) (*SeedResult, error)
}
