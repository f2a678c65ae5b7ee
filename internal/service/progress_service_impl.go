package service

import (
	"context"
	"fmt"
	"math"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/repository"
)

type progressService struct {
	repos       Repos
	defaultMode domain.ProgressMode
}

// NewProgressService builds the roll-up. defaultMode applies when a caller
// passes an empty mode.
func NewProgressService(repos Repos, defaultMode domain.ProgressMode) ProgressService {
	if !domain.ValidProgressModes[string(defaultMode)] {
		defaultMode = domain.ModeAverage
	}
	return &progressService{repos: repos, defaultMode: defaultMode}
}

func (s *progressService) mode(m domain.ProgressMode) (domain.ProgressMode, error) {
	if m == "" {
		return s.defaultMode, nil
	}
	if !domain.ValidProgressModes[string(m)] {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid progress mode %q (use average or completion)", m)}
	}
	return m, nil
}

func (s *progressService) TrackProgress(ctx context.Context, trackRef string, mode domain.ProgressMode) (*contract.TrackProgress, error) {
	mode, err := s.mode(mode)
	if err != nil {
		return nil, err
	}
	t, err := resolveTrack(ctx, s.repos.Tracks, trackRef)
	if err != nil {
		return nil, err
	}
	return s.trackProgress(ctx, t, mode)
}

// trackProgress blends the four signal families. Reports enter the mean as
// a raw count, unscaled.
func (s *progressService) trackProgress(ctx context.Context, t *domain.Track, mode domain.ProgressMode) (*contract.TrackProgress, error) {
	tasks, err := s.repos.Tasks.Aggregate(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	nodes, err := s.repos.ScopeNodes.Aggregate(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	reports, err := s.repos.Reports.CountByTrack(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	kpis, err := s.repos.KPIEntries.ListByTrack(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	b := contract.Breakdown{
		Tasks:       round2(familyScore(tasks, mode)),
		Reports:     float64(reports),
		ScopeBlocks: round2(familyScore(nodes, mode)),
		KPIs:        round2(kpiScore(kpis)),
	}
	return &contract.TrackProgress{
		TrackID:   t.ID,
		TrackKey:  t.Key,
		TrackName: t.Name,
		Mode:      mode,
		Overall:   round2(b.Mean()),
		Breakdown: b,
	}, nil
}

func familyScore(agg repository.ProgressAggregate, mode domain.ProgressMode) float64 {
	if agg.Total == 0 {
		return 0
	}
	if mode == domain.ModeCompletion {
		return agg.CompletedRatio()
	}
	return agg.AvgProgress
}

func kpiScore(entries []*domain.KPIEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, k := range entries {
		sum += k.Attainment()
	}
	return sum / float64(len(entries))
}

// Summary averages the track overalls without weighting by track size.
func (s *progressService) Summary(ctx context.Context, mode domain.ProgressMode) (*contract.ExecutiveSummary, error) {
	mode, err := s.mode(mode)
	if err != nil {
		return nil, err
	}
	tracks, err := s.repos.Tracks.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &contract.ExecutiveSummary{Mode: mode, Tracks: make([]contract.TrackProgress, 0, len(tracks))}
	var sum float64
	for _, t := range tracks {
		tp, err := s.trackProgress(ctx, t, mode)
		if err != nil {
			return nil, fmt.Errorf("progress for track %s: %w", t.Key, err)
		}
		summary.Tracks = append(summary.Tracks, *tp)
		sum += tp.Overall
	}
	if len(tracks) > 0 {
		summary.Overall = int(math.Round(sum / float64(len(tracks))))
	}

	if summary.Totals, err = s.totals(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *progressService) totals(ctx context.Context) (contract.Totals, error) {
	var t contract.Totals
	var err error
	if t.Tracks, err = s.repos.Tracks.Count(ctx); err != nil {
		return t, err
	}
	if t.Records, err = s.repos.Records.Count(ctx); err != nil {
		return t, err
	}
	if t.Tasks, err = s.repos.Tasks.Count(ctx); err != nil {
		return t, err
	}
	if t.KPIs, err = s.repos.TrackKPIs.Count(ctx); err != nil {
		return t, err
	}
	if t.KPIEntries, err = s.repos.KPIEntries.Count(ctx); err != nil {
		return t, err
	}
	if t.Penalties, t.UnresolvedPenalties, err = s.repos.Penalties.Count(ctx); err != nil {
		return t, err
	}
	if t.Reports, err = s.repos.Reports.Count(ctx); err != nil {
		return t, err
	}
	return t, nil
}
