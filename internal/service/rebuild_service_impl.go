package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/trackscope/internal/config"
	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/importer"
	"github.com/alexanderramin/trackscope/internal/repository"
)

type rebuildService struct {
	tracks   repository.TrackRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewRebuildService(tracks repository.TrackRepo, uow db.UnitOfWork, logger *slog.Logger, observers ...UseCaseObserver) RebuildService {
	if logger == nil {
		logger = slog.Default()
	}
	return &rebuildService{
		tracks:   tracks,
		uow:      uow,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// rebuildJob is one mapped sheet, parsed and bound to its track.
type rebuildJob struct {
	sheet  string
	track  *domain.Track
	parsed *importer.SheetResult
}

// Rebuild replaces the scope tree and derived lists of every mapped track
// with what the source currently holds. Sheets are read and parsed in
// mapping order; owners are then written independently, each in its own
// transaction, so a failure rolls back only that owner.
func (s *rebuildService) Rebuild(ctx context.Context, src importer.Source, mapping *config.Mapping, opts RebuildOptions) (report *contract.RebuildReport, err error) {
	fields := map[string]any{"apply": opts.Apply, "workers": opts.Workers}
	defer observe(ctx, s.observer, "scope.rebuild", time.Now().UTC(), fields, &err)

	if mapping == nil {
		return nil, &domain.ValidationError{Message: "import mapping is required"}
	}
	if err := mapping.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	report = &contract.RebuildReport{Applied: opts.Apply}
	jobs, err := s.collect(ctx, src, mapping, report)
	if err != nil {
		return nil, err
	}

	report.Owners = make([]contract.OwnerResult, len(jobs))
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			report.Owners[i] = s.rebuildOwner(ctx, job, opts.Apply)
			return nil
		})
	}
	_ = g.Wait()

	fields["owners"] = len(report.Owners)
	fields["skipped"] = len(report.Skipped)
	fields["failures"] = report.Failures()
	return report, nil
}

func (s *rebuildService) collect(ctx context.Context, src importer.Source, mapping *config.Mapping, report *contract.RebuildReport) ([]rebuildJob, error) {
	mapped := make(map[string]bool, len(mapping.Sheets))
	var jobs []rebuildJob

	for _, sm := range mapping.Sheets {
		mapped[sm.Sheet] = true

		rows, err := src.Rows(sm.Sheet)
		if errors.Is(err, importer.ErrSheetNotFound) {
			s.skip(ctx, report, sm.Sheet, "sheet not found in source")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sm.Sheet, err)
		}

		track, err := s.tracks.GetByKey(ctx, sm.Track)
		if errors.Is(err, domain.ErrNotFound) {
			s.skip(ctx, report, sm.Sheet, fmt.Sprintf("no track with key %q", sm.Track))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving track %s: %w", sm.Track, err)
		}

		jobs = append(jobs, rebuildJob{
			sheet:  sm.Sheet,
			track:  track,
			parsed: importer.ParseSheet(rows, mapping.HeaderRows, mapping.Columns),
		})
	}

	for _, sheet := range src.Sheets() {
		if !mapped[sheet] {
			s.skip(ctx, report, sheet, "no track mapping")
		}
	}
	return jobs, nil
}

func (s *rebuildService) skip(ctx context.Context, report *contract.RebuildReport, sheet, reason string) {
	s.logger.WarnContext(ctx, "skipping sheet", "sheet", sheet, "reason", reason)
	report.Skipped = append(report.Skipped, contract.SkippedSection{Sheet: sheet, Reason: reason})
}

func (s *rebuildService) rebuildOwner(ctx context.Context, job rebuildJob, apply bool) contract.OwnerResult {
	res := contract.OwnerResult{
		Sheet:     job.sheet,
		TrackKey:  job.track.Key,
		TrackID:   job.track.ID,
		Nodes:     job.parsed.Scope.Len(),
		KPIs:      len(job.parsed.KPIs),
		Penalties: len(job.parsed.Penalties),
		Records:   len(job.parsed.Records),
	}
	if !apply {
		return res
	}

	err := ctx.Err()
	if err == nil {
		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			written, err := replaceOwner(ctx, NewSQLiteRepos(tx), job)
			res.Nodes = written
			return err
		})
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "rebuild failed for track", "track", job.track.Key, "sheet", job.sheet, "error", err)
		return contract.OwnerResult{
			Sheet:    job.sheet,
			TrackKey: job.track.Key,
			TrackID:  job.track.ID,
			Error:    err.Error(),
		}
	}
	s.logger.InfoContext(ctx, "track rebuilt", "track", job.track.Key, "nodes", res.Nodes,
		"kpis", res.KPIs, "penalties", res.Penalties, "records", res.Records)
	return res
}

// replaceOwner deletes the track's scope tree and derived lists and writes
// the parsed replacement. repos must be bound to one transaction.
func replaceOwner(ctx context.Context, repos Repos, job rebuildJob) (int, error) {
	trackID := job.track.ID
	if _, err := repos.ScopeNodes.DeleteByTrack(ctx, trackID); err != nil {
		return 0, err
	}
	if _, err := repos.TrackKPIs.DeleteByTrack(ctx, trackID); err != nil {
		return 0, err
	}
	if _, err := repos.Penalties.DeleteByTrack(ctx, trackID); err != nil {
		return 0, err
	}
	if _, err := repos.Records.DeleteByTrack(ctx, trackID); err != nil {
		return 0, err
	}

	p := job.parsed
	if p.Description != "" || p.DescriptionExtended != "" {
		if err := repos.Tracks.UpdateDescription(ctx, trackID, p.Description, p.DescriptionExtended); err != nil {
			return 0, err
		}
	}

	now := nowUTC()
	created, err := persistTree(ctx, repos.ScopeNodes, trackID, p.Scope, now)
	if err != nil {
		return 0, err
	}

	for _, k := range p.KPIs {
		k.TrackID, k.CreatedAt = trackID, now
		if err := repos.TrackKPIs.Create(ctx, k); err != nil {
			return 0, fmt.Errorf("creating kpi %q: %w", k.Name, err)
		}
	}
	for _, pen := range p.Penalties {
		pen.TrackID, pen.CreatedAt = trackID, now
		if err := repos.Penalties.Create(ctx, pen); err != nil {
			return 0, fmt.Errorf("creating penalty: %w", err)
		}
	}
	for _, rec := range p.Records {
		rec.TrackID, rec.CreatedAt, rec.UpdatedAt = trackID, now, now
		if err := repos.Records.Create(ctx, rec); err != nil {
			return 0, fmt.Errorf("creating record %q: %w", rec.Title, err)
		}
	}
	return len(created), nil
}
