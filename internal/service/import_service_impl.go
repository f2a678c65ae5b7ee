package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/importer"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService loads seed files. Every track of one file is written in a
// single transaction.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportSeed(ctx context.Context, filePath string) (*SeedResult, error) {
	schema, err := importer.LoadSeedSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading seed file: %w", err)
	}
	return s.ImportSeedFromSchema(ctx, schema)
}

func (s *importService) ImportSeedFromSchema(ctx context.Context, schema *importer.SeedSchema) (result *SeedResult, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import.seed", time.Now().UTC(), fields, &err)

	if schema == nil {
		return nil, &domain.ValidationError{Message: "seed schema is required"}
	}
	if errs := importer.ValidateSeedSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	now := nowUTC()
	bundles := importer.ConvertSeed(schema, now)
	result = &SeedResult{}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := NewSQLiteRepos(tx)
		for _, b := range bundles {
			if _, err := repos.Tracks.GetByKey(ctx, b.Track.Key); err == nil {
				return fmt.Errorf("track key %q: %w", b.Track.Key, domain.ErrConflict)
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if err := repos.Tracks.Create(ctx, b.Track); err != nil {
				return fmt.Errorf("creating track %q: %w", b.Track.Key, err)
			}
			for _, t := range b.Tasks {
				if err := repos.Tasks.Create(ctx, t); err != nil {
					return fmt.Errorf("creating task %q: %w", t.Title, err)
				}
			}
			for _, r := range b.Reports {
				if err := repos.Reports.Create(ctx, r); err != nil {
					return fmt.Errorf("creating report %q: %w", r.Title, err)
				}
			}
			for _, k := range b.KPIEntries {
				if err := repos.KPIEntries.Create(ctx, k); err != nil {
					return fmt.Errorf("creating kpi %q: %w", k.Name, err)
				}
			}
			if b.ScopeText != "" {
				created, err := appendOutline(ctx, repos.ScopeNodes, b.Track.ID, b.ScopeText, now)
				if err != nil {
					return fmt.Errorf("importing scope for %q: %w", b.Track.Key, err)
				}
				result.ScopeCount += len(created)
			}

			result.Tracks = append(result.Tracks, b.Track)
			result.TaskCount += len(b.Tasks)
			result.ReportCount += len(b.Reports)
			result.KPICount += len(b.KPIEntries)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["tracks"] = len(result.Tracks)
	fields["scope_nodes"] = result.ScopeCount
	return result, nil
}
