package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/google/uuid"
)

// SeedBundle is one track and its signals ready for persistence. ScopeText
// is imported through the incremental outline path once the track exists.
type SeedBundle struct {
	Track      *domain.Track
	Tasks      []*domain.Task
	Reports    []*domain.Report
	KPIEntries []*domain.KPIEntry
	ScopeText  string
}

// ConvertSeed transforms a validated SeedSchema into domain objects.
// Call ValidateSeedSchema first; ConvertSeed assumes the schema is valid.
func ConvertSeed(schema *SeedSchema, now time.Time) []*SeedBundle {
	bundles := make([]*SeedBundle, 0, len(schema.Tracks))
	for _, ts := range schema.Tracks {
		track := &domain.Track{
			ID:          uuid.New().String(),
			Key:         ts.Key,
			Name:        ts.Name,
			NameAlt:     ts.NameAlt,
			Description: ts.Description,
			Color:       ts.Color,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		b := &SeedBundle{Track: track, ScopeText: strings.TrimSpace(ts.Scope)}

		for _, t := range ts.Tasks {
			progress := 0.0
			if t.Progress != nil {
				progress = *t.Progress
			}
			status := domain.DeriveStatus(progress)
			if t.Status != "" {
				status = domain.NodeStatus(t.Status)
			}
			b.Tasks = append(b.Tasks, &domain.Task{
				ID:        uuid.New().String(),
				TrackID:   track.ID,
				Title:     t.Title,
				Status:    status,
				Progress:  progress,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}

		for _, r := range ts.Reports {
			submitted := now
			if d := parseOptionalDate(r.SubmittedAt); d != nil {
				submitted = *d
			}
			b.Reports = append(b.Reports, &domain.Report{
				ID:          uuid.New().String(),
				TrackID:     track.ID,
				Title:       r.Title,
				SubmittedAt: submitted,
			})
		}

		for _, k := range ts.KPIs {
			b.KPIEntries = append(b.KPIEntries, &domain.KPIEntry{
				ID:        uuid.New().String(),
				TrackID:   track.ID,
				Name:      k.Name,
				Actual:    k.Actual,
				Target:    k.Target,
				CreatedAt: now,
			})
		}
		bundles = append(bundles, b)
	}
	return bundles
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
