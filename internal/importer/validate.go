package importer

import (
	"fmt"
	"regexp"
	"time"

	"github.com/alexanderramin/trackscope/internal/domain"
)

var trackKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSeedSchema checks the seed schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSeedSchema(schema *SeedSchema) []error {
	var errs []error

	if len(schema.Tracks) == 0 {
		errs = append(errs, fmt.Errorf("tracks: at least one track is required"))
	}

	keys := make(map[string]bool)
	for i := range schema.Tracks {
		errs = append(errs, validateTrack(fmt.Sprintf("tracks[%d]", i), &schema.Tracks[i], keys)...)
	}
	return errs
}

func validateTrack(prefix string, t *TrackSeed, keys map[string]bool) []error {
	var errs []error

	switch {
	case t.Key == "":
		errs = append(errs, fmt.Errorf("%s.key is required", prefix))
	case !trackKeyPattern.MatchString(t.Key):
		errs = append(errs, fmt.Errorf("%s.key: invalid value %q (lowercase letters, digits, '-' and '_')", prefix, t.Key))
	case keys[t.Key]:
		errs = append(errs, fmt.Errorf("%s.key: duplicate key %q", prefix, t.Key))
	default:
		keys[t.Key] = true
	}
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}

	for i, task := range t.Tasks {
		p := fmt.Sprintf("%s.tasks[%d]", prefix, i)
		if task.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", p))
		}
		if task.Progress != nil {
			if err := domain.ValidateProgress(*task.Progress); err != nil {
				errs = append(errs, fmt.Errorf("%s.progress: %w", p, err))
			}
		}
		if task.Status != "" && !domain.ValidStatuses[task.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", p, task.Status))
		}
	}

	for i, r := range t.Reports {
		p := fmt.Sprintf("%s.reports[%d]", prefix, i)
		if r.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", p))
		}
		errs = append(errs, validateOptionalDate(p+".submitted_at", r.SubmittedAt)...)
	}

	for i, k := range t.KPIs {
		p := fmt.Sprintf("%s.kpis[%d]", prefix, i)
		if k.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", p))
		}
		if k.Target < 0 {
			errs = append(errs, fmt.Errorf("%s.target must not be negative", p))
		}
	}
	return errs
}

func validateOptionalDate(field string, s *string) []error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}
