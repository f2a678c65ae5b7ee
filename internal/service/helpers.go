package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/repository"
	"github.com/alexanderramin/trackscope/internal/scope"
)

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// invalid wraps an ozzo validation error so callers can match ErrValidation.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// formatValidationErrors combines multiple validation errors into one.
func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: %d errors:\n  - %s", domain.ErrValidation, len(errs), strings.Join(msgs, "\n  - "))
}

// persistTree writes a candidate tree for one track, parents before
// children, and returns the created rows in write order. nodes must be bound
// to the caller's transaction.
func persistTree(ctx context.Context, nodes repository.ScopeNodeRepo, trackID string, t *scope.Tree, now time.Time) ([]*domain.ScopeNode, error) {
	created := make([]*domain.ScopeNode, 0, t.Len())
	_, err := scope.Execute(ctx, scope.Plan(t), func(ctx context.Context, s *scope.Step, parentID *string) (string, error) {
		n := &domain.ScopeNode{
			TrackID:    trackID,
			ParentID:   parentID,
			Code:       s.Node.Code,
			Title:      s.Node.Title,
			TitleAlt:   s.Node.Title,
			Body:       s.Node.Body,
			BodyAlt:    s.Node.Body,
			OrderIndex: s.Node.OrderIndex,
			Status:     domain.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := nodes.Create(ctx, n); err != nil {
			return "", err
		}
		created = append(created, n)
		return n.ID, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// appendOutline parses text in outline mode against the track's existing
// codes and appends the result after the track's current last node.
func appendOutline(ctx context.Context, nodes repository.ScopeNodeRepo, trackID, text string, now time.Time) ([]*domain.ScopeNode, error) {
	codes, err := nodes.Codes(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("loading existing codes: %w", err)
	}
	start, err := nodes.NextOrderIndex(ctx, trackID, nil)
	if err != nil {
		return nil, err
	}
	t := scope.ParseOutline(text, scope.NewResolver(codes...), start)
	return persistTree(ctx, nodes, trackID, t, now)
}
