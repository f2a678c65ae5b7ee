package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/repository"
)

type trackService struct {
	tracks repository.TrackRepo
}

func NewTrackService(tracks repository.TrackRepo) TrackService {
	return &trackService{tracks: tracks}
}

func (s *trackService) Create(ctx context.Context, req CreateTrackRequest) (*domain.Track, error) {
	req.Key = strings.TrimSpace(req.Key)
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	if _, err := s.tracks.GetByKey(ctx, req.Key); err == nil {
		return nil, fmt.Errorf("track key %q: %w", req.Key, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := nowUTC()
	t := &domain.Track{
		Key:         req.Key,
		Name:        req.Name,
		NameAlt:     req.NameAlt,
		Description: req.Description,
		Color:       req.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.NameAlt == "" {
		t.NameAlt = t.Name
	}
	if err := s.tracks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *trackService) Get(ctx context.Context, ref string) (*domain.Track, error) {
	return resolveTrack(ctx, s.tracks, ref)
}

func (s *trackService) List(ctx context.Context) ([]*domain.Track, error) {
	return s.tracks.List(ctx)
}

func (s *trackService) Delete(ctx context.Context, ref string) error {
	t, err := resolveTrack(ctx, s.tracks, ref)
	if err != nil {
		return err
	}
	return s.tracks.Delete(ctx, t.ID)
}

// resolveTrack looks ref up as an ID, then as a key.
func resolveTrack(ctx context.Context, tracks repository.TrackRepo, ref string) (*domain.Track, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &domain.ValidationError{Message: "track reference is required"}
	}
	t, err := tracks.GetByID(ctx, ref)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	t, err = tracks.GetByKey(ctx, ref)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.NotFoundError{Resource: "track", ID: ref}
	}
	return t, err
}
