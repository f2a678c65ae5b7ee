package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/repository"
)

type signalService struct {
	tracks  repository.TrackRepo
	tasks   repository.TaskRepo
	reports repository.ReportRepo
	kpis    repository.KPIEntryRepo
}

// NewSignalService records the task, report and KPI inputs of the roll-up.
func NewSignalService(tracks repository.TrackRepo, tasks repository.TaskRepo, reports repository.ReportRepo, kpis repository.KPIEntryRepo) SignalService {
	return &signalService{tracks: tracks, tasks: tasks, reports: reports, kpis: kpis}
}

func (s *signalService) AddTask(ctx context.Context, trackRef, title string, progress float64) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if err := validation.Validate(title, validation.Required, validation.Length(1, maxTitleLength)); err != nil {
		return nil, invalid(fmt.Errorf("title: %w", err))
	}
	if err := domain.ValidateProgress(progress); err != nil {
		return nil, err
	}
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	task := &domain.Task{TrackID: t.ID, Title: title, CreatedAt: now}
	if err := task.SetProgress(progress, now); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *signalService) SetTaskProgress(ctx context.Context, id string, progress float64) (*domain.Task, error) {
	if err := domain.ValidateProgress(progress); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.SetProgress(progress, nowUTC()); err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateProgress(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *signalService) ListTasks(ctx context.Context, trackRef string) ([]*domain.Task, error) {
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByTrack(ctx, t.ID)
}

// AddReport records a submitted report. A nil submittedAt means now.
func (s *signalService) AddReport(ctx context.Context, trackRef, title string, submittedAt *time.Time) (*domain.Report, error) {
	title = strings.TrimSpace(title)
	if err := validation.Validate(title, validation.Required, validation.Length(1, maxTitleLength)); err != nil {
		return nil, invalid(fmt.Errorf("title: %w", err))
	}
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}

	r := &domain.Report{TrackID: t.ID, Title: title, SubmittedAt: nowUTC()}
	if submittedAt != nil {
		r.SubmittedAt = submittedAt.UTC()
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *signalService) ListReports(ctx context.Context, trackRef string) ([]*domain.Report, error) {
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}
	return s.reports.ListByTrack(ctx, t.ID)
}

func (s *signalService) RecordKPI(ctx context.Context, trackRef, name string, actual, target float64) (*domain.KPIEntry, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(1, maxNameLength)); err != nil {
		return nil, invalid(fmt.Errorf("name: %w", err))
	}
	if target < 0 {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("kpi target must not be negative, got %v", target)}
	}
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}

	k := &domain.KPIEntry{TrackID: t.ID, Name: name, Actual: actual, Target: target, CreatedAt: nowUTC()}
	if err := s.kpis.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *signalService) ListKPIs(ctx context.Context, trackRef string) ([]*domain.KPIEntry, error) {
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}
	return s.kpis.ListByTrack(ctx, t.ID)
}
