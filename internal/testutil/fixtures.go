package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/google/uuid"
)

var testKeyCounter atomic.Int64

// Track options
type TrackOption func(*domain.Track)

func WithTrackKey(key string) TrackOption {
	return func(t *domain.Track) {
		t.Key = key
	}
}

func WithDescription(d string) TrackOption {
	return func(t *domain.Track) {
		t.Description = d
	}
}

func defaultKey(name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	return fmt.Sprintf("%s-%02d", slug, testKeyCounter.Add(1))
}

func NewTestTrack(name string, opts ...TrackOption) *domain.Track {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Track{
		ID:        uuid.New().String(),
		Key:       defaultKey(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ScopeNode options
type NodeOption func(*domain.ScopeNode)

func WithParent(id string) NodeOption {
	return func(n *domain.ScopeNode) {
		n.ParentID = &id
	}
}

func WithProgress(p float64) NodeOption {
	return func(n *domain.ScopeNode) {
		n.Progress = p
		n.Status = domain.DeriveStatus(p)
	}
}

func WithOrderIndex(i int) NodeOption {
	return func(n *domain.ScopeNode) {
		n.OrderIndex = i
	}
}

func WithBody(body string) NodeOption {
	return func(n *domain.ScopeNode) {
		n.Body = body
	}
}

func NewTestScopeNode(trackID, code, title string, opts ...NodeOption) *domain.ScopeNode {
	now := time.Now().UTC().Truncate(time.Second)
	n := &domain.ScopeNode{
		ID:        uuid.New().String(),
		TrackID:   trackID,
		Code:      code,
		Title:     title,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewTestTask(trackID, title string, progress float64) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Task{
		ID:        uuid.New().String(),
		TrackID:   trackID,
		Title:     title,
		Progress:  progress,
		Status:    domain.DeriveStatus(progress),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
