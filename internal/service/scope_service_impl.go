package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/trackscope/internal/contract"
	"github.com/alexanderramin/trackscope/internal/db"
	"github.com/alexanderramin/trackscope/internal/domain"
	"github.com/alexanderramin/trackscope/internal/repository"
	"github.com/alexanderramin/trackscope/internal/scope"
	"github.com/alexanderramin/trackscope/internal/tree"
)

type scopeService struct {
	tracks   repository.TrackRepo
	nodes    repository.ScopeNodeRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewScopeService builds the scope use cases. Track arguments accept either
// a track ID or a track key.
func NewScopeService(tracks repository.TrackRepo, nodes repository.ScopeNodeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ScopeService {
	return &scopeService{
		tracks:   tracks,
		nodes:    nodes,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scopeService) Get(ctx context.Context, id string) (*domain.ScopeNode, error) {
	return s.nodes.GetByID(ctx, id)
}

func (s *scopeService) Tree(ctx context.Context, trackRef string) ([]*tree.Node, error) {
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}
	nodes, err := s.nodes.ListByTrack(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return tree.Build(nodes), nil
}

func (s *scopeService) Search(ctx context.Context, trackRef, query string) ([]*tree.Node, error) {
	roots, err := s.Tree(ctx, trackRef)
	if err != nil {
		return nil, err
	}
	return tree.Filter(roots, query), nil
}

func (s *scopeService) Stats(ctx context.Context, trackRef string) (*contract.ScopeStats, error) {
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}
	agg, err := s.nodes.Aggregate(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &contract.ScopeStats{
		TrackID:     t.ID,
		Total:       agg.Total,
		AvgProgress: round2(agg.AvgProgress),
		ByStatus:    agg.ByStatus,
	}, nil
}

func (s *scopeService) CreateNode(ctx context.Context, req CreateNodeRequest) (*domain.ScopeNode, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Title = strings.TrimSpace(req.Title)
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	t, err := resolveTrack(ctx, s.tracks, req.TrackID)
	if err != nil {
		return nil, err
	}

	var created *domain.ScopeNode
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes := repository.NewSQLiteScopeNodeRepo(tx)

		existing, err := nodes.ListByTrack(ctx, t.ID)
		if err != nil {
			return err
		}

		proposed := req.Code
		if req.ParentID != nil {
			parent, err := nodes.GetByID(ctx, *req.ParentID)
			if err != nil {
				return err
			}
			if parent.TrackID != t.ID {
				return &domain.ValidationError{Message: fmt.Sprintf("parent %s belongs to another track", parent.ID)}
			}
			if proposed == "" {
				proposed = parent.Code + "." + strconv.Itoa(countSiblings(existing, req.ParentID)+1)
			}
		} else if proposed == "" {
			proposed = strconv.Itoa(countSiblings(existing, nil) + 1)
		}

		codes := make([]string, len(existing))
		for i, n := range existing {
			codes[i] = n.Code
		}

		order := 0
		if req.OrderIndex != nil {
			order = *req.OrderIndex
			if holder := siblingAt(existing, req.ParentID, order); holder != nil {
				return &domain.ValidationError{Message: fmt.Sprintf("order index %d is already held by sibling %s", order, holder.Code)}
			}
		} else if order, err = nodes.NextOrderIndex(ctx, t.ID, req.ParentID); err != nil {
			return err
		}

		now := nowUTC()
		created = &domain.ScopeNode{
			TrackID:    t.ID,
			ParentID:   req.ParentID,
			Code:       scope.NewResolver(codes...).Reserve(proposed),
			Title:      req.Title,
			TitleAlt:   req.Title,
			Body:       req.Body,
			BodyAlt:    req.Body,
			OrderIndex: order,
			Status:     domain.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return nodes.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func countSiblings(nodes []*domain.ScopeNode, parentID *string) int {
	n := 0
	for _, node := range nodes {
		if sameParent(node.ParentID, parentID) {
			n++
		}
	}
	return n
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func siblingAt(nodes []*domain.ScopeNode, parentID *string, order int) *domain.ScopeNode {
	for _, node := range nodes {
		if node.OrderIndex == order && sameParent(node.ParentID, parentID) {
			return node
		}
	}
	return nil
}

// checkSiblingOrder rejects a reorder whose result would give a moved node
// the same orderIndex as one of its siblings. Nodes not listed in moves keep
// their current index.
func checkSiblingOrder(nodes []*domain.ScopeNode, moves map[string]int) error {
	type slot struct {
		parent string
		order  int
	}
	taken := make(map[slot]*domain.ScopeNode, len(nodes))
	for _, n := range nodes {
		order, moved := moves[n.ID]
		if !moved {
			order = n.OrderIndex
		}
		key := slot{order: order}
		if n.ParentID != nil {
			key.parent = *n.ParentID
		}
		if other, ok := taken[key]; ok {
			if _, otherMoved := moves[other.ID]; !moved && !otherMoved {
				continue
			}
			return &domain.ValidationError{Message: fmt.Sprintf("scope nodes %s and %s would share order index %d", other.Code, n.Code, order)}
		}
		taken[key] = n
	}
	return nil
}

func (s *scopeService) UpdateNode(ctx context.Context, id string, req UpdateNodeRequest) (*domain.ScopeNode, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	var updated *domain.ScopeNode
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes := repository.NewSQLiteScopeNodeRepo(tx)
		n, err := nodes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Title != nil {
			n.Title = strings.TrimSpace(*req.Title)
		}
		if req.TitleAlt != nil {
			n.TitleAlt = *req.TitleAlt
		}
		if req.Body != nil {
			n.Body = *req.Body
		}
		if req.BodyAlt != nil {
			n.BodyAlt = *req.BodyAlt
		}
		n.UpdatedAt = nowUTC()
		if err := nodes.UpdateText(ctx, n); err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetProgress writes one node's progress and status. Invalid input is
// rejected before the transaction opens. Parents are not recomputed; the
// roll-up is derived on read.
func (s *scopeService) SetProgress(ctx context.Context, id string, req SetProgressRequest) (node *domain.ScopeNode, err error) {
	fields := map[string]any{"node_id": id, "progress": req.Progress}
	defer observe(ctx, s.observer, "scope.set_progress", time.Now().UTC(), fields, &err)

	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes := repository.NewSQLiteScopeNodeRepo(tx)
		n, err := nodes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := n.SetProgress(req.Progress, req.Status, nowUTC()); err != nil {
			return err
		}
		if err := nodes.UpdateProgress(ctx, n); err != nil {
			return err
		}
		node = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["status"] = string(node.Status)
	return node, nil
}

// Reorder applies every orderIndex change in one transaction. An ID that is
// unknown or belongs to another track, or a result where two siblings share
// an index, rolls the whole batch back.
func (s *scopeService) Reorder(ctx context.Context, trackRef string, items []contract.OrderItem) error {
	if len(items) == 0 {
		return &domain.ValidationError{Message: "reorder needs at least one item"}
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" {
			return &domain.ValidationError{Message: "reorder item id is required"}
		}
		if it.OrderIndex < 0 {
			return &domain.ValidationError{Message: fmt.Sprintf("order index for %s must not be negative", it.ID)}
		}
		if seen[it.ID] {
			return &domain.ValidationError{Message: fmt.Sprintf("scope node %s listed twice", it.ID)}
		}
		seen[it.ID] = true
	}

	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes := repository.NewSQLiteScopeNodeRepo(tx)
		existing, err := nodes.ListByTrack(ctx, t.ID)
		if err != nil {
			return err
		}
		known := make(map[string]bool, len(existing))
		for _, n := range existing {
			known[n.ID] = true
		}
		moves := make(map[string]int, len(items))
		for _, it := range items {
			if !known[it.ID] {
				return fmt.Errorf("scope node %s: %w", it.ID, domain.ErrNotFound)
			}
			moves[it.ID] = it.OrderIndex
		}
		if err := checkSiblingOrder(existing, moves); err != nil {
			return err
		}
		for _, it := range items {
			if err := nodes.UpdateOrder(ctx, t.ID, it.ID, it.OrderIndex); err != nil {
				return err
			}
		}
		return nil
	})
}

// ImportText appends an outline to a track without touching its existing
// nodes.
func (s *scopeService) ImportText(ctx context.Context, trackRef, text string) (result *contract.ImportResult, err error) {
	fields := map[string]any{"track": trackRef}
	defer observe(ctx, s.observer, "scope.import_text", time.Now().UTC(), fields, &err)

	if scope.Clean(text) == "" {
		return nil, &domain.ValidationError{Message: "import text is empty"}
	}
	t, err := resolveTrack(ctx, s.tracks, trackRef)
	if err != nil {
		return nil, err
	}

	var created []*domain.ScopeNode
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		nodes, err := appendOutline(ctx, repository.NewSQLiteScopeNodeRepo(tx), t.ID, text, nowUTC())
		created = nodes
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("importing scope text: %w", err)
	}
	fields["created"] = len(created)
	return &contract.ImportResult{TrackID: t.ID, Created: created}, nil
}
