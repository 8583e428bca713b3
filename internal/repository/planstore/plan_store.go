// Package planstore implements repository.PlanStore on top of two key-value tiers:
// a durable one holding the saved-plan list and an ephemeral one holding the draft.
package planstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/repository"

	"go.uber.org/zap"
)

// Store keeps the saved list as one JSON array under repository.KeySavedPlans and
// the draft as one JSON object under repository.KeyDraftPlan.
type Store struct {
	durable   repository.KeyValueStore
	ephemeral repository.KeyValueStore
	logger    *zap.Logger

	// Serializes read-modify-write of the saved list within this process.
	mu sync.Mutex
}

var _ repository.PlanStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger that reports corrupt stored plans.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a plan store. durable and ephemeral may be the same store.
func New(durable, ephemeral repository.KeyValueStore, opts ...Option) *Store {
	s := &Store{durable: durable, ephemeral: ephemeral, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadSaved reads the saved list. Absent or corrupt data reads as an empty list.
func (s *Store) loadSaved(ctx context.Context) ([]domain.FitnessPlan, error) {
	raw, found, err := s.durable.Get(ctx, repository.KeySavedPlans)
	if err != nil {
		return nil, fmt.Errorf("read saved plans: %w", err)
	}
	if !found {
		return []domain.FitnessPlan{}, nil
	}
	var plans []domain.FitnessPlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		s.logger.Warn("saved plans unreadable, treating as empty; the next save overwrites them",
			zap.Int("bytes", len(raw)), zap.Error(err))
		return []domain.FitnessPlan{}, nil
	}
	if plans == nil {
		return []domain.FitnessPlan{}, nil
	}
	return plans, nil
}

func (s *Store) storeSaved(ctx context.Context, plans []domain.FitnessPlan) error {
	raw, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("encode saved plans: %w", err)
	}
	if err := s.durable.Set(ctx, repository.KeySavedPlans, raw); err != nil {
		return fmt.Errorf("write saved plans: %w", err)
	}
	return nil
}

// loadDraft returns nil when the slot is empty or holds corrupt data.
func (s *Store) loadDraft(ctx context.Context) (*domain.FitnessPlan, error) {
	raw, found, err := s.ephemeral.Get(ctx, repository.KeyDraftPlan)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	if !found {
		return nil, nil
	}
	var plan domain.FitnessPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		s.logger.Warn("draft plan unreadable, treating slot as empty", zap.Error(err))
		return nil, nil
	}
	if plan.ID == "" {
		return nil, nil
	}
	return &plan, nil
}

func (s *Store) storeDraft(ctx context.Context, plan *domain.FitnessPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.ephemeral.Set(ctx, repository.KeyDraftPlan, raw); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

// ListSaved returns saved plans, newest first.
func (s *Store) ListSaved(ctx context.Context) ([]domain.FitnessPlan, error) {
	return s.loadSaved(ctx)
}

// GetByID looks in the saved list first, then in the draft slot.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.FitnessPlan, error) {
	plans, err := s.loadSaved(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i], nil
		}
	}
	draft, err := s.loadDraft(ctx)
	if err != nil {
		return nil, err
	}
	if draft != nil && draft.ID == id {
		return draft, nil
	}
	return nil, repository.ErrNotFound
}

// Save overwrites the entry with the same id in place, or prepends a new one.
func (s *Store) Save(ctx context.Context, plan *domain.FitnessPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("save plan: missing id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.loadSaved(ctx)
	if err != nil {
		return err
	}
	for i := range plans {
		if plans[i].ID == plan.ID {
			plans[i] = *plan
			return s.storeSaved(ctx, plans)
		}
	}
	return s.storeSaved(ctx, append([]domain.FitnessPlan{*plan}, plans...))
}

// Delete removes id from the saved list. The draft slot is never touched.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.loadSaved(ctx)
	if err != nil {
		return err
	}
	kept := plans[:0]
	for _, p := range plans {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(plans) {
		return nil
	}
	return s.storeSaved(ctx, kept)
}

// Update writes plan to every tier that currently holds its id.
// Returns repository.ErrNotFound when neither tier does.
func (s *Store) Update(ctx context.Context, plan *domain.FitnessPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("update plan: missing id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	written := false
	plans, err := s.loadSaved(ctx)
	if err != nil {
		return err
	}
	for i := range plans {
		if plans[i].ID == plan.ID {
			plans[i] = *plan
			if err := s.storeSaved(ctx, plans); err != nil {
				return err
			}
			written = true
			break
		}
	}

	draft, err := s.loadDraft(ctx)
	if err != nil {
		return err
	}
	if draft != nil && draft.ID == plan.ID {
		if err := s.storeDraft(ctx, plan); err != nil {
			return err
		}
		written = true
	}

	if !written {
		return repository.ErrNotFound
	}
	return nil
}

// SaveDraft replaces whatever the draft slot holds.
func (s *Store) SaveDraft(ctx context.Context, plan *domain.FitnessPlan) error {
	if plan == nil || plan.ID == "" {
		return fmt.Errorf("save draft: missing id")
	}
	return s.storeDraft(ctx, plan)
}

func (s *Store) GetDraft(ctx context.Context) (*domain.FitnessPlan, error) {
	draft, err := s.loadDraft(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, repository.ErrNotFound
	}
	return draft, nil
}

func (s *Store) ClearDraft(ctx context.Context) error {
	if err := s.ephemeral.Delete(ctx, repository.KeyDraftPlan); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

func (s *Store) IsDraft(ctx context.Context, id string) (bool, error) {
	draft, err := s.loadDraft(ctx)
	if err != nil {
		return false, err
	}
	if draft == nil || draft.ID != id {
		return false, nil
	}
	plans, err := s.loadSaved(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range plans {
		if p.ID == id {
			return false, nil
		}
	}
	return true, nil
}
