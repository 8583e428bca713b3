package repository

import (
	"alcyxob/fitness-planner/internal/domain" // Plan aggregate stored by PlanStore
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Storage keys shared by every backend.
const (
	KeyAPIKey          = "gemini_api_key"
	KeySavedPlans      = "fitness_plans"
	KeyDraftPlan       = "fitness_plan_draft"
	RateLimitKeyPrefix = "ratelimit_"
)

// KeyValueStore is the persistence substrate behind PlanStore, the rate limiter
// and the credential setting. Values are opaque bytes (JSON in practice).
type KeyValueStore interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// PlanStore manages the durable saved-plan list and the single draft slot.
// Corrupt stored data is read as absent (empty list / no draft).
type PlanStore interface {
	ListSaved(ctx context.Context) ([]domain.FitnessPlan, error)
	// GetByID checks the saved list first, then the draft slot. Returns ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.FitnessPlan, error)
	// Save upserts by id; new plans are prepended.
	Save(ctx context.Context, plan *domain.FitnessPlan) error
	// Delete removes from the saved list only. Unknown ids are a no-op.
	Delete(ctx context.Context, id string) error
	// Update overwrites a saved plan with the same id, and mirrors the write
	// into the draft slot when the draft holds the same id.
	Update(ctx context.Context, plan *domain.FitnessPlan) error

	SaveDraft(ctx context.Context, plan *domain.FitnessPlan) error
	// GetDraft returns ErrNotFound when the slot is empty.
	GetDraft(ctx context.Context) (*domain.FitnessPlan, error)
	ClearDraft(ctx context.Context) error
	// IsDraft reports whether id lives only in the draft slot.
	IsDraft(ctx context.Context, id string) (bool, error)
}
