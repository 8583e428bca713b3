package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/ratelimit"
	"alcyxob/fitness-planner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the AI backend as seen by the services. Implemented by *ai.Client.
type Gateway interface {
	GeneratePlan(ctx context.Context, prefs domain.UserPreferences) (*domain.FitnessPlan, error)
	GetAlternatives(ctx context.Context, itemName string, category domain.Category, constraint string) ([]domain.AlternativeOption, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	EditImage(ctx context.Context, imageDataURI, instruction string) (string, error)
}

// RateGuard consumes one slot of a named window or returns an errs.KindRateLimited error.
// Implemented by *ratelimit.Limiter.
type RateGuard interface {
	Check(ctx context.Context, p ratelimit.Policy) error
}

// Policies holds the window applied to each AI call category.
type Policies struct {
	Plan         ratelimit.Policy
	Alternatives ratelimit.Policy
	Image        ratelimit.Policy
}

// PlanService is the plan reconciler: it runs generation and substitution and
// decides which storage tier each result lands in. It never calls the network
// itself; AI calls go through Gateway.
type PlanService interface {
	GeneratePlan(ctx context.Context, prefs domain.UserPreferences) (*domain.FitnessPlan, error)
	RegeneratePlan(ctx context.Context, planID string) (*domain.FitnessPlan, error)
	DemoPlan(ctx context.Context, userName string) (*domain.FitnessPlan, error)

	ListSaved(ctx context.Context) ([]domain.FitnessPlan, error)
	GetPlan(ctx context.Context, planID string) (plan *domain.FitnessPlan, isDraft bool, err error)
	GetDraft(ctx context.Context) (*domain.FitnessPlan, error)
	IsDraft(ctx context.Context, planID string) (bool, error)
	SavePlan(ctx context.Context, planID string) (*domain.FitnessPlan, error)
	PromoteDraftToSaved(ctx context.Context, plan *domain.FitnessPlan) error
	DeletePlan(ctx context.Context, planID string) error

	Alternatives(ctx context.Context, itemName string, category domain.Category, constraint string) ([]domain.AlternativeOption, error)
	ApplySubstitution(ctx context.Context, plan *domain.FitnessPlan, dayIndex int, itemID string, category domain.Category, alt domain.AlternativeOption) (*domain.FitnessPlan, error)
	SubstituteInPlan(ctx context.Context, planID string, dayIndex int, itemID string, category domain.Category, alt domain.AlternativeOption) (*domain.FitnessPlan, error)
}

type planService struct {
	store    repository.PlanStore
	gateway  Gateway
	limiter  RateGuard
	policies Policies
	logger   *zap.Logger
	newID    func() string
	now      func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(store repository.PlanStore, gateway Gateway, limiter RateGuard, policies Policies, logger *zap.Logger) PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &planService{
		store:    store,
		gateway:  gateway,
		limiter:  limiter,
		policies: policies,
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// GeneratePlan validates prefs, consumes a plan slot, asks the gateway for a plan
// and stores the result as the draft.
func (s *planService) GeneratePlan(ctx context.Context, prefs domain.UserPreferences) (*domain.FitnessPlan, error) {
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	prefs = prefs.Normalized()

	if err := s.limiter.Check(ctx, s.policies.Plan); err != nil {
		return nil, err
	}
	plan, err := s.gateway.GeneratePlan(ctx, prefs)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveDraft(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("plan generated",
		zap.String("planId", plan.ID), zap.Int("days", len(plan.Days)), zap.Bool("complete", plan.IsComplete()))
	return plan, nil
}

// RegeneratePlan builds a fresh draft from the preferences stored on planID.
// The original plan is left as it is.
func (s *planService) RegeneratePlan(ctx context.Context, planID string) (*domain.FitnessPlan, error) {
	plan, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Preferences == nil {
		return nil, ErrNoPreferences
	}
	return s.GeneratePlan(ctx, *plan.Preferences)
}

// DemoPlan stores the demonstration plan as the draft. No AI call is made.
func (s *planService) DemoPlan(ctx context.Context, userName string) (*domain.FitnessPlan, error) {
	plan := domain.DemoPlan(strings.TrimSpace(userName))
	plan.ID = s.newID()
	plan.CreatedAt = s.now().UnixMilli()
	if err := s.store.SaveDraft(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *planService) ListSaved(ctx context.Context) ([]domain.FitnessPlan, error) {
	return s.store.ListSaved(ctx)
}

func (s *planService) load(ctx context.Context, planID string) (*domain.FitnessPlan, error) {
	return loadPlan(ctx, s.store, planID)
}

// loadPlan maps repository.ErrNotFound to ErrPlanNotFound.
func loadPlan(ctx context.Context, store repository.PlanStore, planID string) (*domain.FitnessPlan, error) {
	plan, err := store.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) GetPlan(ctx context.Context, planID string) (*domain.FitnessPlan, bool, error) {
	plan, err := s.load(ctx, planID)
	if err != nil {
		return nil, false, err
	}
	isDraft, err := s.store.IsDraft(ctx, planID)
	if err != nil {
		return nil, false, err
	}
	return plan, isDraft, nil
}

func (s *planService) GetDraft(ctx context.Context) (*domain.FitnessPlan, error) {
	plan, err := s.store.GetDraft(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) IsDraft(ctx context.Context, planID string) (bool, error) {
	return s.store.IsDraft(ctx, planID)
}

// SavePlan promotes the plan with planID, wherever it currently lives.
func (s *planService) SavePlan(ctx context.Context, planID string) (*domain.FitnessPlan, error) {
	plan, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.PromoteDraftToSaved(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// PromoteDraftToSaved upserts plan into the saved list and clears the draft slot
// when the draft is this plan. A draft holding another plan is kept.
func (s *planService) PromoteDraftToSaved(ctx context.Context, plan *domain.FitnessPlan) error {
	if plan == nil || plan.ID == "" {
		return errs.Validation(map[string]string{"plan": "Plan id is required"})
	}
	if err := s.store.Save(ctx, plan); err != nil {
		return err
	}
	draft, err := s.store.GetDraft(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if draft.ID == plan.ID {
		return s.store.ClearDraft(ctx)
	}
	return nil
}

// DeletePlan removes planID from the saved list. Unknown ids are a no-op.
func (s *planService) DeletePlan(ctx context.Context, planID string) error {
	return s.store.Delete(ctx, planID)
}

// Alternatives validates the request, consumes an alternatives slot and asks the gateway.
func (s *planService) Alternatives(ctx context.Context, itemName string, category domain.Category, constraint string) ([]domain.AlternativeOption, error) {
	fields := map[string]string{}
	if strings.TrimSpace(itemName) == "" {
		fields["itemName"] = "Item name is required"
	}
	if category != domain.CategoryExercise && category != domain.CategoryMeal {
		fields["category"] = "Category must be Exercise or Meal"
	}
	if strings.TrimSpace(constraint) == "" {
		fields["constraint"] = "Please describe why you need an alternative"
	}
	if len(fields) > 0 {
		return nil, errs.Validation(fields)
	}

	if err := s.limiter.Check(ctx, s.policies.Alternatives); err != nil {
		return nil, err
	}
	return s.gateway.GetAlternatives(ctx, strings.TrimSpace(itemName), category, strings.TrimSpace(constraint))
}

// ApplySubstitution merges alt into the item itemID of day dayIndex on a copy of
// plan and persists the copy to the tier that holds it. plan itself is not modified.
func (s *planService) ApplySubstitution(ctx context.Context, plan *domain.FitnessPlan, dayIndex int, itemID string, category domain.Category, alt domain.AlternativeOption) (*domain.FitnessPlan, error) {
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	if strings.TrimSpace(alt.Name) == "" {
		return nil, errs.Validation(map[string]string{"alternative": "Alternative name is required"})
	}
	updated := plan.Clone()
	if err := updated.ApplySubstitution(dayIndex, itemID, category, alt); err != nil {
		return nil, mapItemError(err)
	}
	if err := persistPlan(ctx, s.store, &updated); err != nil {
		return nil, err
	}
	s.logger.Info("substitution applied",
		zap.String("planId", updated.ID), zap.Int("day", dayIndex), zap.String("itemId", itemID), zap.String("category", string(category)))
	return &updated, nil
}

// SubstituteInPlan loads planID (saved list first, then draft) and applies alt.
func (s *planService) SubstituteInPlan(ctx context.Context, planID string, dayIndex int, itemID string, category domain.Category, alt domain.AlternativeOption) (*domain.FitnessPlan, error) {
	plan, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.ApplySubstitution(ctx, plan, dayIndex, itemID, category, alt)
}

// persistPlan writes plan back to whichever tier currently holds it.
func persistPlan(ctx context.Context, store repository.PlanStore, plan *domain.FitnessPlan) error {
	isDraft, err := store.IsDraft(ctx, plan.ID)
	if err != nil {
		return err
	}
	if isDraft {
		return store.SaveDraft(ctx, plan)
	}
	err = store.Update(ctx, plan)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

func mapItemError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDayOutOfRange):
		return ErrDayOutOfRange
	case errors.Is(err, domain.ErrItemNotFound):
		return ErrItemNotFound
	default:
		return errs.Validation(map[string]string{"category": err.Error()})
	}
}
