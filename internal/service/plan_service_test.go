package service

import (
	"context"
	"testing"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanService_GeneratePlanStoresDraft(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	gw := &fakeGateway{plan: samplePlan("gen-1")}
	svc := NewPlanService(store, gw, newLimiter(), generousPolicies(), nil)

	plan, err := svc.GeneratePlan(ctx, validPrefs())
	require.NoError(t, err)
	assert.Equal(t, "gen-1", plan.ID)
	assert.Equal(t, []string{"Mon", "Fri"}, gw.lastPref.WorkoutDays, "preferences are normalized before the AI call")

	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gen-1", draft.ID)
	saved, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestPlanService_GeneratePlanValidatesFirst(t *testing.T) {
	gw := &fakeGateway{plan: samplePlan("gen-1")}
	svc := NewPlanService(newStore(), gw, denyGuard{}, generousPolicies(), nil)

	prefs := validPrefs()
	prefs.Age = 11
	_, err := svc.GeneratePlan(context.Background(), prefs)
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Equal(t, 0, gw.calls)
}

func TestPlanService_GeneratePlanRateLimited(t *testing.T) {
	gw := &fakeGateway{plan: samplePlan("gen-1")}
	svc := NewPlanService(newStore(), gw, denyGuard{}, generousPolicies(), nil)

	_, err := svc.GeneratePlan(context.Background(), validPrefs())
	require.Error(t, err)
	assert.Equal(t, errs.KindRateLimited, errs.KindOf(err))
	assert.Equal(t, 0, gw.calls)
}

func TestPlanService_GatewayErrorLeavesDraftUntouched(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	require.NoError(t, store.SaveDraft(ctx, samplePlan("old")))
	gw := &fakeGateway{err: errs.New(errs.KindMalformedResponse, assert.AnError)}
	svc := NewPlanService(store, gw, newLimiter(), generousPolicies(), nil)

	_, err := svc.GeneratePlan(ctx, validPrefs())
	assert.Equal(t, errs.KindMalformedResponse, errs.KindOf(err))
	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", draft.ID)
}

func TestPlanService_PromoteDraftToSaved(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	planA := samplePlan("a")

	require.NoError(t, store.SaveDraft(ctx, planA))
	require.NoError(t, svc.PromoteDraftToSaved(ctx, planA))

	saved, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "a", saved[0].ID)
	_, err = svc.GetDraft(ctx)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPlanService_SavePlanKeepsUnrelatedDraft(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	require.NoError(t, store.Save(ctx, samplePlan("a")))
	require.NoError(t, store.SaveDraft(ctx, samplePlan("b")))

	_, err := svc.SavePlan(ctx, "a")
	require.NoError(t, err)

	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", draft.ID)

	_, err = svc.SavePlan(ctx, "missing")
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPlanService_SubstituteInDraft(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	require.NoError(t, store.SaveDraft(ctx, samplePlan("d")))

	alt := domain.AlternativeOption{Name: "Lunge", Data: map[string]any{"sets": "3", "reps": "12", "instructions": []any{"step"}}}
	updated, err := svc.SubstituteInPlan(ctx, "d", 0, "w1", domain.CategoryExercise, alt)
	require.NoError(t, err)

	want := domain.Exercise{ID: "w1", Name: "Lunge", Sets: "3", Reps: "12", Rest: "90s", Instructions: []string{"step"}}
	assert.Equal(t, want, updated.Days[0].Workout[0])
	assert.Equal(t, "Row", updated.Days[0].Workout[1].Name)

	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, draft.Days[0].Workout[0])
	saved, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved, "a draft substitution must not save the plan")
}

func TestPlanService_SubstituteInSavedMirrorsDraft(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	require.NoError(t, store.Save(ctx, samplePlan("s")))
	require.NoError(t, store.SaveDraft(ctx, samplePlan("s")))

	alt := domain.AlternativeOption{Name: "Tofu Bowl", Data: map[string]any{"calories": 420}}
	_, err := svc.SubstituteInPlan(ctx, "s", 0, "m1", domain.CategoryMeal, alt)
	require.NoError(t, err)

	saved, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tofu Bowl", saved[0].Days[0].Meals[0].Name)
	assert.Equal(t, 420.0, saved[0].Days[0].Meals[0].Calories)
	draft, err := svc.GetDraft(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tofu Bowl", draft.Days[0].Meals[0].Name)
}

func TestPlanService_SubstituteErrors(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	require.NoError(t, store.Save(ctx, samplePlan("s")))
	alt := domain.AlternativeOption{Name: "Lunge"}

	_, err := svc.SubstituteInPlan(ctx, "s", 3, "w1", domain.CategoryExercise, alt)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
	_, err = svc.SubstituteInPlan(ctx, "s", 0, "nope", domain.CategoryExercise, alt)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = svc.SubstituteInPlan(ctx, "s", 0, "w1", domain.CategoryMeal, alt)
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = svc.SubstituteInPlan(ctx, "ghost", 0, "w1", domain.CategoryExercise, alt)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	_, err = svc.SubstituteInPlan(ctx, "s", 0, "w1", domain.CategoryExercise, domain.AlternativeOption{})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))

	saved, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	assert.Equal(t, *samplePlan("s"), saved[0], "failed substitutions leave the plan unchanged")
}

func TestPlanService_ApplySubstitutionDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	plan := samplePlan("d")
	require.NoError(t, store.SaveDraft(ctx, plan))

	_, err := svc.ApplySubstitution(ctx, plan, 0, "w1", domain.CategoryExercise, domain.AlternativeOption{Name: "Lunge"})
	require.NoError(t, err)
	assert.Equal(t, "Squat", plan.Days[0].Workout[0].Name)
}

func TestPlanService_RegeneratePlan(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	gw := &fakeGateway{plan: samplePlan("fresh")}
	svc := NewPlanService(store, gw, newLimiter(), generousPolicies(), nil)

	withPrefs := samplePlan("old")
	prefs := validPrefs()
	withPrefs.Preferences = &prefs
	require.NoError(t, store.Save(ctx, withPrefs))
	require.NoError(t, store.Save(ctx, samplePlan("bare")))

	plan, err := svc.RegeneratePlan(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "fresh", plan.ID)
	assert.Equal(t, "Sam", gw.lastPref.Name)

	_, err = svc.RegeneratePlan(ctx, "bare")
	assert.ErrorIs(t, err, ErrNoPreferences)
}

func TestPlanService_DemoPlan(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	svc := NewPlanService(newStore(), gw, denyGuard{}, generousPolicies(), nil)

	plan, err := svc.DemoPlan(ctx, "Robin")
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.NotZero(t, plan.CreatedAt)
	assert.Equal(t, "Robin", plan.UserName)
	assert.True(t, plan.IsComplete())
	assert.Equal(t, 0, gw.calls)

	got, isDraft, err := svc.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, isDraft)
	assert.Equal(t, plan.ID, got.ID)
}

func TestPlanService_DeleteUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	svc := NewPlanService(store, &fakeGateway{}, newLimiter(), generousPolicies(), nil)
	require.NoError(t, store.Save(ctx, samplePlan("a")))

	require.NoError(t, svc.DeletePlan(ctx, "missing"))
	saved, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestPlanService_Alternatives(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{alts: []domain.AlternativeOption{{Name: "Lunge"}}}
	svc := NewPlanService(newStore(), gw, newLimiter(), generousPolicies(), nil)

	opts, err := svc.Alternatives(ctx, " Squat ", domain.CategoryExercise, "knee pain")
	require.NoError(t, err)
	assert.Len(t, opts, 1)
	assert.Equal(t, "Squat", gw.lastText)

	_, err = svc.Alternatives(ctx, "", "Snack", " ")
	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.KindValidation, e.Kind)
	assert.Contains(t, e.Fields, "itemName")
	assert.Contains(t, e.Fields, "category")
	assert.Contains(t, e.Fields, "constraint")
	assert.Equal(t, 1, gw.calls)
}
