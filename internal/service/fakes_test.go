package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"alcyxob/fitness-planner/internal/domain"
	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/ratelimit"
	"alcyxob/fitness-planner/internal/repository/memory"
	"alcyxob/fitness-planner/internal/repository/planstore"
	"alcyxob/fitness-planner/internal/storage"
)

type fakeGateway struct {
	mu sync.Mutex

	plan     *domain.FitnessPlan
	alts     []domain.AlternativeOption
	image    string
	err      error
	calls    int
	lastPref domain.UserPreferences
	lastText string
}

var _ Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) record() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
}

func (g *fakeGateway) GeneratePlan(_ context.Context, prefs domain.UserPreferences) (*domain.FitnessPlan, error) {
	g.record()
	g.lastPref = prefs
	if g.err != nil {
		return nil, g.err
	}
	p := g.plan.Clone()
	p.Preferences = &prefs
	return &p, nil
}

func (g *fakeGateway) GetAlternatives(_ context.Context, itemName string, _ domain.Category, _ string) ([]domain.AlternativeOption, error) {
	g.record()
	g.lastText = itemName
	return g.alts, g.err
}

func (g *fakeGateway) GenerateImage(_ context.Context, prompt string) (string, error) {
	g.record()
	g.lastText = prompt
	return g.image, g.err
}

func (g *fakeGateway) EditImage(_ context.Context, _ string, instruction string) (string, error) {
	g.record()
	g.lastText = instruction
	return g.image, g.err
}

// denyGuard refuses every call.
type denyGuard struct{}

func (denyGuard) Check(_ context.Context, p ratelimit.Policy) error {
	return errs.RateLimited(errors.New(p.Key), 30*time.Second)
}

type fakeArchive struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

var _ storage.FileStorage = (*fakeArchive)(nil)

func newFakeArchive() *fakeArchive {
	return &fakeArchive{objects: map[string][]byte{}}
}

func (a *fakeArchive) PutObject(_ context.Context, key, _ string, body []byte) error {
	if a.putErr != nil {
		return a.putErr
	}
	a.objects[key] = body
	return nil
}

func (a *fakeArchive) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.example/" + key + "?sig=1", nil
}

func (a *fakeArchive) DeleteObject(_ context.Context, key string) error {
	a.deleted = append(a.deleted, key)
	delete(a.objects, key)
	return nil
}

func generousPolicies() Policies {
	return Policies{
		Plan:         ratelimit.Policy{Key: "plan", Limit: 100, Interval: time.Minute},
		Alternatives: ratelimit.Policy{Key: "alternatives", Limit: 100, Interval: time.Minute},
		Image:        ratelimit.Policy{Key: "image", Limit: 100, Interval: time.Minute},
	}
}

func newStore() *planstore.Store {
	return planstore.New(memory.NewKVStore(), memory.NewKVStore())
}

func newLimiter() *ratelimit.Limiter {
	return ratelimit.New(memory.NewKVStore())
}

func validPrefs() domain.UserPreferences {
	return domain.UserPreferences{
		Name: "Sam", Age: 28, Gender: "Male", Weight: 80, Height: 180,
		Goal: "Muscle Gain", Level: "Intermediate", Equipment: "Gym",
		Diet: "None", WorkoutDays: []string{"Fri", "mon"},
	}
}

func samplePlan(id string) *domain.FitnessPlan {
	return &domain.FitnessPlan{
		ID:   id,
		Goal: "Muscle Gain",
		Days: []domain.DayPlan{{
			Day:     "Monday",
			Workout: []domain.Exercise{{ID: "w1", Name: "Squat", Sets: "4", Reps: "8", Rest: "90s"}, {ID: "w2", Name: "Row"}},
			Meals:   []domain.Meal{{ID: "m1", Name: "Oats", Calories: 500}},
		}},
	}
}
