package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitness-planner/internal/errs"
)

func validPrefs() UserPreferences {
	return UserPreferences{
		Name: "Alex", Age: 30, Gender: "Female", Weight: 70, Height: 175,
		Goal: "Muscle Gain", Level: "Beginner", Equipment: "Gym", Diet: "No Restrictions",
		WorkoutDays: []string{"Mon", "Wed", "Fri"},
		Injuries:    "None", Allergies: "None", Medications: "None",
	}
}

func TestUserPreferences_Validate_Boundaries(t *testing.T) {
	for _, age := range []int{12, 100} {
		for _, weight := range []float64{30, 300} {
			for _, height := range []float64{100, 250} {
				p := validPrefs()
				p.Age, p.Weight, p.Height = age, weight, height
				require.NoError(t, p.Validate(), "age=%d weight=%v height=%v", age, weight, height)
			}
		}
	}
}

func TestUserPreferences_Validate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UserPreferences)
		field  string
	}{
		{"age too low", func(p *UserPreferences) { p.Age = 11 }, "age"},
		{"age too high", func(p *UserPreferences) { p.Age = 101 }, "age"},
		{"weight too low", func(p *UserPreferences) { p.Weight = 29.9 }, "weight"},
		{"weight too high", func(p *UserPreferences) { p.Weight = 300.5 }, "weight"},
		{"height too low", func(p *UserPreferences) { p.Height = 99 }, "height"},
		{"height too high", func(p *UserPreferences) { p.Height = 251 }, "height"},
		{"no workout days", func(p *UserPreferences) { p.WorkoutDays = nil }, "workoutDays"},
		{"unknown workout day", func(p *UserPreferences) { p.WorkoutDays = []string{"Funday"} }, "workoutDays"},
		{"blank name", func(p *UserPreferences) { p.Name = "  " }, "name"},
		{"bad cheat day", func(p *UserPreferences) { p.CheatDay = "Someday" }, "cheatDay"},
		{"too many meals", func(p *UserPreferences) { p.MealsPerDay = 9 }, "mealsPerDay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPrefs()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			require.True(t, errs.Is(err, errs.KindValidation))

			var e *errs.Error
			require.ErrorAs(t, err, &e)
			assert.Len(t, e.Fields, 1)
			assert.NotEmpty(t, e.Fields[tt.field])
		})
	}
}

func TestUserPreferences_Normalized(t *testing.T) {
	p := validPrefs()
	p.WorkoutDays = []string{"friday", "Mon", "mon", "Wed"}
	p.CheatDay = "sunday"

	n := p.Normalized()
	assert.Equal(t, []string{"Mon", "Wed", "Fri"}, n.WorkoutDays)
	assert.Equal(t, "Sun", n.CheatDay)
	assert.True(t, n.HasCheatDay())

	p.CheatDay = "None"
	require.NoError(t, p.Validate())
	assert.Empty(t, p.Normalized().CheatDay)
}

func TestCanonicalWeekday(t *testing.T) {
	for in, want := range map[string]string{"Mon": "Mon", "tuesday": "Tue", " SUN ": "Sun"} {
		got, ok := CanonicalWeekday(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := CanonicalWeekday("mo")
	assert.False(t, ok)
}
