package prompt

import (
	"strings"
	"testing"

	"alcyxob/fitness-planner/internal/domain"

	"github.com/stretchr/testify/assert"
)

func samplePrefs() domain.UserPreferences {
	return domain.UserPreferences{
		Name: "Alex", Age: 30, Gender: "Female", Weight: 62.5, Height: 168,
		Goal: "Fat Loss", Level: "Beginner", Equipment: "Home (Dumbbells)",
		Diet: "Vegetarian", WorkoutDays: []string{"Mon", "thursday"},
		Injuries: "Left knee", Allergies: "", Medications: "None",
		Remarks: "Short sessions please", MealsPerDay: 4, CheatDay: "sat",
	}
}

func TestPlanPrompt_ListsEveryPreference(t *testing.T) {
	text := PlanPrompt(samplePrefs()).Text()

	for _, want := range []string{
		"Alex", "age 30", "Female", "62.5 kg", "168 cm",
		"Fat Loss", "Beginner", "Home (Dumbbells)", "Vegetarian",
		"Monday, Thursday", "Left knee", "Allergies: None", "Medications: None",
		"Meals per day: 4", `"Short sessions please"`,
	} {
		assert.Contains(t, text, want)
	}
}

func TestPlanPrompt_OutputContract(t *testing.T) {
	text := PlanPrompt(samplePrefs()).Text()

	assert.Contains(t, text, "strictly valid JSON only")
	assert.Contains(t, text, "all 7 days")
	assert.Contains(t, text, `"Rest"`)
	assert.Contains(t, text, "Max 4 steps")
	assert.Contains(t, text, "Saturday is the cheat day")
	assert.True(t, strings.HasSuffix(text, PlanShape))
}

func TestPlanPrompt_NoCheatDay(t *testing.T) {
	prefs := samplePrefs()
	prefs.CheatDay = "None"
	prefs.MealsPerDay = 0

	text := PlanPrompt(prefs).Text()
	assert.NotContains(t, text, "cheat day")
	assert.NotContains(t, text, "Meals per day")
}

func TestPlanPrompt_Deterministic(t *testing.T) {
	assert.Equal(t, PlanPrompt(samplePrefs()), PlanPrompt(samplePrefs()))
}

func TestAlternativesPrompt(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		want     []string
		notWant  string
	}{
		{
			name:     "exercise",
			category: domain.CategoryExercise,
			want:     []string{`Substitute Exercise: "Squat"`, "sets, reps, rest, notes", "instructions"},
			notWant:  "calories",
		},
		{
			name:     "meal",
			category: domain.CategoryMeal,
			want:     []string{`Substitute Meal: "Squat"`, "calories, protein, carbs, fat", "ingredients", "recipe"},
			notWant:  "sets, reps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := AlternativesPrompt("Squat", tt.category, "knee pain").Text()
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			assert.Contains(t, text, `Issue: "knee pain"`)
			assert.Contains(t, text, "exactly 3 alternatives")
			assert.NotContains(t, text, tt.notWant)
		})
	}
}

func TestImagePrompt(t *testing.T) {
	assert.Equal(t,
		"Photorealistic, high quality, 4k image of Oatmeal Bowl. Food photography, appetizing.",
		ImagePrompt(" Oatmeal Bowl ", domain.CategoryMeal))
	assert.Equal(t,
		"Photorealistic, high quality, 4k image of Barbell Squat. Fitness photography, clear form.",
		ImagePrompt("Barbell Squat", domain.CategoryExercise))
}
