// Package prompt builds the text prompts sent to the AI backend. Every builder is
// pure: the same input always yields the same prompt.
package prompt

import (
	"fmt"
	"strings"

	"alcyxob/fitness-planner/internal/domain"
)

// Step caps requested from the model. They are a prompt contract only.
const (
	MaxInstructionSteps = 4
	MaxRecipeSteps      = 4
	MaxNoteWords        = 10
	MaxSummaryWords     = 15
	AlternativesCount   = 3
)

// Prompt is an instruction plus the JSON shape the answer must follow.
type Prompt struct {
	Instruction string
	Shape       string
}

// Text joins instruction and shape into the string sent to the model.
func (p Prompt) Text() string {
	if p.Shape == "" {
		return p.Instruction
	}
	return p.Instruction + "\n\nJSON Structure:\n" + p.Shape
}

// PlanShape is the object the plan prompt asks for.
const PlanShape = `{
  "userName": "...",
  "summary": "...",
  "totalCalories": 2500,
  "days": [
    {
      "day": "Monday",
      "workout": [{ "id": "w1", "name": "...", "sets": "3", "reps": "10", "rest": "60s", "notes": "...", "instructions": ["Step 1", "Step 2"] }],
      "meals": [{ "id": "m1", "name": "...", "calories": 500, "protein": 30, "carbs": 50, "fat": 15, "ingredients": ["A"], "recipe": ["Step 1", "Step 2"] }]
    }
  ]
}`

// AlternativesShape is the array the alternatives prompt asks for.
const AlternativesShape = `[
  { "name": "New Name", "reason": "Why it fits", "data": { ...properties... } }
]`

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

// PlanPrompt describes every preference field and the output contract for a
// seven-day plan.
func PlanPrompt(prefs domain.UserPreferences) Prompt {
	days := make([]string, 0, len(prefs.WorkoutDays))
	for _, d := range prefs.WorkoutDays {
		if c, ok := domain.CanonicalWeekday(d); ok {
			days = append(days, domain.WeekdayNames[c])
		} else {
			days = append(days, d)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a JSON fitness plan for: %s.\n", prefs.Name)
	fmt.Fprintf(&b, "Profile: age %d, gender %s, weight %g kg, height %g cm.\n",
		prefs.Age, orNone(prefs.Gender), prefs.Weight, prefs.Height)
	fmt.Fprintf(&b, "Goal: %s. Level: %s. Equipment: %s.\n", prefs.Goal, prefs.Level, prefs.Equipment)
	fmt.Fprintf(&b, "Workout days: %s.\n", strings.Join(days, ", "))
	fmt.Fprintf(&b, "Diet: %s. Allergies: %s. Injuries: %s. Medications: %s.\n",
		orNone(prefs.Diet), orNone(prefs.Allergies), orNone(prefs.Injuries), orNone(prefs.Medications))
	if prefs.MealsPerDay > 0 {
		fmt.Fprintf(&b, "Meals per day: %d.\n", prefs.MealsPerDay)
	}
	fmt.Fprintf(&b, "Additional User Remarks/Requests: %q.\n", orNone(prefs.Remarks))

	b.WriteString("\nConstraints:\n")
	rules := []string{
		"Output strictly valid JSON only. No prose, no markdown fences.",
		"Include all 7 days, Monday to Sunday, in order, even if fewer workout days were requested.",
		`On non-workout days the 'workout' list has a single entry named "Rest" with sets, reps and rest set to "-".`,
		fmt.Sprintf("'instructions': clear step-by-step instructions as an array of strings. Max %d steps.", MaxInstructionSteps),
		fmt.Sprintf("'notes': max %d words tip.", MaxNoteWords),
		fmt.Sprintf("'recipe': preparation steps as an array of strings. Max %d steps.", MaxRecipeSteps),
		fmt.Sprintf("'summary': max %d words.", MaxSummaryWords),
		"Every exercise and meal has an 'id' unique within its day.",
	}
	if prefs.HasCheatDay() {
		c, _ := domain.CanonicalWeekday(prefs.CheatDay)
		full := domain.WeekdayNames[c]
		rules = append(rules, fmt.Sprintf("%s is the cheat day: add one extra indulgent meal to its 'meals' list.", full))
	}
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}

	return Prompt{Instruction: strings.TrimRight(b.String(), "\n"), Shape: PlanShape}
}

// AlternativesPrompt asks for exactly three replacements for one plan item.
func AlternativesPrompt(itemName string, category domain.Category, constraint string) Prompt {
	var required string
	switch category {
	case domain.CategoryMeal:
		required = "calories, protein, carbs, fat (numbers), ingredients (array of strings), recipe (array of strings)"
	default:
		required = "sets, reps, rest, notes (short tip), instructions (array of strings)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Substitute %s: %q. Issue: %q.\n", category, itemName, constraint)
	fmt.Fprintf(&b, "Provide exactly %d alternatives.\n", AlternativesCount)
	b.WriteString("Return strictly valid JSON array only. No prose, no markdown fences.\n")
	fmt.Fprintf(&b, "Each entry has 'name', 'reason' and a 'data' object that must include: %s.", required)

	return Prompt{Instruction: b.String(), Shape: AlternativesShape}
}

// ImagePrompt is the enhanced prompt used to illustrate one plan item.
func ImagePrompt(subject string, category domain.Category) string {
	style := "Fitness photography, clear form."
	if category == domain.CategoryMeal {
		style = "Food photography, appetizing."
	}
	return fmt.Sprintf("Photorealistic, high quality, 4k image of %s. %s", strings.TrimSpace(subject), style)
}
