package domain

import (
	"strings"

	"alcyxob/fitness-planner/internal/errs"
)

// Accepted ranges for the biometric fields of UserPreferences.
const (
	MinAge    = 12
	MaxAge    = 100
	MinWeight = 30.0  // kg
	MaxWeight = 300.0 // kg
	MinHeight = 100.0 // cm
	MaxHeight = 250.0 // cm

	MaxMealsPerDay = 8
)

// Weekdays lists the canonical workout-day names in calendar order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// WeekdayNames maps canonical short names to the full labels used in DayPlan.Day.
var WeekdayNames = map[string]string{
	"Mon": "Monday",
	"Tue": "Tuesday",
	"Wed": "Wednesday",
	"Thu": "Thursday",
	"Fri": "Friday",
	"Sat": "Saturday",
	"Sun": "Sunday",
}

// UserPreferences is the snapshot collected by the plan form for one submission.
type UserPreferences struct {
	// Personal info
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // cm

	// Fitness profile
	Goal      string `json:"goal"`
	Level     string `json:"level"`
	Equipment string `json:"equipment"`

	// Constraints & preferences
	Diet        string   `json:"diet"`
	WorkoutDays []string `json:"workoutDays"`
	Injuries    string   `json:"injuries"`
	Allergies   string   `json:"allergies"`
	Medications string   `json:"medications"`
	Remarks     string   `json:"remarks,omitempty"`
	MealsPerDay int      `json:"mealsPerDay,omitempty"` // 0 means unspecified
	CheatDay    string   `json:"cheatDay,omitempty"`
}

// CanonicalWeekday maps "mon", "Monday", "MONDAY" etc. to "Mon".
// The second result is false for anything that is not a weekday.
func CanonicalWeekday(day string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(day))
	if len(d) < 3 {
		return "", false
	}
	for _, short := range Weekdays {
		if d == strings.ToLower(short) || d == strings.ToLower(WeekdayNames[short]) {
			return short, true
		}
	}
	return "", false
}

// HasCheatDay reports whether a cheat day was chosen.
func (p UserPreferences) HasCheatDay() bool {
	_, ok := CanonicalWeekday(p.CheatDay)
	return ok
}

// Validate checks ranges and required fields. The returned error is an
// *errs.Error of KindValidation carrying one message per offending field.
func (p UserPreferences) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "Name is required"
	}
	if p.Age < MinAge || p.Age > MaxAge {
		fields["age"] = "Please enter a valid age (12-100)"
	}
	if p.Weight < MinWeight || p.Weight > MaxWeight {
		fields["weight"] = "Please enter a valid weight (30-300 kg)"
	}
	if p.Height < MinHeight || p.Height > MaxHeight {
		fields["height"] = "Please enter a valid height (100-250 cm)"
	}
	if len(p.WorkoutDays) == 0 {
		fields["workoutDays"] = "Please select at least one workout day"
	}
	for _, d := range p.WorkoutDays {
		if _, ok := CanonicalWeekday(d); !ok {
			fields["workoutDays"] = "Unknown workout day: " + d
			break
		}
	}
	if p.CheatDay != "" && !strings.EqualFold(p.CheatDay, "none") && !p.HasCheatDay() {
		fields["cheatDay"] = "Unknown cheat day: " + p.CheatDay
	}
	if p.MealsPerDay < 0 || p.MealsPerDay > MaxMealsPerDay {
		fields["mealsPerDay"] = "Please choose between 1 and 8 meals per day"
	}

	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}

// Normalized returns a copy with workout days canonicalized, de-duplicated and
// sorted Mon..Sun, and the cheat day canonicalized.
func (p UserPreferences) Normalized() UserPreferences {
	out := p
	seen := map[string]bool{}
	for _, d := range p.WorkoutDays {
		if c, ok := CanonicalWeekday(d); ok {
			seen[c] = true
		}
	}
	out.WorkoutDays = make([]string, 0, len(seen))
	for _, d := range Weekdays {
		if seen[d] {
			out.WorkoutDays = append(out.WorkoutDays, d)
		}
	}
	if c, ok := CanonicalWeekday(p.CheatDay); ok {
		out.CheatDay = c
	} else {
		out.CheatDay = ""
	}
	out.Name = strings.TrimSpace(p.Name)
	return out
}
