// internal/domain/training_plan.go
package domain

// DayPlan holds the workout and meals for one weekday label.
// Either list may be empty when the AI output was incomplete.
type DayPlan struct {
	Day     string     `json:"day"`
	Workout []Exercise `json:"workout"`
	Meals   []Meal     `json:"meals"`
}

// FitnessPlan is the aggregate persisted in the draft slot or the saved list.
type FitnessPlan struct {
	ID            string           `json:"id"`
	CreatedAt     int64            `json:"createdAt"` // epoch millis
	UserName      string           `json:"userName,omitempty"`
	Goal          string           `json:"goal"`
	Duration      string           `json:"duration"`
	Summary       string           `json:"summary"`
	TotalCalories float64          `json:"totalCalories,omitempty"`
	Preferences   *UserPreferences `json:"preferences,omitempty"` // kept for regeneration
	Days          []DayPlan        `json:"days"`
}

// IsComplete reports whether the plan has any days to show.
// A plan without days is kept and returned, but callers treat it as incomplete.
func (p *FitnessPlan) IsComplete() bool {
	return p != nil && len(p.Days) > 0
}

// Clone returns a deep copy so callers can mutate without touching stored snapshots.
func (p FitnessPlan) Clone() FitnessPlan {
	out := p
	if p.Preferences != nil {
		prefs := *p.Preferences
		prefs.WorkoutDays = append([]string(nil), p.Preferences.WorkoutDays...)
		out.Preferences = &prefs
	}
	if p.Days != nil {
		out.Days = make([]DayPlan, len(p.Days))
		for i, d := range p.Days {
			nd := DayPlan{Day: d.Day}
			if d.Workout != nil {
				nd.Workout = make([]Exercise, len(d.Workout))
				for j, ex := range d.Workout {
					ex.Instructions = append([]string(nil), ex.Instructions...)
					nd.Workout[j] = ex
				}
			}
			if d.Meals != nil {
				nd.Meals = make([]Meal, len(d.Meals))
				for j, m := range d.Meals {
					m.Ingredients = append([]string(nil), m.Ingredients...)
					m.Recipe = append([]string(nil), m.Recipe...)
					nd.Meals[j] = m
				}
			}
			out.Days[i] = nd
		}
	}
	return out
}

// DecodePlanPayload maps the AI's plan object onto a FitnessPlan. Identity and
// provenance (ID, CreatedAt, Preferences) are left for the caller to assign.
// Missing or malformed days yield an empty Days slice rather than an error.
func DecodePlanPayload(obj map[string]any) FitnessPlan {
	plan := FitnessPlan{
		UserName:      asString(obj["userName"]),
		Goal:          asString(obj["goal"]),
		Duration:      asString(obj["duration"]),
		Summary:       asString(obj["summary"]),
		TotalCalories: asNumber(obj["totalCalories"]),
		Days:          []DayPlan{},
	}
	rawDays, _ := obj["days"].([]any)
	for _, rd := range rawDays {
		dayObj := asObject(rd)
		if dayObj == nil {
			continue
		}
		day := DayPlan{Day: asString(dayObj["day"]), Workout: []Exercise{}, Meals: []Meal{}}
		if list, ok := dayObj["workout"].([]any); ok {
			for _, item := range list {
				if o := asObject(item); o != nil {
					day.Workout = append(day.Workout, DecodeExercise(o))
				}
			}
		}
		if list, ok := dayObj["meals"].([]any); ok {
			for _, item := range list {
				if o := asObject(item); o != nil {
					day.Meals = append(day.Meals, DecodeMeal(o))
				}
			}
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

// AssignItemIDs gives every exercise and meal a non-empty id that is unique within
// its day, keeping the ids the AI already provided. newID supplies fresh ids.
func (p *FitnessPlan) AssignItemIDs(newID func() string) {
	for i := range p.Days {
		seen := map[string]bool{}
		for j := range p.Days[i].Workout {
			ex := &p.Days[i].Workout[j]
			if ex.ID == "" || seen[ex.ID] {
				ex.ID = newID()
			}
			seen[ex.ID] = true
		}
		for j := range p.Days[i].Meals {
			m := &p.Days[i].Meals[j]
			if m.ID == "" || seen[m.ID] {
				m.ID = newID()
			}
			seen[m.ID] = true
		}
	}
}
