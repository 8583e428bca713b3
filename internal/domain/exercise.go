// internal/domain/exercise.go
package domain

// Exercise is a single workout entry inside a DayPlan.
// Sets, reps and rest are free-form because the AI is not constrained to numbers.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Sets         string   `json:"sets"`
	Reps         string   `json:"reps"`
	Rest         string   `json:"rest"`
	Notes        string   `json:"notes"`        // Short tip, ~10 words by prompt contract
	Instructions []string `json:"instructions"` // Step list, max 4 by prompt contract
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// DecodeExercise maps an untyped JSON object onto an Exercise.
// Missing fields stay empty; numbers are accepted where strings are expected.
func DecodeExercise(obj map[string]any) Exercise {
	ex := Exercise{Instructions: []string{}}
	ex.applyFields(obj, true)
	return ex
}

// ApplyAlternative returns a copy of e with the alternative merged over it.
// Precedence: alt.Name first, then every key present in alt.Data. The id is never overwritten.
func (e Exercise) ApplyAlternative(alt AlternativeOption) Exercise {
	out := e
	out.Instructions = append([]string(nil), e.Instructions...)
	if alt.Name != "" {
		out.Name = alt.Name
	}
	out.applyFields(alt.Data, false)
	return out
}

func (e *Exercise) applyFields(obj map[string]any, withID bool) {
	for key, raw := range obj {
		if raw == nil {
			continue
		}
		switch key {
		case "id":
			if withID {
				e.ID = asString(raw)
			}
		case "name":
			if s := asString(raw); s != "" {
				e.Name = s
			}
		case "sets":
			e.Sets = asString(raw)
		case "reps":
			e.Reps = asString(raw)
		case "rest":
			e.Rest = asString(raw)
		case "notes", "tip":
			e.Notes = asString(raw)
		case "instructions":
			e.Instructions = asStringList(raw)
		case "imageUrl":
			e.ImageURL = asString(raw)
		}
	}
}
