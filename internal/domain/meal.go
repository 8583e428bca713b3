package domain

// Meal is a single meal entry inside a DayPlan. Macros are grams, calories kcal.
type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Ingredients []string `json:"ingredients"`
	Recipe      []string `json:"recipe"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// DecodeMeal maps an untyped JSON object onto a Meal.
func DecodeMeal(obj map[string]any) Meal {
	m := Meal{Ingredients: []string{}, Recipe: []string{}}
	m.applyFields(obj, true)
	return m
}

// ApplyAlternative returns a copy of m with the alternative merged over it,
// following the same precedence as Exercise.ApplyAlternative.
func (m Meal) ApplyAlternative(alt AlternativeOption) Meal {
	out := m
	out.Ingredients = append([]string(nil), m.Ingredients...)
	out.Recipe = append([]string(nil), m.Recipe...)
	if alt.Name != "" {
		out.Name = alt.Name
	}
	out.applyFields(alt.Data, false)
	return out
}

func (m *Meal) applyFields(obj map[string]any, withID bool) {
	for key, raw := range obj {
		if raw == nil {
			continue
		}
		switch key {
		case "id":
			if withID {
				m.ID = asString(raw)
			}
		case "name":
			if s := asString(raw); s != "" {
				m.Name = s
			}
		case "calories":
			m.Calories = asNumber(raw)
		case "protein":
			m.Protein = asNumber(raw)
		case "carbs":
			m.Carbs = asNumber(raw)
		case "fat":
			m.Fat = asNumber(raw)
		case "ingredients":
			m.Ingredients = asStringList(raw)
		case "recipe":
			m.Recipe = asStringList(raw)
		case "imageUrl":
			m.ImageURL = asString(raw)
		}
	}
}
