package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category tells which kind of plan item an alternative replaces.
type Category string

const (
	CategoryExercise Category = "Exercise"
	CategoryMeal     Category = "Meal"
)

// ParseCategory accepts "exercise", "Meal", "MEAL" etc.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exercise", "workout":
		return CategoryExercise, true
	case "meal":
		return CategoryMeal, true
	}
	return "", false
}

var (
	ErrDayOutOfRange = errors.New("day index out of range")
	ErrItemNotFound  = errors.New("plan item not found")
)

// AlternativeOption is one AI-suggested replacement. Data holds the partial
// Exercise or Meal fields as returned by the AI.
type AlternativeOption struct {
	Name   string         `json:"name"`
	Reason string         `json:"reason"`
	Data   map[string]any `json:"data"`
}

// DecodeAlternatives maps the AI's alternatives payload. It accepts a bare array
// or an object wrapping one under "alternatives"/"options"; entries without a name are dropped.
func DecodeAlternatives(tree any) []AlternativeOption {
	var list []any
	switch t := tree.(type) {
	case []any:
		list = t
	case map[string]any:
		for _, key := range []string{"alternatives", "options"} {
			if l, ok := t[key].([]any); ok {
				list = l
				break
			}
		}
	}
	out := make([]AlternativeOption, 0, len(list))
	for _, item := range list {
		obj := asObject(item)
		if obj == nil {
			continue
		}
		opt := AlternativeOption{
			Name:   asString(obj["name"]),
			Reason: asString(obj["reason"]),
			Data:   asObject(obj["data"]),
		}
		if opt.Name == "" {
			continue
		}
		if opt.Data == nil {
			opt.Data = map[string]any{}
		}
		out = append(out, opt)
	}
	return out
}

// ApplySubstitution replaces the item with itemID in day dayIndex by merging alt
// over it. Sibling items are left untouched. The plan is modified in place.
func (p *FitnessPlan) ApplySubstitution(dayIndex int, itemID string, category Category, alt AlternativeOption) error {
	if dayIndex < 0 || dayIndex >= len(p.Days) {
		return fmt.Errorf("%w: %d", ErrDayOutOfRange, dayIndex)
	}
	day := &p.Days[dayIndex]
	switch category {
	case CategoryExercise:
		for i := range day.Workout {
			if day.Workout[i].ID == itemID {
				day.Workout[i] = day.Workout[i].ApplyAlternative(alt)
				return nil
			}
		}
	case CategoryMeal:
		for i := range day.Meals {
			if day.Meals[i].ID == itemID {
				day.Meals[i] = day.Meals[i].ApplyAlternative(alt)
				return nil
			}
		}
	default:
		return fmt.Errorf("unknown category %q", category)
	}
	return fmt.Errorf("%w: %s %q on day %d", ErrItemNotFound, category, itemID, dayIndex)
}

// SetItemImage sets the image URL of an exercise or meal and returns the previous URL.
func (p *FitnessPlan) SetItemImage(dayIndex int, itemID string, category Category, url string) (string, error) {
	if dayIndex < 0 || dayIndex >= len(p.Days) {
		return "", fmt.Errorf("%w: %d", ErrDayOutOfRange, dayIndex)
	}
	day := &p.Days[dayIndex]
	switch category {
	case CategoryExercise:
		for i := range day.Workout {
			if day.Workout[i].ID == itemID {
				prev := day.Workout[i].ImageURL
				day.Workout[i].ImageURL = url
				return prev, nil
			}
		}
	case CategoryMeal:
		for i := range day.Meals {
			if day.Meals[i].ID == itemID {
				prev := day.Meals[i].ImageURL
				day.Meals[i].ImageURL = url
				return prev, nil
			}
		}
	default:
		return "", fmt.Errorf("unknown category %q", category)
	}
	return "", fmt.Errorf("%w: %s %q on day %d", ErrItemNotFound, category, itemID, dayIndex)
}
