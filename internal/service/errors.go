package service

import (
	"errors"
	"fmt"

	"alcyxob/fitness-planner/internal/errs"
)

// --- Error Definitions ---
// Not-found errors wrap errs.ErrNotFound so the API layer can map them uniformly.
var (
	ErrPlanNotFound    = fmt.Errorf("plan %w", errs.ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("plan item %w", errs.ErrNotFound)
	ErrDayOutOfRange   = errors.New("day index out of range")
	ErrNoPreferences   = errors.New("plan has no stored preferences to regenerate from")
	ErrArchiveDisabled = errors.New("image archive is not configured")
)
