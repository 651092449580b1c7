package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/macroplan/internal/constants"
	"github.com/julianstephens/macroplan/internal/models"
)

type PlanSummary = models.PlanSummary

var (
	ErrPlanNotFound   = errors.New("plan not found")
	ErrNotInitialized = fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	ErrNotLoaded      = errors.New("storage not loaded")
)

// NotFound wraps ErrPlanNotFound with the plan id.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
}

// SortSummaries orders summaries by creation time, then id.
func SortSummaries(summaries []PlanSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt != summaries[j].CreatedAt {
			return summaries[i].CreatedAt < summaries[j].CreatedAt
		}
		return summaries[i].ID < summaries[j].ID
	})
}

// ValidatePlan rejects plans that cannot be stored.
func ValidatePlan(plan *models.DietPlan) error {
	if plan == nil {
		return errors.New("plan is nil")
	}
	if plan.ID == "" {
		return errors.New("plan id is required")
	}
	return nil
}

// ValidateTree checks that every week of the plan holds all days, every day
// all meals and every meal its three macro groups.
func ValidateTree(plan *models.DietPlan) error {
	if err := ValidatePlan(plan); err != nil {
		return err
	}
	if len(plan.Weeks) == 0 {
		return errors.New("plan has no weeks")
	}
	for _, weekID := range plan.WeekIDs() {
		for _, day := range models.Days {
			for _, mealType := range models.MealTypes {
				mc := models.MealCoordinates{WeekID: weekID, Day: day, MealType: mealType}
				for _, mt := range models.MacroTypes {
					if _, err := plan.MacroGroup(mc.Group(mt)); err != nil {
						return fmt.Errorf("incomplete plan tree at %s: %w", mc.Group(mt), err)
					}
				}
			}
		}
	}
	return nil
}
