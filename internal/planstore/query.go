package planstore

import (
	"context"
	"fmt"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/storage"
)

// Plan returns a copy of the current plan, or nil when none is loaded.
func (s *Store) Plan() *models.DietPlan {
	return s.plan.Clone()
}

// CurrentPlanID returns the id of the current plan, or "".
func (s *Store) CurrentPlanID() string {
	if s.plan == nil {
		return ""
	}
	return s.plan.ID
}

// Dirty reports whether the current plan has edits not yet saved.
func (s *Store) Dirty() bool {
	return s.dirty
}

func (s *Store) WeekIDs() ([]string, error) {
	if s.plan == nil {
		return nil, ErrNoPlanLoaded
	}
	return s.plan.WeekIDs(), nil
}

// DayIDs lists the days of a week in canonical order.
func (s *Store) DayIDs(weekID string) ([]models.Day, error) {
	if s.plan == nil {
		return nil, ErrNoPlanLoaded
	}
	week, err := s.plan.Week(weekID)
	if err != nil {
		return nil, err
	}

	days := make([]models.Day, 0, len(week.Days))
	for _, day := range models.Days {
		if _, ok := week.Days[day]; ok {
			days = append(days, day)
		}
	}
	return days, nil
}

// MealTypeDayIDs lists, in canonical order, the days of a week that hold
// the given meal slot.
func (s *Store) MealTypeDayIDs(weekID string, mealType models.MealType) ([]models.Day, error) {
	days, err := s.DayIDs(weekID)
	if err != nil {
		return nil, err
	}

	week := s.plan.Weeks[weekID]
	out := make([]models.Day, 0, len(days))
	for _, day := range days {
		if _, ok := week.Days[day].Meals[mealType]; ok {
			out = append(out, day)
		}
	}
	return out, nil
}

// Meal returns a copy of a meal.
func (s *Store) Meal(c models.MealCoordinates) (*models.Meal, error) {
	meal, err := s.meal(c)
	if err != nil {
		return nil, err
	}
	return &models.Meal{ID: meal.ID, Name: meal.Name, Macro: meal.Macro.Clone()}, nil
}

// MacroGroup returns a copy of a macro group.
func (s *Store) MacroGroup(c models.MacroGroupCoordinates) (*models.MacroGroup, error) {
	group, err := s.group(c)
	if err != nil {
		return nil, err
	}
	return group.Clone(), nil
}

// Baseline returns a copy of the group's baseline, nil when unset.
func (s *Store) Baseline(c models.MacroGroupCoordinates) (*models.Baseline, error) {
	group, err := s.MacroGroup(c)
	if err != nil {
		return nil, err
	}
	return group.Baseline, nil
}

func (s *Store) Items(c models.MacroGroupCoordinates) ([]models.GroupItem, error) {
	group, err := s.MacroGroup(c)
	if err != nil {
		return nil, err
	}
	return group.Items, nil
}

// CopiedMeal returns a copy of the buffer, nil when nothing was copied.
func (s *Store) CopiedMeal() *models.MacroSet {
	if s.copied == nil {
		return nil
	}
	c := s.copied.Clone()
	return &c
}

func (s *Store) HasCopiedMeal() bool {
	return s.copied != nil
}

// Summaries returns the plan list: stored plans with the current plan's
// in-memory state laid over them.
func (s *Store) Summaries() []storage.PlanSummary {
	out := make([]storage.PlanSummary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

// RefreshSummaries reloads the stored plan list from the repository.
func (s *Store) RefreshSummaries(ctx context.Context) error {
	if err := s.refreshPersisted(ctx); err != nil {
		return err
	}
	s.recomputeSummaries()
	return nil
}

func (s *Store) refreshPersisted(ctx context.Context) error {
	summaries, err := s.repo.ListPlans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	s.persisted = summaries
	return nil
}

func (s *Store) recomputeSummaries() {
	summaries := make([]storage.PlanSummary, 0, len(s.persisted)+1)
	found := false
	for _, summary := range s.persisted {
		if s.plan != nil && summary.ID == s.plan.ID {
			summary = s.plan.Summary()
			found = true
		}
		summaries = append(summaries, summary)
	}
	if s.plan != nil && !found {
		summaries = append(summaries, s.plan.Summary())
	}
	storage.SortSummaries(summaries)
	s.summaries = summaries
}
