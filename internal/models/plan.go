package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the weekday keys in canonical order. Every week holds all of them.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the meal slots in canonical order. Every day holds all of them.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack}

type GroupItem struct {
	ItemID string  `json:"itemId"`
	Name   string  `json:"name"` // snapshot of the catalog name
	Qta    float64 `json:"qta"`
}

// Baseline is the calorie target of a macro group, expressed as a quantity of
// a food item. FoodItem is a value snapshot taken when the baseline was set.
type Baseline struct {
	FoodItem FoodItem `json:"foodItem"`
	Qta      float64  `json:"qta"`
}

type MacroGroup struct {
	Baseline *Baseline   `json:"baseline,omitempty"`
	Items    []GroupItem `json:"items"`
}

// MacroSet holds the three macro groups of a meal. All three are always present.
type MacroSet struct {
	Carbs    *MacroGroup `json:"carbs"`
	Proteins *MacroGroup `json:"proteins"`
	Fats     *MacroGroup `json:"fats"`
}

// Group returns the group for a macro type, or nil for an unknown type.
func (s *MacroSet) Group(t MacroType) *MacroGroup {
	switch t {
	case MacroCarbs:
		return s.Carbs
	case MacroProteins:
		return s.Proteins
	case MacroFats:
		return s.Fats
	}
	return nil
}

type Meal struct {
	ID    string   `json:"id"`
	Name  MealType `json:"name"`
	Macro MacroSet `json:"macro"`
}

type DayPlan struct {
	ID    string             `json:"id"`
	Day   Day                `json:"day"`
	Meals map[MealType]*Meal `json:"meals"`
}

type Week struct {
	ID   string           `json:"id"`
	Days map[Day]*DayPlan `json:"days"`
}

type DietPlan struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt string           `json:"createdAt"` // RFC3339 timestamp
	Weeks     map[string]*Week `json:"weeks"`
}

// PlanSummary is the listing view of a plan.
type PlanSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

func newMacroGroup() *MacroGroup {
	return &MacroGroup{Items: []GroupItem{}}
}

// NewDietPlan generates the full skeleton of a plan: one week holding the
// seven days, each with the four meals and three empty macro groups.
func NewDietPlan(id, weekID, name string, createdAt time.Time) *DietPlan {
	week := &Week{
		ID:   weekID,
		Days: make(map[Day]*DayPlan, len(Days)),
	}
	for _, day := range Days {
		dp := &DayPlan{
			ID:    string(day),
			Day:   day,
			Meals: make(map[MealType]*Meal, len(MealTypes)),
		}
		for _, mealType := range MealTypes {
			dp.Meals[mealType] = &Meal{
				ID:   string(mealType),
				Name: mealType,
				Macro: MacroSet{
					Carbs:    newMacroGroup(),
					Proteins: newMacroGroup(),
					Fats:     newMacroGroup(),
				},
			}
		}
		week.Days[day] = dp
	}

	return &DietPlan{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
		Weeks:     map[string]*Week{weekID: week},
	}
}

// Summary returns the listing view of the plan.
func (p *DietPlan) Summary() PlanSummary {
	return PlanSummary{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

// CreatedTime parses CreatedAt.
func (p *DietPlan) CreatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, p.CreatedAt)
}

// WeekIDs returns the ids of the plan's weeks, sorted.
func (p *DietPlan) WeekIDs() []string {
	ids := make([]string, 0, len(p.Weeks))
	for id := range p.Weeks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseDay parses a weekday name or its three-letter abbreviation.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Days {
		if s == string(d) || s == string(d)[:3] {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid day: %s", s)
}

// ParseMealType parses a meal slot name.
func ParseMealType(s string) (MealType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range MealTypes {
		if s == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid meal type: %s", s)
}
