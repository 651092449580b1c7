package nutrition

import (
	"github.com/julianstephens/macroplan/internal/models"
)

// MealRow is one line of the day details table.
type MealRow struct {
	MealType models.MealType `json:"mealType"`
	Macros   Macros          `json:"macros"`
	Calories float64         `json:"calories"`
}

// DayBreakdown is the per-meal macro table of a day plus its totals.
type DayBreakdown struct {
	WeekID   string     `json:"weekId"`
	Day      models.Day `json:"day"`
	Meals    []MealRow  `json:"meals"`
	Total    Macros     `json:"total"`
	Calories float64    `json:"calories"`
}

// DayBreakdown builds the day details table, meals in canonical order.
func (a *Aggregator) DayBreakdown(plan *models.DietPlan, weekID string, day models.Day) DayBreakdown {
	b := DayBreakdown{
		WeekID: weekID,
		Day:    day,
		Meals:  make([]MealRow, 0, len(models.MealTypes)),
	}
	for _, meal := range models.MealTypes {
		mc := models.MealCoordinates{WeekID: weekID, Day: day, MealType: meal}
		row := MealRow{
			MealType: meal,
			Macros:   a.MealMacros(plan, mc),
			Calories: a.MealCalories(plan, mc),
		}
		b.Meals = append(b.Meals, row)
		b.Total = b.Total.Add(row.Macros)
		b.Calories += row.Calories
	}
	return b
}

// UnresolvedReference is a group item or baseline whose food item id is not
// in the catalog.
type UnresolvedReference struct {
	Coordinates models.MacroGroupCoordinates
	ItemID      string
	Name        string
	Baseline    bool
}

// UnresolvedReferences walks the whole plan in canonical order and lists
// every reference the catalog cannot resolve. Such items count as zero in
// every total.
func (a *Aggregator) UnresolvedReferences(plan *models.DietPlan) []UnresolvedReference {
	var refs []UnresolvedReference
	for _, weekID := range plan.WeekIDs() {
		week := plan.Weeks[weekID]
		for _, day := range models.Days {
			dp, ok := week.Days[day]
			if !ok {
				continue
			}
			for _, mealType := range models.MealTypes {
				meal, ok := dp.Meals[mealType]
				if !ok {
					continue
				}
				for _, mt := range models.MacroTypes {
					group := meal.Macro.Group(mt)
					if group == nil {
						continue
					}
					c := models.MacroGroupCoordinates{WeekID: weekID, Day: day, MealType: mealType, MacroType: mt}
					if b := group.Baseline; b != nil && !a.catalog.Has(b.FoodItem.ID) {
						refs = append(refs, UnresolvedReference{
							Coordinates: c,
							ItemID:      b.FoodItem.ID,
							Name:        b.FoodItem.Name,
							Baseline:    true,
						})
					}
					for _, item := range group.Items {
						if !a.catalog.Has(item.ItemID) {
							refs = append(refs, UnresolvedReference{Coordinates: c, ItemID: item.ItemID, Name: item.Name})
						}
					}
				}
			}
		}
	}
	return refs
}
