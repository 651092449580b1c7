package nutrition

import (
	"math"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/models"
)

// Macros holds grams of carbs, proteins and fats.
type Macros struct {
	Carbs    float64 `json:"carbs"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
}

// Add returns the sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Carbs:    m.Carbs + o.Carbs,
		Proteins: m.Proteins + o.Proteins,
		Fats:     m.Fats + o.Fats,
	}
}

// Get returns the grams of one macro dimension.
func (m Macros) Get(t models.MacroType) float64 {
	switch t {
	case models.MacroCarbs:
		return m.Carbs
	case models.MacroProteins:
		return m.Proteins
	case models.MacroFats:
		return m.Fats
	}
	return 0
}

// Aggregator derives calories and macro totals from a plan tree and the
// catalog. Every call recomputes from the current tree.
//
// Item ids missing from the catalog contribute zero. Coordinates that do not
// exist in the plan are a programming error and cause a panic carrying
// models.ErrInvalidCoordinate; resolve them with plan.MacroGroup first when
// they come from user input.
type Aggregator struct {
	catalog *catalog.Index
}

func NewAggregator(cat *catalog.Index) *Aggregator {
	return &Aggregator{catalog: cat}
}

// ItemCalories is the floored calorie count of qta units of an item, or 0
// when the id is not in the catalog.
func (a *Aggregator) ItemCalories(itemID string, qta float64) int {
	return int(math.Floor(a.itemCalories(itemID, qta)))
}

// ItemMacros scales the item's macro block to qta units. Items without a
// macro block, and unknown ids, yield zero.
func (a *Aggregator) ItemMacros(itemID string, qta float64) Macros {
	item, ok := a.catalog.ByID(itemID)
	if !ok {
		logger.Debug("Unresolved food item", "item_id", itemID)
		return Macros{}
	}
	if item.Macro == nil || item.Qta == 0 {
		return Macros{}
	}
	return Macros{
		Carbs:    item.Macro.Carbs / item.Qta * qta,
		Proteins: item.Macro.Proteins / item.Qta * qta,
		Fats:     item.Macro.Fats / item.Qta * qta,
	}
}

func (a *Aggregator) itemCalories(itemID string, qta float64) float64 {
	item, ok := a.catalog.ByID(itemID)
	if !ok {
		logger.Debug("Unresolved food item", "item_id", itemID)
		return 0
	}
	if item.Qta == 0 {
		return 0
	}
	return item.Calories / item.Qta * qta
}

// MacroGroupCalories sums the unfloored calories of the group's items.
func (a *Aggregator) MacroGroupCalories(plan *models.DietPlan, c models.MacroGroupCoordinates) float64 {
	group := mustGroup(plan, c)
	var total float64
	for _, item := range group.Items {
		total += a.itemCalories(item.ItemID, item.Qta)
	}
	return total
}

// MacroGroupBaselineCalories is the calorie target of the group, or 0 when no
// baseline is set or its quantity is zero. It reads the baseline's own
// snapshot of the food item, not the catalog.
func (a *Aggregator) MacroGroupBaselineCalories(plan *models.DietPlan, c models.MacroGroupCoordinates) float64 {
	return BaselineCalories(mustGroup(plan, c).Baseline)
}

// BaselineCalories computes the target calories of a baseline.
func BaselineCalories(b *models.Baseline) float64 {
	if b == nil || b.Qta == 0 || b.FoodItem.Qta == 0 {
		return 0
	}
	return b.FoodItem.Calories / b.FoodItem.Qta * b.Qta
}

// MealCalories sums the three macro groups of a meal.
func (a *Aggregator) MealCalories(plan *models.DietPlan, mc models.MealCoordinates) float64 {
	var total float64
	for _, mt := range models.MacroTypes {
		total += a.MacroGroupCalories(plan, mc.Group(mt))
	}
	return total
}

// DayCalories sums the four meals of a day.
func (a *Aggregator) DayCalories(plan *models.DietPlan, weekID string, day models.Day) float64 {
	var total float64
	for _, meal := range models.MealTypes {
		total += a.MealCalories(plan, models.MealCoordinates{WeekID: weekID, Day: day, MealType: meal})
	}
	return total
}

// WeekCalories sums the seven days of a week.
func (a *Aggregator) WeekCalories(plan *models.DietPlan, weekID string) float64 {
	var total float64
	for _, day := range models.Days {
		total += a.DayCalories(plan, weekID, day)
	}
	return total
}

// MacroGroupMacros sums the scaled macro grams of the group's items.
func (a *Aggregator) MacroGroupMacros(plan *models.DietPlan, c models.MacroGroupCoordinates) Macros {
	group := mustGroup(plan, c)
	var total Macros
	for _, item := range group.Items {
		total = total.Add(a.ItemMacros(item.ItemID, item.Qta))
	}
	return total
}

func (a *Aggregator) MealMacros(plan *models.DietPlan, mc models.MealCoordinates) Macros {
	var total Macros
	for _, mt := range models.MacroTypes {
		total = total.Add(a.MacroGroupMacros(plan, mc.Group(mt)))
	}
	return total
}

func (a *Aggregator) DayMacros(plan *models.DietPlan, weekID string, day models.Day) Macros {
	var total Macros
	for _, meal := range models.MealTypes {
		total = total.Add(a.MealMacros(plan, models.MealCoordinates{WeekID: weekID, Day: day, MealType: meal}))
	}
	return total
}

func mustGroup(plan *models.DietPlan, c models.MacroGroupCoordinates) *models.MacroGroup {
	group, err := plan.MacroGroup(c)
	if err != nil {
		panic(err)
	}
	return group
}
