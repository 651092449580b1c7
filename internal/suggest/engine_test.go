package suggest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
)

func testCatalog() *catalog.Index {
	return catalog.BuildIndex([]models.FoodItem{
		{ID: "a", Name: "A", Unit: models.UnitGrams, Qta: 100, Calories: 200, Type: models.MacroCarbs},
		{ID: "b", Name: "B", Unit: models.UnitGrams, Qta: 10, Calories: 50, Type: models.MacroCarbs},
		{ID: "water", Name: "Water", Unit: models.UnitGrams, Qta: 100, Calories: 0, Type: models.MacroCarbs},
		{ID: "egg", Name: "Egg", Unit: models.UnitPieces, Qta: 1, Calories: 78, Type: models.MacroProteins},
	})
}

func newEngine(cat *catalog.Index) *Engine {
	return NewEngine(cat, nutrition.NewAggregator(cat))
}

func TestSuggest(t *testing.T) {
	e := newEngine(testCatalog())
	b := models.FoodItem{ID: "b", Qta: 10, Calories: 50}

	tests := []struct {
		name         string
		baseline     float64
		current      float64
		wantQta      int
		wantCalories int
	}{
		{"closes gap", 200, 100, 20, 100},
		{"floors quantity", 200, 93, 21, 105},
		{"no baseline", 0, 0, 0, 0},
		{"over budget", 100, 160, -12, -60},
		{"negative floors down", 100, 103, -1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := e.Suggest(tt.baseline, tt.current, b)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQta, s.Qta)
			assert.Equal(t, tt.wantCalories, s.Calories)
		})
	}
}

func TestSuggestUnscalableCandidate(t *testing.T) {
	e := newEngine(testCatalog())

	_, err := e.Suggest(200, 100, models.FoodItem{ID: "water", Qta: 100, Calories: 0})
	assert.ErrorIs(t, err, ErrUnscalableCandidate)

	_, err = e.Suggest(200, 100, models.FoodItem{ID: "broken", Qta: 0, Calories: 10})
	assert.ErrorIs(t, err, ErrUnscalableCandidate)
}

func TestSuggestOutOfRangeQuantity(t *testing.T) {
	e := newEngine(testCatalog())
	tests := []struct {
		name      string
		baseline  float64
		candidate models.FoodItem
	}{
		{"huge gap", 1e300, models.FoodItem{ID: "b", Qta: 10, Calories: 50}},
		{"near zero calories", 200, models.FoodItem{ID: "trace", Qta: 100, Calories: 1e-300}},
		{"huge negative gap", -1e300, models.FoodItem{ID: "b", Qta: 10, Calories: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Suggest(tt.baseline, 0, tt.candidate)
			assert.ErrorIs(t, err, ErrUnscalableCandidate)
		})
	}
}

func TestForMacroGroupSkipsOutOfRangeCandidates(t *testing.T) {
	cat := catalog.BuildIndex([]models.FoodItem{
		{ID: "a", Name: "A", Unit: models.UnitGrams, Qta: 100, Calories: 200, Type: models.MacroCarbs},
		{ID: "trace", Name: "Trace", Unit: models.UnitGrams, Qta: 100, Calories: 1e-300, Type: models.MacroCarbs},
	})
	e := newEngine(cat)
	plan := models.NewDietPlan("p", "w", "Plan", time.Now())
	c := models.MacroGroupCoordinates{WeekID: "w", Day: models.Monday, MealType: models.Dinner, MacroType: models.MacroCarbs}
	group, err := plan.MacroGroup(c)
	require.NoError(t, err)
	a, _ := cat.ByID("a")
	group.Baseline = &models.Baseline{FoodItem: a, Qta: 100}

	table, err := e.ForMacroGroup(plan, c)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "a", table.Rows[0].Item.ID)
	assert.Equal(t, 100, table.Rows[0].Qta)
}

func TestForMacroGroup(t *testing.T) {
	cat := testCatalog()
	e := newEngine(cat)
	plan := models.NewDietPlan("p", "w", "Plan", time.Now())
	c := models.MacroGroupCoordinates{WeekID: "w", Day: models.Monday, MealType: models.Breakfast, MacroType: models.MacroCarbs}

	group, err := plan.MacroGroup(c)
	require.NoError(t, err)
	a, _ := cat.ByID("a")
	group.Items = append(group.Items, models.GroupItem{ItemID: "a", Name: "A", Qta: 50})
	group.Baseline = &models.Baseline{FoodItem: a, Qta: 100}

	table, err := e.ForMacroGroup(plan, c)
	require.NoError(t, err)

	assert.Equal(t, 200.0, table.BaselineCalories)
	assert.Equal(t, 100.0, table.GroupCalories)
	assert.Equal(t, 100.0, table.Gap)
	assert.False(t, table.OverBudget)
	require.NotNil(t, table.Baseline)
	assert.Equal(t, "a", table.Baseline.FoodItem.ID)

	// water has no calories and egg is a protein
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "a", table.Rows[0].Item.ID)
	assert.Equal(t, 50, table.Rows[0].Qta)

	row, ok := table.Row("b")
	require.True(t, ok)
	assert.Equal(t, 20, row.Qta)
	assert.Equal(t, 100, row.Calories)

	_, ok = table.Row("water")
	assert.False(t, ok)
}

func TestForMacroGroupOverBudget(t *testing.T) {
	cat := testCatalog()
	e := newEngine(cat)
	plan := models.NewDietPlan("p", "w", "Plan", time.Now())
	c := models.MacroGroupCoordinates{WeekID: "w", Day: models.Friday, MealType: models.Dinner, MacroType: models.MacroCarbs}

	group, _ := plan.MacroGroup(c)
	group.Items = append(group.Items, models.GroupItem{ItemID: "b", Name: "B", Qta: 30})

	table, err := e.ForMacroGroup(plan, c)
	require.NoError(t, err)
	assert.Nil(t, table.Baseline)
	assert.True(t, table.OverBudget)
	assert.Equal(t, -150.0, table.Gap)

	row, ok := table.Row("b")
	require.True(t, ok)
	assert.Equal(t, -30, row.Qta)
	assert.Equal(t, -150, row.Calories)
}

func TestForMacroGroupInvalidCoordinates(t *testing.T) {
	e := newEngine(testCatalog())
	plan := models.NewDietPlan("p", "w", "Plan", time.Now())

	_, err := e.ForMacroGroup(plan, models.MacroGroupCoordinates{WeekID: "x", Day: models.Monday, MealType: models.Lunch, MacroType: models.MacroCarbs})
	assert.ErrorIs(t, err, models.ErrInvalidCoordinate)
}
