package suggest

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
)

// ErrUnscalableCandidate is returned for candidates whose calories or
// reference quantity make the proportion undefined.
var ErrUnscalableCandidate = errors.New("candidate cannot be scaled")

// Suggestion is the quantity of a candidate food item that closes the gap
// between a group's calories and its baseline target. Qta and Calories are
// negative when the group is already over its target.
type Suggestion struct {
	Item     models.FoodItem `json:"item"`
	Qta      int             `json:"qta"`
	Calories int             `json:"calories"`
}

// Table is the proportions table of one macro group.
type Table struct {
	Coordinates      models.MacroGroupCoordinates `json:"-"`
	Baseline         *models.Baseline             `json:"baseline,omitempty"`
	BaselineCalories float64                      `json:"baselineCalories"`
	GroupCalories    float64                      `json:"groupCalories"`
	Gap              float64                      `json:"gap"`
	OverBudget       bool                         `json:"overBudget"`
	Rows             []Suggestion                 `json:"rows"`
}

type Engine struct {
	catalog    *catalog.Index
	aggregator *nutrition.Aggregator
}

func NewEngine(cat *catalog.Index, agg *nutrition.Aggregator) *Engine {
	return &Engine{catalog: cat, aggregator: agg}
}

// Suggest computes the floored quantity of candidate needed to cover
// baselineCalories - currentCalories, and the floored calories of that
// quantity. Results are not clamped at zero.
func (e *Engine) Suggest(baselineCalories, currentCalories float64, candidate models.FoodItem) (Suggestion, error) {
	if candidate.Calories == 0 || candidate.Qta <= 0 {
		return Suggestion{}, fmt.Errorf("%w: %s", ErrUnscalableCandidate, candidate.ID)
	}

	gap := baselineCalories - currentCalories
	qta := math.Floor(gap / candidate.Calories * candidate.Qta)
	calories := math.Floor(qta / candidate.Qta * candidate.Calories)

	qtaInt, okQta := floorToInt(qta)
	caloriesInt, okCalories := floorToInt(calories)
	if !okQta || !okCalories {
		return Suggestion{}, fmt.Errorf("%w: %s needs %g %s", ErrUnscalableCandidate, candidate.ID, qta, candidate.Unit)
	}

	return Suggestion{
		Item:     candidate,
		Qta:      qtaInt,
		Calories: caloriesInt,
	}, nil
}

// floorToInt converts an already floored value, reporting false when it is
// NaN, infinite or outside the int range.
func floorToInt(f float64) (int, bool) {
	if math.IsNaN(f) || f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

// ForMacroGroup builds the proportions table of a group: one suggestion for
// every catalog item of the group's macro type, in catalog order. Candidates
// that cannot be scaled are left out.
func (e *Engine) ForMacroGroup(plan *models.DietPlan, c models.MacroGroupCoordinates) (Table, error) {
	group, err := plan.MacroGroup(c)
	if err != nil {
		return Table{}, err
	}

	baselineCalories := e.aggregator.MacroGroupBaselineCalories(plan, c)
	groupCalories := e.aggregator.MacroGroupCalories(plan, c)

	table := Table{
		Coordinates:      c,
		BaselineCalories: baselineCalories,
		GroupCalories:    groupCalories,
		Gap:              baselineCalories - groupCalories,
	}
	table.OverBudget = table.Gap < 0
	if group.Baseline != nil {
		b := *group.Baseline
		b.FoodItem = b.FoodItem.Clone()
		table.Baseline = &b
	}

	candidates := e.catalog.ByMacroType(c.MacroType)
	table.Rows = make([]Suggestion, 0, len(candidates))
	for _, candidate := range candidates {
		s, err := e.Suggest(baselineCalories, groupCalories, candidate)
		if errors.Is(err, ErrUnscalableCandidate) {
			continue
		}
		if err != nil {
			return Table{}, err
		}
		table.Rows = append(table.Rows, s)
	}

	return table, nil
}

// Row returns the suggestion for one candidate id.
func (t Table) Row(itemID string) (Suggestion, bool) {
	for _, row := range t.Rows {
		if row.Item.ID == itemID {
			return row, true
		}
	}
	return Suggestion{}, false
}
