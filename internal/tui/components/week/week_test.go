package week

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
)

func setup(t *testing.T) (Model, *models.DietPlan) {
	t.Helper()
	cat := catalog.BuildIndex([]models.FoodItem{
		{ID: "rice", Name: "Rice", Unit: models.UnitGrams, Qta: 100, Calories: 350, Type: models.MacroCarbs},
	})
	plan := models.NewDietPlan("plan-1", "week-1", "Test", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	g, err := plan.MacroGroup(models.MacroGroupCoordinates{
		WeekID: "week-1", Day: models.Monday, MealType: models.Lunch, MacroType: models.MacroCarbs,
	})
	if err != nil {
		t.Fatal(err)
	}
	g.Items = append(g.Items, models.GroupItem{ItemID: "rice", Name: "Rice", Qta: 200})

	m := New(nutrition.NewAggregator(cat), 100, 20)
	m.SetPlan(plan, "week-1")
	return m, plan
}

func TestViewWithoutPlan(t *testing.T) {
	m := New(nutrition.NewAggregator(catalog.BuildIndex(nil)), 80, 20)
	if got := m.View(); got != "No plan loaded." {
		t.Errorf("unexpected view %q", got)
	}
}

func TestViewShowsCalories(t *testing.T) {
	m, _ := setup(t)
	view := m.View()
	if !strings.Contains(view, "700") {
		t.Errorf("expected monday lunch kcal in view:\n%s", view)
	}
	if !strings.Contains(view, "week total: 700 kcal") {
		t.Errorf("expected week total in view:\n%s", view)
	}
}

func TestSelectionMoves(t *testing.T) {
	m, _ := setup(t)

	sel := m.Selected()
	if sel.Day != models.Monday || sel.MealType != models.Breakfast {
		t.Fatalf("unexpected initial selection %s", sel)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel = m.Selected()
	if sel.Day != models.Tuesday || sel.MealType != models.Lunch {
		t.Errorf("expected tuesday lunch, got %s", sel)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if got := m.Selected().MealType; got != models.Snack {
		t.Errorf("expected selection to wrap to snack, got %s", got)
	}
}

func TestKeysEmitMessages(t *testing.T) {
	m, _ := setup(t)
	want := models.MealCoordinates{WeekID: "week-1", Day: models.Monday, MealType: models.Breakfast}

	tests := []struct {
		key   tea.KeyMsg
		check func(tea.Msg) bool
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, func(msg tea.Msg) bool {
			got, ok := msg.(OpenMealMsg)
			return ok && got.Meal == want
		}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, func(msg tea.Msg) bool {
			got, ok := msg.(OpenDayMsg)
			return ok && got.Day == models.Monday && got.WeekID == "week-1"
		}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}, func(msg tea.Msg) bool {
			got, ok := msg.(CopyMealMsg)
			return ok && got.Meal == want
		}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")}, func(msg tea.Msg) bool {
			got, ok := msg.(PasteMealMsg)
			return ok && got.Meal == want
		}},
	}

	for _, tt := range tests {
		_, cmd := m.Update(tt.key)
		if cmd == nil {
			t.Errorf("%s: expected a command", tt.key)
			continue
		}
		if msg := cmd(); !tt.check(msg) {
			t.Errorf("%s: unexpected message %#v", tt.key, msg)
		}
	}
}
