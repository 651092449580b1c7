package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/storage/sqlite"
)

func testCatalog() *catalog.Index {
	return catalog.BuildIndex([]models.FoodItem{
		{ID: "rice", Name: "Rice", Unit: models.UnitGrams, Qta: 100, Calories: 350, Type: models.MacroCarbs,
			Macro: &models.Macros{Carbs: 78, Proteins: 7, Fats: 0.6}},
		{ID: "bread", Name: "Bread", Brand: "Bakery", Unit: models.UnitGrams, Qta: 100, Calories: 250, Type: models.MacroCarbs},
		{ID: "egg", Name: "Egg", Unit: models.UnitPieces, Qta: 1, Calories: 78, Type: models.MacroProteins,
			Macro: &models.Macros{Carbs: 0.6, Proteins: 6.3, Fats: 5.3}},
	})
}

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &Context{
		Store:   store,
		Catalog: testCatalog(),
		Out:     out,
	}, out
}

// createTestPlan creates a plan and returns its id and first week id.
func createTestPlan(t *testing.T, ctx *Context, name string) (string, string) {
	t.Helper()
	if err := (&PlanCreateCmd{Name: name}).Run(ctx); err != nil {
		t.Fatalf("plan create failed: %v", err)
	}
	summaries, err := ctx.Store.ListPlans(context.Background())
	if err != nil || len(summaries) == 0 {
		t.Fatalf("expected a stored plan, got %v (%v)", summaries, err)
	}
	var id string
	for _, s := range summaries {
		if s.Name == name {
			id = s.ID
		}
	}
	if id == "" {
		t.Fatalf("plan %q not found in %v", name, summaries)
	}
	plan, err := ctx.Store.GetPlan(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to read plan: %v", err)
	}
	return id, plan.WeekIDs()[0]
}

func groupArgs(planID, day, meal, macro string) GroupArgs {
	return GroupArgs{PlanID: planID, Day: day, Meal: meal, Macro: macro}
}

func float(v float64) *float64 {
	return &v
}
