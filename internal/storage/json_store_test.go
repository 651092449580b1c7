package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/macroplan/internal/models"
)

func setupTestJSONStore(t *testing.T) (*JSONStore, string) {
	path := filepath.Join(t.TempDir(), "plans.json")
	store := NewJSONStore(path)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	return store, path
}

func samplePlan(id string, created time.Time) *models.DietPlan {
	plan := models.NewDietPlan(id, "week-"+id, "Plan "+id, created)
	group, _ := plan.MacroGroup(models.MacroGroupCoordinates{
		WeekID: "week-" + id, Day: models.Monday, MealType: models.Breakfast, MacroType: models.MacroCarbs,
	})
	group.Items = append(group.Items, models.GroupItem{ItemID: "oat-flakes", Name: "Oat flakes", Qta: 60})
	fibers := 10.0
	group.Baseline = &models.Baseline{
		FoodItem: models.FoodItem{
			ID: "oat-flakes", Name: "Oat flakes", Unit: models.UnitGrams, Qta: 100, Calories: 372,
			Type: models.MacroCarbs, Macro: &models.Macros{Carbs: 60, Proteins: 13, Fats: 7, Fibers: &fibers},
		},
		Qta: 80,
	}
	return plan
}

func TestJSONStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := setupTestJSONStore(t)

	plan := samplePlan("p1", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	// Reload from disk with a fresh store
	reloaded := NewJSONStore(path)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got, err := reloaded.GetPlan(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if !reflect.DeepEqual(plan, got) {
		t.Errorf("plan changed after round trip:\nwant %+v\ngot  %+v", plan, got)
	}
}

func TestJSONStoreGetPlanNotFound(t *testing.T) {
	store, _ := setupTestJSONStore(t)

	_, err := store.GetPlan(context.Background(), "missing")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestJSONStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestJSONStore(t)

	plan := samplePlan("p1", time.Now())
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	plan.Name = "Renamed"
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	got, err := store.GetPlan(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %s", got.Name)
	}
}

func TestJSONStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestJSONStore(t)

	plan := samplePlan("p1", time.Now())
	if err := store.SavePlan(ctx, plan); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	plan.Name = "changed after save"

	got, _ := store.GetPlan(ctx, "p1")
	if got.Name != "Plan p1" {
		t.Errorf("stored plan was mutated through the caller's pointer: %s", got.Name)
	}
}

func TestJSONStoreListPlansSorted(t *testing.T) {
	ctx := context.Background()
	store, _ := setupTestJSONStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		if err := store.SavePlan(ctx, samplePlan(id, base.Add(time.Duration(2-i)*time.Hour))); err != nil {
			t.Fatalf("SavePlan failed: %v", err)
		}
	}

	summaries, err := store.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	want := []string{"b", "a", "c"}
	for i, s := range summaries {
		if s.ID != want[i] {
			t.Errorf("summary %d: expected %s, got %s", i, want[i], s.ID)
		}
	}
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	err := store.Load(context.Background())
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}

	if _, err := store.GetPlan(context.Background(), "p"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestJSONStoreInitKeepsExistingPlans(t *testing.T) {
	ctx := context.Background()
	store, path := setupTestJSONStore(t)
	if err := store.SavePlan(ctx, samplePlan("keep", time.Now())); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	again := NewJSONStore(path)
	if err := again.Init(ctx); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if _, err := again.GetPlan(ctx, "keep"); err != nil {
		t.Errorf("existing plan lost on re-init: %v", err)
	}

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the store file, found %d entries", len(entries))
	}
}

func TestSavePlanRequiresID(t *testing.T) {
	store, _ := setupTestJSONStore(t)
	if err := store.SavePlan(context.Background(), &models.DietPlan{}); err == nil {
		t.Error("SavePlan should reject a plan without id")
	}
}
