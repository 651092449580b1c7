package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/macroplan/internal/models"
)

func TestValidateTree(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(p *models.DietPlan)
		wantErr string
	}{
		{"complete", func(p *models.DietPlan) {}, ""},
		{"no id", func(p *models.DietPlan) { p.ID = "" }, "plan id is required"},
		{"no weeks", func(p *models.DietPlan) { p.Weeks = map[string]*models.Week{} }, "plan has no weeks"},
		{"missing day", func(p *models.DietPlan) { delete(p.Weeks["w"].Days, models.Thursday) }, "incomplete plan tree"},
		{"nil group", func(p *models.DietPlan) {
			p.Weeks["w"].Days[models.Sunday].Meals[models.Snack].Macro.Fats = nil
		}, "w/sunday/snack/fats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := models.NewDietPlan("p", "w", "Plan", created)
			tt.mutate(plan)

			err := ValidateTree(plan)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	if err := ValidateTree(nil); err == nil {
		t.Error("expected an error for a nil plan")
	}
}

func TestValidateTreeWrapsCoordinateError(t *testing.T) {
	plan := models.NewDietPlan("p", "w", "Plan", time.Now())
	plan.Weeks["w"].Days[models.Monday].Meals[models.Lunch] = nil

	err := ValidateTree(plan)
	if !errors.Is(err, models.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestSortSummaries(t *testing.T) {
	summaries := []PlanSummary{
		{ID: "c", CreatedAt: "2024-03-01T00:00:00Z"},
		{ID: "b", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "a", CreatedAt: "2024-01-01T00:00:00Z"},
	}
	SortSummaries(summaries)

	var ids []string
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, ",") != "a,b,c" {
		t.Errorf("unexpected order %v", ids)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound("abc")
	if !errors.Is(err, ErrPlanNotFound) || !strings.Contains(err.Error(), "abc") {
		t.Errorf("unexpected error %v", err)
	}
}
