package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/planstore"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

type PlanCreateCmd struct {
	Name string `arg:"" optional:"" help:"Plan name."`
}

func (c *PlanCreateCmd) Run(ctx *Context) error {
	s := planstore.New(ctx.Store, ctx.Catalog)
	id, err := s.Create(context.Background(), c.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Created plan: %s (ID: %s)\n", s.Plan().Name, id)
	return nil
}

type PlanListCmd struct{}

func (c *PlanListCmd) Run(ctx *Context) error {
	summaries, err := ctx.Store.ListPlans(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(ctx.out(), "No plans found")
		return nil
	}

	fmt.Fprintln(ctx.out(), "Plans:")
	for _, p := range summaries {
		fmt.Fprintf(ctx.out(), "  %s  %-30s  %s\n", p.ID, p.Name, p.CreatedAt)
	}
	return nil
}

// PlanShowCmd prints the week grid: calories per day and meal.
type PlanShowCmd struct {
	PlanID string `arg:"" name:"plan" help:"Plan ID."`
	Week   string `help:"Week ID. Defaults to the plan's first week."`
}

func (c *PlanShowCmd) Run(ctx *Context) error {
	s, err := ctx.OpenPlan(context.Background(), c.PlanID)
	if err != nil {
		return err
	}
	weekID, err := resolveWeek(s, c.Week)
	if err != nil {
		return err
	}

	plan := s.Plan()
	agg := ctx.Aggregator()

	headers := []string{"Day"}
	for _, meal := range models.MealTypes {
		headers = append(headers, titleCase(string(meal)))
	}
	headers = append(headers, "Total")

	t := newTable(headers...)
	for _, day := range models.Days {
		row := []string{titleCase(string(day))}
		for _, meal := range models.MealTypes {
			mc := models.MealCoordinates{WeekID: weekID, Day: day, MealType: meal}
			row = append(row, formatKcal(agg.MealCalories(plan, mc)))
		}
		row = append(row, formatKcal(agg.DayCalories(plan, weekID, day)))
		t.Row(row...)
	}

	fmt.Fprintf(ctx.out(), "%s (week %s)\n", plan.Name, weekID)
	fmt.Fprintln(ctx.out(), t.Render())
	fmt.Fprintf(ctx.out(), "Week total: %s\n", formatKcal(agg.WeekCalories(plan, weekID)))
	return nil
}

type PlanRenameCmd struct {
	PlanID string `arg:"" name:"plan" help:"Plan ID."`
	Name   string `arg:"" help:"New name."`
}

func (c *PlanRenameCmd) Run(ctx *Context) error {
	s := planstore.New(ctx.Store, ctx.Catalog)
	if err := s.Rename(context.Background(), c.PlanID, c.Name); err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Renamed plan %s to %q\n", c.PlanID, strings.TrimSpace(c.Name))
	return nil
}

// PlanCheckCmd lists references the catalog cannot resolve. They count as
// zero calories everywhere.
type PlanCheckCmd struct {
	PlanID string `arg:"" name:"plan" help:"Plan ID."`
}

func (c *PlanCheckCmd) Run(ctx *Context) error {
	s, err := ctx.OpenPlan(context.Background(), c.PlanID)
	if err != nil {
		return err
	}

	refs := ctx.Aggregator().UnresolvedReferences(s.Plan())
	if len(refs) == 0 {
		fmt.Fprintln(ctx.out(), "✓ All food items resolve against the catalog")
		return nil
	}

	fmt.Fprintf(ctx.out(), "⚠ %d unresolved food item(s), counted as 0 kcal:\n", len(refs))
	for _, ref := range refs {
		kind := "item"
		if ref.Baseline {
			kind = "baseline"
		}
		fmt.Fprintf(ctx.out(), "  %-40s  %-8s  %s (%s)\n", ref.Coordinates, kind, ref.Name, ref.ItemID)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
