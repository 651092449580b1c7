package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/macroplan/internal/models"
)

// DayCmd prints the macro grams of each meal of a day and the day totals.
type DayCmd struct {
	PlanID string `arg:"" name:"plan" help:"Plan ID."`
	Day    string `arg:"" help:"Day (monday..sunday or mon..sun)."`
	Week   string `help:"Week ID. Defaults to the plan's first week."`
	Items  bool   `short:"i" help:"Also list the items of every macro group."`
}

func (c *DayCmd) Run(ctx *Context) error {
	s, err := ctx.OpenPlan(context.Background(), c.PlanID)
	if err != nil {
		return err
	}
	weekID, err := resolveWeek(s, c.Week)
	if err != nil {
		return err
	}
	day, err := models.ParseDay(c.Day)
	if err != nil {
		return err
	}

	plan := s.Plan()
	agg := ctx.Aggregator()
	breakdown := agg.DayBreakdown(plan, weekID, day)

	t := newTable("Meal", "Carbs", "Proteins", "Fats", "Calories")
	for _, row := range breakdown.Meals {
		t.Row(
			titleCase(string(row.MealType)),
			formatGrams(row.Macros.Carbs),
			formatGrams(row.Macros.Proteins),
			formatGrams(row.Macros.Fats),
			formatKcal(row.Calories),
		)
	}
	t.Row(
		"Total",
		formatGrams(breakdown.Total.Carbs),
		formatGrams(breakdown.Total.Proteins),
		formatGrams(breakdown.Total.Fats),
		formatKcal(breakdown.Calories),
	)

	fmt.Fprintf(ctx.out(), "%s, %s\n", plan.Name, titleCase(string(day)))
	fmt.Fprintln(ctx.out(), t.Render())

	if !c.Items {
		return nil
	}

	for _, mealType := range models.MealTypes {
		mc := models.MealCoordinates{WeekID: weekID, Day: day, MealType: mealType}
		fmt.Fprintf(ctx.out(), "\n%s\n", titleCase(string(mealType)))
		for _, mt := range models.MacroTypes {
			gc := mc.Group(mt)
			group, err := plan.MacroGroup(gc)
			if err != nil {
				return err
			}
			target := "no target"
			if group.Baseline != nil {
				target = "target " + formatKcal(agg.MacroGroupBaselineCalories(plan, gc))
			}
			fmt.Fprintf(ctx.out(), "  %s: %s / %s\n", mt, formatKcal(agg.MacroGroupCalories(plan, gc)), target)
			for _, item := range group.Items {
				fmt.Fprintf(ctx.out(), "    - %-28s %8.1f  %d kcal\n", item.Name, item.Qta, agg.ItemCalories(item.ItemID, item.Qta))
			}
		}
	}
	return nil
}
