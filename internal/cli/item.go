package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/planstore"
)

type ItemAddCmd struct {
	GroupArgs `embed:""`
	Food      string   `arg:"" help:"Food item ID from the catalog."`
	Qta       *float64 `short:"q" help:"Quantity in the item's unit. Defaults to the suggested quantity for the group's target."`
}

func (c *ItemAddCmd) Run(ctx *Context) error {
	bg := context.Background()
	s, err := ctx.OpenPlan(bg, c.PlanID)
	if err != nil {
		return err
	}
	coords, err := c.coordinates(s)
	if err != nil {
		return err
	}

	qta, err := c.quantity(ctx, s, coords)
	if err != nil {
		return err
	}
	if err := s.AddFoodItem(coords, c.Food, qta); err != nil {
		return err
	}
	if err := ctx.SavePlan(bg, s); err != nil {
		return err
	}

	kcal := ctx.Aggregator().ItemCalories(c.Food, qta)
	fmt.Fprintf(ctx.out(), "Added %g of %s to %s (%d kcal)\n", qta, c.Food, coords, kcal)
	return nil
}

func (c *ItemAddCmd) quantity(ctx *Context, s *planstore.Store, coords models.MacroGroupCoordinates) (float64, error) {
	if c.Qta != nil {
		return *c.Qta, nil
	}

	table, err := ctx.Engine().ForMacroGroup(s.Plan(), coords)
	if err != nil {
		return 0, err
	}
	row, ok := table.Row(c.Food)
	if !ok {
		if !ctx.Catalog.Has(c.Food) {
			return 0, fmt.Errorf("%w: %s", planstore.ErrUnknownFoodItem, c.Food)
		}
		return 0, fmt.Errorf("no suggestion for %s in %s, pass --qta", c.Food, coords)
	}
	if row.Qta <= 0 {
		return 0, errors.New("the group is already at or over its target, pass --qta")
	}
	return float64(row.Qta), nil
}

type ItemUpdateCmd struct {
	GroupArgs `embed:""`
	Food      string  `arg:"" help:"Food item ID."`
	Qta       float64 `short:"q" required:"" help:"New quantity."`
}

func (c *ItemUpdateCmd) Run(ctx *Context) error {
	bg := context.Background()
	s, err := ctx.OpenPlan(bg, c.PlanID)
	if err != nil {
		return err
	}
	coords, err := c.coordinates(s)
	if err != nil {
		return err
	}

	before := s.Dirty()
	if err := s.UpdateFoodItem(coords, c.Food, c.Qta); err != nil {
		return err
	}
	if s.Dirty() == before {
		fmt.Fprintf(ctx.out(), "%s is not in %s, nothing to update\n", c.Food, coords)
		return nil
	}
	if err := ctx.SavePlan(bg, s); err != nil {
		return err
	}

	fmt.Fprintf(ctx.out(), "Updated %s in %s to %g\n", c.Food, coords, c.Qta)
	return nil
}

type ItemRemoveCmd struct {
	GroupArgs `embed:""`
	Food      string `arg:"" help:"Food item ID."`
}

func (c *ItemRemoveCmd) Run(ctx *Context) error {
	bg := context.Background()
	s, err := ctx.OpenPlan(bg, c.PlanID)
	if err != nil {
		return err
	}
	coords, err := c.coordinates(s)
	if err != nil {
		return err
	}

	if err := s.RemoveFoodItem(coords, c.Food); err != nil {
		return err
	}
	if !s.Dirty() {
		fmt.Fprintf(ctx.out(), "%s is not in %s, nothing to remove\n", c.Food, coords)
		return nil
	}
	if err := ctx.SavePlan(bg, s); err != nil {
		return err
	}

	fmt.Fprintf(ctx.out(), "Removed %s from %s\n", c.Food, coords)
	return nil
}

type BaselineSetCmd struct {
	GroupArgs `embed:""`
	Food      string  `arg:"" help:"Food item ID the target is expressed in."`
	Qta       float64 `short:"q" required:"" help:"Quantity of the food item."`
}

func (c *BaselineSetCmd) Run(ctx *Context) error {
	bg := context.Background()
	s, err := ctx.OpenPlan(bg, c.PlanID)
	if err != nil {
		return err
	}
	coords, err := c.coordinates(s)
	if err != nil {
		return err
	}

	if err := s.SetBaseline(coords, c.Food, c.Qta); err != nil {
		return err
	}
	if err := ctx.SavePlan(bg, s); err != nil {
		return err
	}

	baseline, err := s.Baseline(coords)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.out(), "Target of %s set to %g of %s (%s)\n",
		coords, c.Qta, baseline.FoodItem.Label(), formatKcal(ctx.Aggregator().MacroGroupBaselineCalories(s.Plan(), coords)))
	return nil
}

type BaselineClearCmd struct {
	GroupArgs `embed:""`
}

func (c *BaselineClearCmd) Run(ctx *Context) error {
	bg := context.Background()
	s, err := ctx.OpenPlan(bg, c.PlanID)
	if err != nil {
		return err
	}
	coords, err := c.coordinates(s)
	if err != nil {
		return err
	}

	if err := s.ClearBaseline(coords); err != nil {
		return err
	}
	if s.Dirty() {
		if err := ctx.SavePlan(bg, s); err != nil {
			return err
		}
	}

	fmt.Fprintf(ctx.out(), "Cleared target of %s\n", coords)
	return nil
}

// MealCopyCmd copies one meal and pastes it into each target in order.
type MealCopyCmd struct {
	PlanID string   `arg:"" name:"plan" help:"Plan ID."`
	Day    string   `arg:"" help:"Source day."`
	Meal   string   `arg:"" help:"Source meal."`
	To     []string `required:"" help:"Targets as DAY/MEAL, e.g. tue/lunch. Repeatable or comma-separated."`
	Week   string   `help:"Week ID. Defaults to the plan's first week."`
}

func (c *MealCopyCmd) Run(ctx *Context) error {
	bg := context.Background()
	s, err := ctx.OpenPlan(bg, c.PlanID)
	if err != nil {
		return err
	}

	src, err := mealCoordinates(s, c.Week, c.Day, c.Meal)
	if err != nil {
		return err
	}
	targets := make([]models.MealCoordinates, 0, len(c.To))
	for _, to := range c.To {
		dst, err := parseMealTarget(s, c.Week, to)
		if err != nil {
			return err
		}
		targets = append(targets, dst)
	}

	if err := s.CopyMeal(src); err != nil {
		return err
	}
	for _, dst := range targets {
		if _, err := s.PasteMeal(dst); err != nil {
			return err
		}
		fmt.Fprintf(ctx.out(), "Pasted %s into %s\n", src, dst)
	}

	return ctx.SavePlan(bg, s)
}
