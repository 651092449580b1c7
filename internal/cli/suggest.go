package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/julianstephens/macroplan/internal/models"
)

// SuggestCmd prints the proportions table of a macro group: how much of each
// catalog item of the group's type would close the gap to its target.
type SuggestCmd struct {
	GroupArgs `embed:""`
}

func (c *SuggestCmd) Run(ctx *Context) error {
	s, err := ctx.OpenPlan(context.Background(), c.PlanID)
	if err != nil {
		return err
	}
	coords, err := c.coordinates(s)
	if err != nil {
		return err
	}

	table, err := ctx.Engine().ForMacroGroup(s.Plan(), coords)
	if err != nil {
		return err
	}

	if table.Baseline == nil {
		fmt.Fprintf(ctx.out(), "%s has no target, set one with 'macroplan baseline set'\n", coords)
	} else {
		fmt.Fprintf(ctx.out(), "Target: %g of %s = %s\n", table.Baseline.Qta, table.Baseline.FoodItem.Label(), formatKcal(table.BaselineCalories))
	}
	fmt.Fprintf(ctx.out(), "Current: %s, gap: %s\n", formatKcal(table.GroupCalories), formatKcal(table.Gap))
	if table.OverBudget {
		fmt.Fprintln(ctx.out(), "⚠ Over target, suggested quantities are negative")
	}

	t := newTable("Food", "ID", "Quantity", "Calories")
	for _, row := range table.Rows {
		t.Row(row.Item.Label(), row.Item.ID, formatQuantity(row.Qta, row.Item.Unit), strconv.Itoa(row.Calories))
	}
	fmt.Fprintln(ctx.out(), t.Render())
	return nil
}

func formatQuantity(qta int, unit models.Unit) string {
	if unit == models.UnitPieces {
		return fmt.Sprintf("%d pcs", qta)
	}
	return fmt.Sprintf("%d g", qta)
}

// FoodsCmd lists the food catalog.
type FoodsCmd struct {
	Type string `short:"t" help:"Only list items of one macro type (carbs, proteins, fats)."`
}

func (c *FoodsCmd) Run(ctx *Context) error {
	items := ctx.Catalog.Items()
	if c.Type != "" {
		mt, err := models.ParseMacroType(c.Type)
		if err != nil {
			return err
		}
		items = ctx.Catalog.ByMacroType(mt)
	}

	if len(items) == 0 {
		fmt.Fprintln(ctx.out(), "No food items found")
		return nil
	}

	t := newTable("ID", "Name", "Type", "Per", "Calories", "C", "P", "F")
	for _, item := range items {
		carbs, proteins, fats := "-", "-", "-"
		if item.Macro != nil {
			carbs = formatGrams(item.Macro.Carbs)
			proteins = formatGrams(item.Macro.Proteins)
			fats = formatGrams(item.Macro.Fats)
		}
		per := fmt.Sprintf("%g %s", item.Qta, item.Unit)
		t.Row(item.ID, item.Label(), string(item.Type), per, formatKcal(item.Calories), carbs, proteins, fats)
	}
	fmt.Fprintln(ctx.out(), t.Render())
	return nil
}
