package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/macroplan/internal/constants"
	"github.com/julianstephens/macroplan/internal/models"
)

func NewPlanForm(fm *PlanFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(constants.DefaultPlanName).
				Value(&fm.Name),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewItemForm picks a catalog item of the group's macro type and a quantity.
// It is used both for adding items and for setting the baseline.
func NewItemForm(fm *ItemFormModel, title string, candidates []models.FoodItem) *huh.Form {
	options := make([]huh.Option[string], 0, len(candidates))
	for _, item := range candidates {
		label := fmt.Sprintf("%s (%g %s, %.0f kcal)", item.Label(), item.Qta, item.Unit, item.Calories)
		options = append(options, huh.NewOption(label, item.ID))
	}
	units := make(map[string]models.Unit, len(candidates))
	for _, item := range candidates {
		units[item.ID] = item.Unit
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&fm.ItemID),
			huh.NewInput().
				Title("Quantity").
				DescriptionFunc(func() string { return qtaHint(units[fm.ItemID]) }, &fm.ItemID).
				Value(&fm.Qta).
				Validate(func(s string) error {
					_, err := parseQta(s, units[fm.ItemID])
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func NewQtaForm(fm *ItemFormModel, item models.GroupItem, unit models.Unit) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Quantity of %s", item.Name)).
				Description(qtaHint(unit)).
				Value(&fm.Qta).
				Validate(func(s string) error {
					_, err := parseQta(s, unit)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func qtaHint(unit models.Unit) string {
	if unit == models.UnitPieces {
		return fmt.Sprintf("pieces, step %d, up to %d", constants.PieceQtaStep, constants.PieceQtaMax)
	}
	return fmt.Sprintf("grams, step %d, up to %d", constants.GramQtaStep, constants.GramQtaMax)
}

func parseQta(s string, unit models.Unit) (float64, error) {
	qta, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("quantity must be a number")
	}
	limit := float64(constants.GramQtaMax)
	if unit == models.UnitPieces {
		limit = constants.PieceQtaMax
	}
	if math.IsNaN(qta) || qta < 0 || qta > limit {
		return 0, fmt.Errorf("quantity must be between 0 and %g", limit)
	}
	return qta, nil
}
