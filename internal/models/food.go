package models

import (
	"fmt"
	"strings"
)

// MacroType is the primary macro-nutrient classification of a food item and
// the key of a macro group inside a meal.
type MacroType string

const (
	MacroCarbs    MacroType = "carbs"
	MacroProteins MacroType = "proteins"
	MacroFats     MacroType = "fats"
)

// MacroTypes lists the macro types in display order.
var MacroTypes = []MacroType{MacroCarbs, MacroProteins, MacroFats}

// Unit is the measuring unit of a food item's reference quantity.
type Unit string

const (
	UnitGrams  Unit = "grams"
	UnitPieces Unit = "pieces"
)

// Macros holds grams of each macro-nutrient for a food item's reference quantity.
type Macros struct {
	Carbs    float64  `json:"carbs" toml:"carbs"`
	Proteins float64  `json:"proteins" toml:"proteins"`
	Fats     float64  `json:"fats" toml:"fats"`
	Fibers   *float64 `json:"fibers,omitempty" toml:"fibers,omitempty"`
}

// Get returns the grams for one macro dimension.
func (m Macros) Get(t MacroType) float64 {
	switch t {
	case MacroCarbs:
		return m.Carbs
	case MacroProteins:
		return m.Proteins
	case MacroFats:
		return m.Fats
	}
	return 0
}

// FoodItem is an immutable catalog record. Calories and macros are given for
// Qta units; scaling to q units is (value / Qta) * q.
type FoodItem struct {
	ID       string    `json:"id" toml:"id"`
	Name     string    `json:"name" toml:"name"`
	Brand    string    `json:"brand,omitempty" toml:"brand,omitempty"`
	Unit     Unit      `json:"unit" toml:"unit"`
	Qta      float64   `json:"qta" toml:"qta"`
	Calories float64   `json:"calories" toml:"calories"`
	Type     MacroType `json:"type" toml:"type"`
	Macro    *Macros   `json:"macro,omitempty" toml:"macro,omitempty"`
}

// Label is the display name, with the brand in parentheses when present.
func (f FoodItem) Label() string {
	if f.Brand != "" {
		return fmt.Sprintf("%s (%s)", f.Name, f.Brand)
	}
	return f.Name
}

// Clone returns a copy of the item that shares no pointers with f.
func (f FoodItem) Clone() FoodItem {
	c := f
	if f.Macro != nil {
		m := *f.Macro
		if f.Macro.Fibers != nil {
			fibers := *f.Macro.Fibers
			m.Fibers = &fibers
		}
		c.Macro = &m
	}
	return c
}

// ParseMacroType parses a macro type name, case-insensitively.
func ParseMacroType(s string) (MacroType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "carbs", "carb", "c":
		return MacroCarbs, nil
	case "proteins", "protein", "p":
		return MacroProteins, nil
	case "fats", "fat", "f":
		return MacroFats, nil
	}
	return "", fmt.Errorf("invalid macro type: %s", s)
}

// ParseUnit parses a unit name, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grams", "gram", "g":
		return UnitGrams, nil
	case "pieces", "piece", "pcs", "pc":
		return UnitPieces, nil
	}
	return "", fmt.Errorf("invalid unit: %s", s)
}
