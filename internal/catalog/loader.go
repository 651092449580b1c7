package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/macroplan/internal/models"
)

//go:embed foods.json
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// tomlCatalog is the layout of a TOML catalog file: one [[food]] table per item.
type tomlCatalog struct {
	Food []models.FoodItem `toml:"food"`
}

// Default returns the built-in catalog, validated like a loaded file.
func Default() ([]models.FoodItem, error) {
	return parseBuiltin(defaultCatalog)
}

func parseBuiltin(data []byte) ([]models.FoodItem, error) {
	items, err := decodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in catalog: %w", err)
	}
	if err := Validate(items); err != nil {
		return nil, fmt.Errorf("invalid built-in catalog: %w", err)
	}
	return items, nil
}

// Load reads and validates a catalog file. The format follows the extension:
// .json holds an array of items, .toml holds [[food]] tables.
func Load(path string) ([]models.FoodItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var items []models.FoodItem
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		items, err = decodeJSON(data)
	case ".toml":
		items, err = decodeTOML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s (expected .json or .toml)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	if err := Validate(items); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeJSON(data []byte) ([]models.FoodItem, error) {
	var items []models.FoodItem
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func decodeTOML(data []byte) ([]models.FoodItem, error) {
	var doc tomlCatalog
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Food, nil
}

// Validate checks every item and reports the first problem found.
func Validate(items []models.FoodItem) error {
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidCatalog, i)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, item.ID)
		}
		seen[item.ID] = true

		if item.Name == "" {
			return fmt.Errorf("%w: %s: name is required", ErrInvalidCatalog, item.ID)
		}
		if item.Unit != models.UnitGrams && item.Unit != models.UnitPieces {
			return fmt.Errorf("%w: %s: unknown unit %q", ErrInvalidCatalog, item.ID, item.Unit)
		}
		if !knownMacroType(item.Type) {
			return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidCatalog, item.ID, item.Type)
		}
		if item.Qta <= 0 {
			return fmt.Errorf("%w: %s: qta must be positive", ErrInvalidCatalog, item.ID)
		}
		if item.Calories < 0 {
			return fmt.Errorf("%w: %s: calories must not be negative", ErrInvalidCatalog, item.ID)
		}
		if m := item.Macro; m != nil {
			if m.Carbs < 0 || m.Proteins < 0 || m.Fats < 0 || (m.Fibers != nil && *m.Fibers < 0) {
				return fmt.Errorf("%w: %s: macros must not be negative", ErrInvalidCatalog, item.ID)
			}
		}
	}
	return nil
}

func knownMacroType(t models.MacroType) bool {
	for _, mt := range models.MacroTypes {
		if t == mt {
			return true
		}
	}
	return false
}
