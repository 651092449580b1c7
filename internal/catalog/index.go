package catalog

import "github.com/julianstephens/macroplan/internal/models"

// Index is the read-only lookup over a food catalog, built once at startup.
// Lookups by unknown id report absence; nothing mutates the index after
// BuildIndex returns.
type Index struct {
	items  []models.FoodItem
	byID   map[string]int
	byType map[models.MacroType][]int
}

// BuildIndex indexes items by id and by macro type. Items are expected to be
// validated; on a duplicate id the last occurrence wins the id lookup.
func BuildIndex(items []models.FoodItem) *Index {
	idx := &Index{
		items:  make([]models.FoodItem, len(items)),
		byID:   make(map[string]int, len(items)),
		byType: make(map[models.MacroType][]int, len(models.MacroTypes)),
	}
	for i, item := range items {
		idx.items[i] = item.Clone()
		idx.byID[item.ID] = i
		idx.byType[item.Type] = append(idx.byType[item.Type], i)
	}
	return idx
}

// ByID returns a copy of the item with the given id.
func (idx *Index) ByID(id string) (models.FoodItem, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return models.FoodItem{}, false
	}
	return idx.items[i].Clone(), true
}

// Has reports whether id is in the catalog.
func (idx *Index) Has(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// ByMacroType returns the items of a macro type in source order.
func (idx *Index) ByMacroType(t models.MacroType) []models.FoodItem {
	positions := idx.byType[t]
	out := make([]models.FoodItem, 0, len(positions))
	for _, i := range positions {
		out = append(out, idx.items[i].Clone())
	}
	return out
}

// Items returns every item in source order.
func (idx *Index) Items() []models.FoodItem {
	out := make([]models.FoodItem, len(idx.items))
	for i, item := range idx.items {
		out[i] = item.Clone()
	}
	return out
}

func (idx *Index) Len() int {
	return len(idx.items)
}
