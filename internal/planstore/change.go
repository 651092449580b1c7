package planstore

import "github.com/julianstephens/macroplan/internal/models"

type ChangeKind int

const (
	PlanCreated ChangeKind = iota
	PlanLoaded
	PlanSaved
	PlanRenamed
	MealCopied
	MealPasted
	ItemAdded
	ItemUpdated
	ItemRemoved
	BaselineSet
	BaselineCleared
)

var changeKindNames = map[ChangeKind]string{
	PlanCreated:     "plan_created",
	PlanLoaded:      "plan_loaded",
	PlanSaved:       "plan_saved",
	PlanRenamed:     "plan_renamed",
	MealCopied:      "meal_copied",
	MealPasted:      "meal_pasted",
	ItemAdded:       "item_added",
	ItemUpdated:     "item_updated",
	ItemRemoved:     "item_removed",
	BaselineSet:     "baseline_set",
	BaselineCleared: "baseline_cleared",
}

func (k ChangeKind) String() string {
	if name, ok := changeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Change describes one applied operation. Coordinates is zero for plan-level
// changes; meal-level changes leave MacroType empty.
type Change struct {
	Kind        ChangeKind
	PlanID      string
	Coordinates models.MacroGroupCoordinates
}
