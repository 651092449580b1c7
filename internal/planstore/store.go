package planstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/constants"
	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/storage"
)

var (
	ErrUnknownFoodItem = errors.New("unknown food item")
	ErrNoPlanLoaded    = errors.New("no plan loaded")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative number")
	ErrEmptyPlanName   = errors.New("plan name cannot be empty")
)

// Store owns the plan being edited, the copied-meal buffer and the cached
// plan summary list. Edits stay in memory until Save, except Create and
// Rename which write through to the repository.
//
// A Store is not safe for concurrent use.
type Store struct {
	repo    storage.Repository
	catalog *catalog.Index
	newID   func() string
	now     func() time.Time

	plan  *models.DietPlan
	dirty bool

	copied *models.MacroSet

	persisted []storage.PlanSummary
	summaries []storage.PlanSummary

	subscribers []subscription
	nextSub     int
}

type subscription struct {
	id int
	fn func(Change)
}

type Option func(*Store)

// WithIDGenerator replaces uuid.NewString for plan and week ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock replaces time.Now for plan creation timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

func New(repo storage.Repository, cat *catalog.Index, opts ...Option) *Store {
	s := &Store{
		repo:    repo,
		catalog: cat,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to be called after every change. Subscribers are
// called in registration order. The returned function removes the
// subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	id := s.nextSub
	s.nextSub++
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(kind ChangeKind, c models.MacroGroupCoordinates) {
	s.recomputeSummaries()

	change := Change{Kind: kind, Coordinates: c}
	if s.plan != nil {
		change.PlanID = s.plan.ID
	}
	logger.Debug("Plan changed", "kind", kind, "plan_id", change.PlanID, "coords", c)

	for _, sub := range s.subscribers {
		sub.fn(change)
	}
}

// Create builds the skeleton of a new plan, persists it and makes it the
// current plan. An empty name falls back to constants.DefaultPlanName.
func (s *Store) Create(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = constants.DefaultPlanName
	}

	plan := models.NewDietPlan(s.newID(), s.newID(), name, s.now())
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to create plan: %w", err)
	}

	s.plan = plan
	s.dirty = false
	if err := s.refreshPersisted(ctx); err != nil {
		return "", err
	}

	logger.Info("Created plan", "plan_id", plan.ID, "name", plan.Name)
	s.notify(PlanCreated, models.MacroGroupCoordinates{})
	return plan.ID, nil
}

// Load makes the stored plan current. A missing plan yields an error
// matching storage.ErrPlanNotFound; the current plan is kept in that case.
// The copied-meal buffer survives switching plans.
func (s *Store) Load(ctx context.Context, planID string) (*models.DietPlan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	s.plan = plan
	s.dirty = false
	if err := s.refreshPersisted(ctx); err != nil {
		return nil, err
	}

	s.notify(PlanLoaded, models.MacroGroupCoordinates{})
	return plan.Clone(), nil
}

// Save persists the whole current plan, overwriting the stored copy.
func (s *Store) Save(ctx context.Context) error {
	if s.plan == nil {
		return ErrNoPlanLoaded
	}

	if err := s.repo.SavePlan(ctx, s.plan); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	s.dirty = false
	if err := s.refreshPersisted(ctx); err != nil {
		return err
	}

	logger.Info("Saved plan", "plan_id", s.plan.ID)
	s.notify(PlanSaved, models.MacroGroupCoordinates{})
	return nil
}

// Rename renames a stored plan. When planID is the current plan its
// in-memory name changes too, without persisting its other pending edits.
func (s *Store) Rename(ctx context.Context, planID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyPlanName
	}

	stored, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	stored.Name = name
	if err := s.repo.SavePlan(ctx, stored); err != nil {
		return fmt.Errorf("failed to rename plan: %w", err)
	}

	if s.plan != nil && s.plan.ID == planID {
		s.plan.Name = name
	}
	if err := s.refreshPersisted(ctx); err != nil {
		return err
	}

	s.notify(PlanRenamed, models.MacroGroupCoordinates{})
	return nil
}

// CopyMeal snapshots the three macro groups of a meal into the buffer,
// replacing what it held.
func (s *Store) CopyMeal(c models.MealCoordinates) error {
	meal, err := s.meal(c)
	if err != nil {
		return err
	}

	copied := meal.Macro.Clone()
	s.copied = &copied

	s.notify(MealCopied, c.Group(""))
	return nil
}

// PasteMeal overwrites the meal's macro groups with the buffer and reports
// whether anything was pasted. The pasted meal becomes the new buffer
// content so pastes can be chained.
func (s *Store) PasteMeal(c models.MealCoordinates) (bool, error) {
	meal, err := s.meal(c)
	if err != nil {
		return false, err
	}
	if s.copied == nil {
		return false, nil
	}

	meal.Macro = s.copied.Clone()
	snapshot := meal.Macro.Clone()
	s.copied = &snapshot
	s.dirty = true

	s.notify(MealPasted, c.Group(""))
	return true, nil
}

// AddFoodItem appends an item to a macro group. The name is taken from the
// catalog; ids missing from the catalog are rejected.
func (s *Store) AddFoodItem(c models.MacroGroupCoordinates, itemID string, qta float64) error {
	group, err := s.group(c)
	if err != nil {
		return err
	}
	if err := validQuantity(qta); err != nil {
		return err
	}
	item, ok := s.catalog.ByID(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFoodItem, itemID)
	}

	group.Items = append(group.Items, models.GroupItem{
		ItemID: item.ID,
		Name:   item.Name,
		Qta:    qta,
	})
	s.dirty = true

	s.notify(ItemAdded, c)
	return nil
}

// UpdateFoodItem sets the quantity of every entry with itemID. Nothing
// happens when the group has no such entry.
func (s *Store) UpdateFoodItem(c models.MacroGroupCoordinates, itemID string, qta float64) error {
	group, err := s.group(c)
	if err != nil {
		return err
	}
	if err := validQuantity(qta); err != nil {
		return err
	}

	updated := false
	for i := range group.Items {
		if group.Items[i].ItemID == itemID {
			group.Items[i].Qta = qta
			updated = true
		}
	}
	if !updated {
		return nil
	}
	s.dirty = true

	s.notify(ItemUpdated, c)
	return nil
}

// RemoveFoodItem drops every entry with itemID. Removing an absent id is a no-op.
func (s *Store) RemoveFoodItem(c models.MacroGroupCoordinates, itemID string) error {
	group, err := s.group(c)
	if err != nil {
		return err
	}

	kept := make([]models.GroupItem, 0, len(group.Items))
	for _, item := range group.Items {
		if item.ItemID != itemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(group.Items) {
		return nil
	}
	group.Items = kept
	s.dirty = true

	s.notify(ItemRemoved, c)
	return nil
}

// SetBaseline replaces the group's baseline with a snapshot of the catalog
// item and a quantity.
func (s *Store) SetBaseline(c models.MacroGroupCoordinates, itemID string, qta float64) error {
	group, err := s.group(c)
	if err != nil {
		return err
	}
	if err := validQuantity(qta); err != nil {
		return err
	}
	item, ok := s.catalog.ByID(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFoodItem, itemID)
	}

	group.Baseline = &models.Baseline{FoodItem: item, Qta: qta}
	s.dirty = true

	s.notify(BaselineSet, c)
	return nil
}

// ClearBaseline removes the group's target.
func (s *Store) ClearBaseline(c models.MacroGroupCoordinates) error {
	group, err := s.group(c)
	if err != nil {
		return err
	}
	if group.Baseline == nil {
		return nil
	}
	group.Baseline = nil
	s.dirty = true

	s.notify(BaselineCleared, c)
	return nil
}

func (s *Store) meal(c models.MealCoordinates) (*models.Meal, error) {
	if s.plan == nil {
		return nil, ErrNoPlanLoaded
	}
	return s.plan.Meal(c)
}

func (s *Store) group(c models.MacroGroupCoordinates) (*models.MacroGroup, error) {
	if s.plan == nil {
		return nil, ErrNoPlanLoaded
	}
	return s.plan.MacroGroup(c)
}

func validQuantity(qta float64) error {
	if qta < 0 || math.IsNaN(qta) || math.IsInf(qta, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidQuantity, qta)
	}
	return nil
}
