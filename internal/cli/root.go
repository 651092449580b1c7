package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/macroplan/internal/backup"
	"github.com/julianstephens/macroplan/internal/catalog"
	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/nutrition"
	"github.com/julianstephens/macroplan/internal/planstore"
	"github.com/julianstephens/macroplan/internal/storage"
	"github.com/julianstephens/macroplan/internal/storage/sqlite"
	"github.com/julianstephens/macroplan/internal/suggest"
)

type Context struct {
	Store   storage.Repository
	Catalog *catalog.Index

	// BackupKeep is the retention of automatic backups; zero means the default.
	BackupKeep int
	AutoBackup bool

	Out io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Aggregator() *nutrition.Aggregator {
	return nutrition.NewAggregator(c.Catalog)
}

func (c *Context) Engine() *suggest.Engine {
	return suggest.NewEngine(c.Catalog, c.Aggregator())
}

// OpenPlan returns a plan store with planID loaded.
func (c *Context) OpenPlan(ctx context.Context, planID string) (*planstore.Store, error) {
	s := planstore.New(c.Store, c.Catalog)
	if _, err := s.Load(ctx, planID); err != nil {
		return nil, err
	}
	return s, nil
}

// SavePlan backs up the database and persists the store's current plan.
func (c *Context) SavePlan(ctx context.Context, s *planstore.Store) error {
	if c.AutoBackup {
		c.PerformAutomaticBackup()
	}
	return s.Save(ctx)
}

// BackupManager returns the backup manager of a SQLite store, or nil for
// stores that are not SQLite files.
func (c *Context) BackupManager() *backup.Manager {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil
	}
	var opts []backup.Option
	if c.BackupKeep > 0 {
		opts = append(opts, backup.WithRetention(c.BackupKeep))
	}
	return backup.NewManager(c.Store.GetConfigPath(), opts...)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// resolveWeek defaults to the plan's first week.
func resolveWeek(s *planstore.Store, weekID string) (string, error) {
	weeks, err := s.WeekIDs()
	if err != nil {
		return "", err
	}
	if weekID == "" {
		if len(weeks) == 0 {
			return "", fmt.Errorf("plan %s has no weeks", s.CurrentPlanID())
		}
		return weeks[0], nil
	}
	for _, w := range weeks {
		if w == weekID {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: week %q", models.ErrInvalidCoordinate, weekID)
}

// GroupArgs are the positional arguments that address one macro group.
type GroupArgs struct {
	PlanID string `arg:"" name:"plan" help:"Plan ID."`
	Day    string `arg:"" help:"Day (monday..sunday or mon..sun)."`
	Meal   string `arg:"" help:"Meal (breakfast, lunch, dinner, snack)."`
	Macro  string `arg:"" help:"Macro group (carbs, proteins, fats)."`
	Week   string `help:"Week ID. Defaults to the plan's first week."`
}

func (a GroupArgs) coordinates(s *planstore.Store) (models.MacroGroupCoordinates, error) {
	mc, err := mealCoordinates(s, a.Week, a.Day, a.Meal)
	if err != nil {
		return models.MacroGroupCoordinates{}, err
	}
	macro, err := models.ParseMacroType(a.Macro)
	if err != nil {
		return models.MacroGroupCoordinates{}, err
	}
	return mc.Group(macro), nil
}

func mealCoordinates(s *planstore.Store, week, day, meal string) (models.MealCoordinates, error) {
	weekID, err := resolveWeek(s, week)
	if err != nil {
		return models.MealCoordinates{}, err
	}
	d, err := models.ParseDay(day)
	if err != nil {
		return models.MealCoordinates{}, err
	}
	m, err := models.ParseMealType(meal)
	if err != nil {
		return models.MealCoordinates{}, err
	}
	return models.MealCoordinates{WeekID: weekID, Day: d, MealType: m}, nil
}

// parseMealTarget parses DAY/MEAL, e.g. "tue/lunch".
func parseMealTarget(s *planstore.Store, week, target string) (models.MealCoordinates, error) {
	day, meal, ok := strings.Cut(target, "/")
	if !ok {
		return models.MealCoordinates{}, fmt.Errorf("invalid meal target %q, expected DAY/MEAL", target)
	}
	return mealCoordinates(s, week, day, meal)
}

// NeedsStore reports whether the selected kong command reads the plan
// repository, so the caller knows to load it first.
func NeedsStore(command string) bool {
	for _, prefix := range []string{"init", "keyring", "foods", "inspect db-path"} {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

func formatKcal(v float64) string {
	return fmt.Sprintf("%.0f kcal", v)
}

func formatGrams(v float64) string {
	return fmt.Sprintf("%.1f g", v)
}
