package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/julianstephens/macroplan/internal/migration"
	"github.com/julianstephens/macroplan/internal/storage"
	"github.com/julianstephens/macroplan/internal/storage/sqlite"
	"github.com/julianstephens/macroplan/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	w := ctx.out()
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	hasError := false
	check := func(name string, err error) bool {
		if err != nil {
			fmt.Fprintf(w, "❌ %s: FAIL\n", name)
			fmt.Fprintf(w, "   Error: %v\n", err)
			hasError = true
			return false
		}
		fmt.Fprintf(w, "✓ %s: OK\n", name)
		return true
	}

	reachable := check("Database reachable", checkDBReachable(ctx))
	check("Schema version", checkSchemaVersion(ctx))

	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Fprintf(w, "⚠ Backups present: WARNING\n")
		fmt.Fprintf(w, "   %v\n", err)
	} else {
		fmt.Fprintf(w, "✓ Backups present: OK\n")
	}

	if reachable {
		check("Data validation", checkPlans(ctx))
	} else {
		fmt.Fprintf(w, "⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	fmt.Fprintln(w)
	if hasError {
		fmt.Fprintln(w, "Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	fmt.Fprintln(w, "All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.DB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

// checkSchemaVersion compares the SQLite schema with the embedded migrations.
// Other stores have no schema to check here.
func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok || sqliteStore.DB() == nil {
		return nil
	}

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner := migration.NewRunner(sqliteStore.DB(), sub)

	currentVersion, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return errBackupUnsupported
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'macroplan backup create'")
	}
	return nil
}

// checkPlans loads every plan and checks its shape. Unresolved food items
// are reported but do not fail the check.
func checkPlans(ctx *Context) error {
	bg := context.Background()
	summaries, err := ctx.Store.ListPlans(bg)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	agg := ctx.Aggregator()
	for _, summary := range summaries {
		plan, err := ctx.Store.GetPlan(bg, summary.ID)
		if err != nil {
			return fmt.Errorf("failed to read plan %s: %w", summary.ID, err)
		}
		if err := storage.ValidateTree(plan); err != nil {
			return fmt.Errorf("plan %s: %w", summary.ID, err)
		}
		if refs := agg.UnresolvedReferences(plan); len(refs) > 0 {
			fmt.Fprintf(ctx.out(), "   Note: plan %s has %d unresolved food item(s), see 'macroplan plan check %s'\n",
				summary.ID, len(refs), summary.ID)
		}
	}
	return nil
}
