package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/macroplan/internal/logger"
	"github.com/julianstephens/macroplan/internal/migration"
	"github.com/julianstephens/macroplan/internal/models"
	"github.com/julianstephens/macroplan/internal/storage"
	"github.com/julianstephens/macroplan/migrations"
)

var _ storage.Repository = (*Store)(nil)

// Store keeps one row per plan with the plan tree as a JSON blob.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init(ctx context.Context) error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runMigrations() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}

	runner := migration.NewRunner(s.db, subFS)
	return runner.ValidateVersion()
}

func (s *Store) GetPlan(ctx context.Context, id string) (*models.DietPlan, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM diet_plans WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.NotFound(id)
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var plan models.DietPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", id, err)
	}

	return &plan, nil
}

func (s *Store) SavePlan(ctx context.Context, plan *models.DietPlan) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}
	if err := storage.ValidatePlan(plan); err != nil {
		return err
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO diet_plans (id, name, created_at, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			created_at = excluded.created_at,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, plan.ID, plan.Name, plan.CreatedAt, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	return nil
}

func (s *Store) ListPlans(ctx context.Context) ([]storage.PlanSummary, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM diet_plans ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	summaries := []storage.PlanSummary{}
	for rows.Next() {
		var summary storage.PlanSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// DB exposes the underlying connection for backups.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) GetConfigPath() string {
	return s.path
}
