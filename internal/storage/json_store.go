package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/macroplan/internal/models"
)

// Collection is the on-disk layout of a JSONStore: every plan in one map.
type Collection struct {
	Version int                         `json:"version"`
	Plans   map[string]*models.DietPlan `json:"plans"`
}

// JSONStore keeps the whole plan collection in a single JSON file.
type JSONStore struct {
	path  string
	store *Collection
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init(ctx context.Context) error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load(ctx)
	}

	s.store = &Collection{
		Version: 1,
		Plans:   make(map[string]*models.DietPlan),
	}

	return s.save()
}

func (s *JSONStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Collection{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Plans == nil {
		s.store.Plans = make(map[string]*models.DietPlan)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temporary file in the same directory and renames it over
// the store so a failed write never leaves a truncated file behind.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetPlan(ctx context.Context, id string) (*models.DietPlan, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}

	plan, ok := s.store.Plans[id]
	if !ok || plan == nil {
		return nil, NotFound(id)
	}

	return plan.Clone(), nil
}

func (s *JSONStore) SavePlan(ctx context.Context, plan *models.DietPlan) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if err := ValidatePlan(plan); err != nil {
		return err
	}

	s.store.Plans[plan.ID] = plan.Clone()
	return s.save()
}

func (s *JSONStore) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}

	summaries := make([]PlanSummary, 0, len(s.store.Plans))
	for _, plan := range s.store.Plans {
		if plan == nil {
			continue
		}
		summaries = append(summaries, plan.Summary())
	}
	SortSummaries(summaries)

	return summaries, nil
}

// GetConfigPath returns the path of the JSON file.
//
// The store is not safe for concurrent use, and two processes sharing the same
// file overwrite each other's changes.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
