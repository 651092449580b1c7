package storage

import (
	"context"

	"github.com/julianstephens/macroplan/internal/models"
)

// Repository persists whole diet plans keyed by plan id.
type Repository interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Plans
	GetPlan(ctx context.Context, id string) (*models.DietPlan, error)
	SavePlan(ctx context.Context, plan *models.DietPlan) error
	ListPlans(ctx context.Context) ([]PlanSummary, error)

	// Utils
	GetConfigPath() string
}
