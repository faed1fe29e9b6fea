package store

import (
	"context"
	"errors"

	"routeopt/internal/model"
)

// ErrNotFound is returned when no result exists for a route ID.
var ErrNotFound = errors.New("route result not found")

// Store persists optimization results so clients can fetch them after the
// optimize call returns.
type Store interface {
	SaveResult(ctx context.Context, res model.OptimizationResult) error
	GetResult(ctx context.Context, routeID string) (model.OptimizationResult, error)
	ListResults(ctx context.Context, limit int) ([]model.OptimizationResult, error)
}
