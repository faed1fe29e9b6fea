package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"routeopt/internal/model"
)

// Postgres persists results as JSONB rows keyed by route ID.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Ping reports database connectivity for readiness checks.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Migrate creates the results table if it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS route_results (
            id         text PRIMARY KEY,
            payload    jsonb NOT NULL,
            created_at timestamptz NOT NULL
        )`)
	if err != nil {
		return fmt.Errorf("migrate route_results: %w", err)
	}
	return nil
}

func (p *Postgres) SaveResult(ctx context.Context, res model.OptimizationResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", res.RouteID, err)
	}
	_, err = p.db.ExecContext(ctx, `
        INSERT INTO route_results (id, payload, created_at) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, created_at = EXCLUDED.created_at`,
		res.RouteID, payload, res.CreatedAt)
	return err
}

func (p *Postgres) GetResult(ctx context.Context, routeID string) (model.OptimizationResult, error) {
	var payload []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM route_results WHERE id = $1`, routeID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.OptimizationResult{}, ErrNotFound
	}
	if err != nil {
		return model.OptimizationResult{}, err
	}
	var res model.OptimizationResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return model.OptimizationResult{}, fmt.Errorf("decode result %s: %w", routeID, err)
	}
	return res, nil
}

func (p *Postgres) ListResults(ctx context.Context, limit int) ([]model.OptimizationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `SELECT payload FROM route_results ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.OptimizationResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var res model.OptimizationResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
