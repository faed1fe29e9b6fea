package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"routeopt/internal/matrix"
	"routeopt/internal/metrics"
	"routeopt/internal/model"
	"routeopt/internal/opt"
	"routeopt/internal/providers"
	"routeopt/internal/route"
)

// Planner runs the whole optimize pipeline: validate, look up conditions,
// build the cost matrix, solve, assemble and price the route.
type Planner struct {
	Traffic providers.TrafficProvider
	Weather providers.WeatherProvider
	Specs   route.SpecLookup
	Pricing route.Pricing
	Matrix  matrix.Builder

	// TimeBudget is the default solver budget when the request carries none.
	TimeBudget time.Duration

	// Progress, when set, receives solver improvements for live streaming.
	Progress func(routeID string, iteration int, bestCost int64)
}

// Optimize produces a complete result for one request. Validation failures
// come back as *ValidationError; any other error means no result exists.
func (p *Planner) Optimize(ctx context.Context, routeID string, req model.OptimizeRequest) (model.OptimizationResult, error) {
	stops, err := validate(req)
	if err != nil {
		return model.OptimizationResult{}, err
	}

	traffic := p.lookupTraffic(ctx, req.Origin, stops[0].Point())
	weather := p.lookupWeather(ctx, req.Origin)
	m := p.Matrix.Build(req.Origin, stops, traffic, weather)

	solveReq := opt.Request{
		OptimizeFor: model.OptimizeForTime,
		TimeBudget:  p.TimeBudget,
	}
	if req.Preferences != nil && req.Preferences.OptimizeFor != "" {
		solveReq.OptimizeFor = req.Preferences.OptimizeFor
	}
	if req.Constraints != nil {
		solveReq.MaxCapacity = req.Constraints.MaxCapacity
		solveReq.MaxDurationMinutes = req.Constraints.MaxDurationMinutes
	}
	if req.TimeBudgetMs > 0 {
		solveReq.TimeBudget = time.Duration(req.TimeBudgetMs) * time.Millisecond
	}

	stats := opt.SolveStats{Construction: "cheapest_insertion"}
	solver := &opt.SearchSolver{Progress: func(iter int, best int64) {
		stats.Iterations = iter
		stats.Improvements++
		if p.Progress != nil {
			p.Progress(routeID, iter, best)
		}
	}}

	started := time.Now()
	quality := model.QualityOptimal
	sol, err := solver.Solve(m, solveReq)
	if err != nil {
		if !errors.Is(err, opt.ErrNonConvergent) {
			return model.OptimizationResult{}, fmt.Errorf("solve route %s: %w", routeID, err)
		}
		// Constraints or the budget defeated the search; hand the raw
		// geometry to the fallback and flag the result.
		log.Printf("planner: route=%s search non-convergent, using fallback", routeID)
		quality = model.QualityFallback
		stats.Construction = "nearest_neighbor"
		sol, err = opt.NearestNeighbor{}.Solve(m, solveReq)
		if err != nil {
			return model.OptimizationResult{}, fmt.Errorf("fallback route %s: %w", routeID, err)
		}
	}
	elapsed := time.Since(started)
	metrics.SolverDuration.Observe(elapsed.Seconds())

	stats.BestCost = sol.Cost
	stats.Converged = sol.Converged
	stats.ElapsedMs = elapsed.Milliseconds()
	opt.RecordStats(routeID, stats)

	rt, err := route.Assemble(sol.Sequence, m, req.Origin, stops)
	if err != nil {
		return model.OptimizationResult{}, fmt.Errorf("assemble route %s: %w", routeID, err)
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = route.DefaultVehicleType
	}
	spec, _ := p.Specs(vehicleType)
	rm := route.ComputeMetrics(rt, spec, p.Pricing, quality, traffic, weather)
	metrics.Optimizations.WithLabelValues(quality).Inc()

	return model.OptimizationResult{
		RouteID:        routeID,
		OptimizedRoute: rt,
		Metrics:        rm,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// lookupTraffic degrades to 1.0 on any provider failure. A route with
// unadjusted times beats no route.
func (p *Planner) lookupTraffic(ctx context.Context, from, to model.GeoPoint) float64 {
	if p.Traffic == nil {
		return 1.0
	}
	mult, err := p.Traffic.Multiplier(ctx, from, to)
	if err != nil {
		log.Printf("planner: traffic lookup degraded: %v", err)
		metrics.CollaboratorFailures.WithLabelValues("traffic").Inc()
		return 1.0
	}
	return mult
}

func (p *Planner) lookupWeather(ctx context.Context, at model.GeoPoint) float64 {
	if p.Weather == nil {
		return 1.0
	}
	mult, err := p.Weather.Multiplier(ctx, at)
	if err != nil {
		log.Printf("planner: weather lookup degraded: %v", err)
		metrics.CollaboratorFailures.WithLabelValues("weather").Inc()
		return 1.0
	}
	return mult
}

// validate checks the request and returns a defensive copy of the
// destinations with priorities defaulted.
func validate(req model.OptimizeRequest) ([]model.Stop, error) {
	if !req.Origin.Valid() {
		return nil, &ValidationError{Field: "origin", Reason: "coordinates out of range"}
	}
	if len(req.Destinations) == 0 {
		return nil, &ValidationError{Field: "destinations", Reason: "at least one destination required"}
	}
	stops := make([]model.Stop, len(req.Destinations))
	copy(stops, req.Destinations)
	for i := range stops {
		if !stops[i].Point().Valid() {
			return nil, &ValidationError{Field: fmt.Sprintf("destinations[%d]", i), Reason: "coordinates out of range"}
		}
		if stops[i].Priority == 0 {
			stops[i].Priority = 1
		}
	}
	if c := req.Constraints; c != nil {
		if c.MaxCapacity < 0 {
			return nil, &ValidationError{Field: "constraints.max_capacity", Reason: "must not be negative"}
		}
		if c.MaxDurationMinutes < 0 {
			return nil, &ValidationError{Field: "constraints.max_duration_minutes", Reason: "must not be negative"}
		}
	}
	if pr := req.Preferences; pr != nil {
		switch pr.OptimizeFor {
		case "", model.OptimizeForTime, model.OptimizeForDistance:
		default:
			return nil, &ValidationError{Field: "preferences.optimize_for", Reason: `must be "time" or "distance"`}
		}
	}
	if req.TimeBudgetMs < 0 {
		return nil, &ValidationError{Field: "time_budget_ms", Reason: "must not be negative"}
	}
	return stops, nil
}
