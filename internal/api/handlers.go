package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"routeopt/internal/buildinfo"
	"routeopt/internal/metrics"
	"routeopt/internal/model"
	"routeopt/internal/opt"
	"routeopt/internal/planner"
	"routeopt/internal/store"
)

// OptimizeHandler handles POST /v1/optimize.
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(405)
		return
	}
	if !s.limiter.Allow() {
		writeProblem(w, 429, "Too Many Requests", "rate limit exceeded", r.URL.Path)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, 400, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}

	routeID := strings.TrimSpace(req.RouteID)
	if routeID == "" {
		routeID = uuid.New().String()
	} else if !validRouteID(routeID) {
		writeProblem(w, 400, "Invalid Request", "route_id must be 1-64 characters of letters, digits, '-' or '_'", r.URL.Path)
		return
	}
	res, err := s.Planner.Optimize(r.Context(), routeID, req)
	if err != nil {
		var verr *planner.ValidationError
		if errors.As(err, &verr) {
			writeProblem(w, 400, "Invalid Request", verr.Error(), r.URL.Path)
			return
		}
		writeProblem(w, 500, "Optimization Failed", err.Error(), r.URL.Path)
		return
	}
	// Terminal progress event so stream subscribers can disconnect.
	if st, ok := opt.GetStats(routeID); ok {
		s.Broker.Publish(routeID, ProgressEvent{Iteration: st.Iterations, BestCost: st.BestCost, Done: true})
	} else {
		s.Broker.Publish(routeID, ProgressEvent{Done: true})
	}
	if err := s.Store.SaveResult(r.Context(), res); err != nil {
		// The caller still gets their route; only later GETs are affected.
		log.Printf("api: save result %s failed: %v", routeID, err)
	}
	writeJSON(w, 200, res)
}

// validRouteID keeps caller-named routes safe for URL paths and broker
// channel names.
func validRouteID(id string) bool {
	if len(id) > 64 {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// RoutesIndexHandler handles GET /v1/routes.
func (s *Server) RoutesIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(405)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeProblem(w, 400, "Invalid Request", "limit must be a positive integer", r.URL.Path)
			return
		}
		limit = n
	}
	results, err := s.Store.ListResults(r.Context(), limit)
	if err != nil {
		writeProblem(w, 500, "List routes failed", err.Error(), r.URL.Path)
		return
	}
	if results == nil {
		results = []model.OptimizationResult{}
	}
	writeJSON(w, 200, map[string]any{"routes": results})
}

// RouteByIDHandler handles /v1/routes/{id}, /v1/routes/{id}/progress and
// /v1/routes/{id}/solver-stats.
func (s *Server) RouteByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/routes/")
	if rest == "" || rest == r.URL.Path {
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}
	routeID, sub, _ := strings.Cut(rest, "/")

	switch sub {
	case "progress":
		s.ProgressStreamHandler(w, r, routeID)
		return
	case "solver-stats":
		if r.Method != http.MethodGet {
			w.WriteHeader(405)
			return
		}
		st, ok := opt.GetStats(routeID)
		if !ok {
			writeProblem(w, 404, "Not Found", "no solver stats for route", r.URL.Path)
			return
		}
		writeJSON(w, 200, st)
		return
	case "":
	default:
		writeProblem(w, 404, "Not Found", "", r.URL.Path)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(405)
		return
	}
	res, err := s.Store.GetResult(r.Context(), routeID)
	if errors.Is(err, store.ErrNotFound) {
		writeProblem(w, 404, "Not Found", "no result for route", r.URL.Path)
		return
	}
	if err != nil {
		writeProblem(w, 500, "Get route failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, 200, res)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	for k, v := range buildinfo.Info() {
		body[k] = v
	}
	writeJSON(w, 200, body)
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, 200, map[string]string{"status": "ready"})
}

// MetricsHandler exposes the dedicated Prometheus registry.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
}
