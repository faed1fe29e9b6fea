// Package main runs a demo client: it opens the progress stream for a
// self-named route, then submits the optimize request and watches the
// solver work until the terminal event arrives.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type progressEvent struct {
	Iteration int   `json:"iteration"`
	BestCost  int64 `json:"best_cost"`
	Done      bool  `json:"done"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)
	routeID := uuid.New().String()

	// Subscribe before submitting so no event is missed.
	u := url.URL{Scheme: "ws", Host: fmt.Sprintf("localhost:%s", port),
		Path: "/v1/routes/" + routeID + "/progress"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial %s: %v", u.String(), err)
	}
	defer func() { _ = conn.Close() }()

	body := []byte(fmt.Sprintf(`{
        "route_id": %q,
        "origin": {"lat": 40.7128, "lng": -74.0060},
        "destinations": [
            {"stop_id": "midtown", "lat": 40.7589, "lng": -73.9851},
            {"stop_id": "statue", "lat": 40.6892, "lng": -74.0445},
            {"stop_id": "brooklyn", "lat": 40.6782, "lng": -73.9442}
        ],
        "vehicle_type": "diesel_truck",
        "time_budget_ms": 2000
    }`, routeID))

	go func() {
		req, _ := http.NewRequest(http.MethodPost, base+"/v1/optimize", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = resp.Body.Close() }()
		var result struct {
			RouteID string `json:"route_id"`
			Metrics struct {
				TotalDistanceKM     float64 `json:"total_distance_km"`
				EstimatedCostUSD    float64 `json:"estimated_cost_usd"`
				OptimizationQuality string  `json:"optimization_quality"`
			} `json:"metrics"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("route %s: %.2f km, $%.2f (%s)\n",
			result.RouteID, result.Metrics.TotalDistanceKM,
			result.Metrics.EstimatedCostUSD, result.Metrics.OptimizationQuality)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	for {
		var evt progressEvent
		if err := conn.ReadJSON(&evt); err != nil {
			log.Printf("stream closed: %v", err)
			return
		}
		fmt.Printf("iteration=%d best_cost=%d done=%v\n", evt.Iteration, evt.BestCost, evt.Done)
		if evt.Done {
			return
		}
	}
}
