package api

import (
	"encoding/json"
	"net/http"
)

// Problem is an RFC7807 problem details body. The Type URN identifies where
// in the optimize pipeline the request failed.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     problemType(status),
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "urn:routeopt:problem:invalid-request"
	case http.StatusNotFound:
		return "urn:routeopt:problem:not-found"
	case http.StatusTooManyRequests:
		return "urn:routeopt:problem:rate-limited"
	case http.StatusServiceUnavailable:
		return "urn:routeopt:problem:not-ready"
	default:
		return "urn:routeopt:problem:internal"
	}
}
