package api

import (
	"encoding/json"
	"net/http"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/report"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type planResponse struct {
	PlanID     string        `json:"plan_id"`
	Found      bool          `json:"found"`
	Path       []string      `json:"path"`
	Days       []report.Day  `json:"days"`
	TotalCost  int           `json:"total_cost"`
	Distance   float64       `json:"distance"` // straight-line map length of Path
	Message    string        `json:"message,omitempty"`
	Stats      planner.Stats `json:"stats"`
	DurationMs float64       `json:"duration_ms"`
}

type cityResponse struct {
	graph.City
	Routes []graph.Edge `json:"routes"`
}

type nearestCity struct {
	graph.City
	Distance float64 `json:"distance"`
}

type travellerPlanResponse struct {
	Traveller traveller.Traveller `json:"traveller"`
	Plan      planResponse        `json:"plan"`
}
