package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/tripplanner/internal/catalog"
	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/engine"
	"github.com/gyaneshwarpardhi/tripplanner/internal/geo"
	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/metrics"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
	"github.com/gyaneshwarpardhi/tripplanner/internal/report"
	"github.com/gyaneshwarpardhi/tripplanner/internal/request"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

const maxNearest = 20

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng        *engine.Engine
	catalogs   *catalog.Manager
	loader     *config.Loader
	travellers traveller.Store
	mux        *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, catalogs *catalog.Manager, loader *config.Loader, travellers traveller.Store) http.Handler {
	h := &Handler{eng: eng, catalogs: catalogs, loader: loader, travellers: travellers, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/plans", h.createPlan)
	h.mux.HandleFunc("GET /v1/cities", h.listCities)
	h.mux.HandleFunc("GET /v1/cities/nearest", h.nearestCities)
	h.mux.HandleFunc("GET /v1/cities/{name}", h.getCity)
	h.mux.HandleFunc("GET /v1/map", h.mapData)
	h.mux.HandleFunc("POST /v1/catalog/reload", h.reloadCatalog)
	h.mux.HandleFunc("POST /v1/travellers", h.addTraveller)
	h.mux.HandleFunc("GET /v1/travellers", h.listTravellers)
	h.mux.HandleFunc("GET /v1/travellers/{id}", h.getTraveller)
	h.mux.HandleFunc("DELETE /v1/travellers/{id}", h.deleteTraveller)
	h.mux.HandleFunc("POST /v1/travellers/{id}/plan", h.planTraveller)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /v1/plans: synchronous plan. Accepts JSON or a url-encoded form.
func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	pr, err := decodePlanRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pr.Stamp(time.Now())

	req, err := pr.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.eng.PlanSync(r.Context(), pr.ID, req)
	if err != nil {
		writeError(w, planStatus(err), err.Error())
		return
	}

	resp, err := newPlanResponse(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func newPlanResponse(res *engine.Result) (planResponse, error) {
	it := res.Itinerary
	resp := planResponse{
		PlanID:     res.PlanID,
		Found:      it.Found(),
		Path:       it.Path,
		Days:       []report.Day{},
		TotalCost:  it.TotalCost,
		Stats:      it.Stats,
		DurationMs: float64(res.Duration.Microseconds()) / 1000,
	}
	if !resp.Found {
		resp.Message = report.NoPlanMessage
		return resp, nil
	}
	var err error
	if resp.Days, err = report.Days(res.Store, it.Path); err != nil {
		return planResponse{}, err
	}
	if resp.Distance, err = geo.RouteLength(res.Store, it.Path); err != nil {
		return planResponse{}, err
	}
	return resp, nil
}

func decodePlanRequest(r *http.Request) (*request.PlanRequest, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %s", err)
		}
		return request.FromForm(r.PostForm.Get("start"), r.PostForm.Get("budget"), r.PostForm.Get("days"), r.PostForm.Get("preference"))
	}
	var pr request.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("invalid JSON: %s", err)
	}
	return &pr, nil
}

// planStatus maps a PlanSync error onto an HTTP status.
func planStatus(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, graph.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// GET /v1/cities: list cities of the active catalog.
func (h *Handler) listCities(w http.ResponseWriter, r *http.Request) {
	g := h.catalogs.Current().Graph
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  g.CityCount(),
		"routes": g.EdgeCount(),
		"cities": g.Cities(),
	})
}

// GET /v1/cities/{name}
func (h *Handler) getCity(w http.ResponseWriter, r *http.Request) {
	g := h.catalogs.Current().Graph
	name := r.PathValue("name")
	c, err := g.City(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	out, err := g.OutgoingEdges(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []graph.Edge{}
	}
	writeJSON(w, http.StatusOK, cityResponse{City: c, Routes: out})
}

// GET /v1/cities/nearest?x=&y=&k=
func (h *Handler) nearestCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}
	k := 1
	if s := q.Get("k"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxNearest {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("k must be between 1 and %d", maxNearest))
			return
		}
		k = n
	}

	cities := h.catalogs.Current().Index.NearestK(x, y, k)
	out := make([]nearestCity, 0, len(cities))
	for _, c := range cities {
		out = append(out, nearestCity{City: c, Distance: math.Hypot(c.X-x, c.Y-y)})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cities": out})
}

// GET /v1/map?path=A,B,C: GeoJSON of the catalog and an optional itinerary.
func (h *Handler) mapData(w http.ResponseWriter, r *http.Request) {
	var path []string
	if s := strings.TrimSpace(r.URL.Query().Get("path")); s != "" {
		for _, name := range strings.Split(s, ",") {
			path = append(path, strings.TrimSpace(name))
		}
	}
	fc, err := geo.MapFeatures(h.catalogs.Current().Graph, path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, graph.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// POST /v1/catalog/reload: re-read the catalog file and swap it in.
func (h *Handler) reloadCatalog(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Refresh()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.catalogs.Apply(r.Context(), cfg); err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, catalog.ErrDriverChange) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	g := h.catalogs.Current().Graph
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"driver":   h.catalogs.Current().Driver,
		"cities":   g.CityCount(),
		"routes":   g.EdgeCount(),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if plan queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
