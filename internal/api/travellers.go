package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gyaneshwarpardhi/tripplanner/internal/report"
	"github.com/gyaneshwarpardhi/tripplanner/internal/request"
	"github.com/gyaneshwarpardhi/tripplanner/internal/traveller"
)

// travellerBody is a plan request plus the name it is saved under.
type travellerBody struct {
	Username string `json:"username"`
	request.PlanRequest
}

// POST /v1/travellers: save a traveller's request without planning it.
func (h *Handler) addTraveller(w http.ResponseWriter, r *http.Request) {
	body, err := decodeTraveller(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.Validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.travellers.Add(r.Context(), traveller.New(body.Username, req))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func decodeTraveller(r *http.Request) (*travellerBody, error) {
	var body travellerBody
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %s", err)
		}
		pr, err := request.FromForm(r.PostForm.Get("start"), r.PostForm.Get("budget"), r.PostForm.Get("days"), r.PostForm.Get("preference"))
		if err != nil {
			return nil, err
		}
		body = travellerBody{Username: r.PostForm.Get("username"), PlanRequest: *pr}
	} else if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid JSON: %s", err)
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" {
		return nil, fmt.Errorf("%w: username is required", request.ErrInvalid)
	}
	return &body, nil
}

// GET /v1/travellers
func (h *Handler) listTravellers(w http.ResponseWriter, r *http.Request) {
	ts, err := h.travellers.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(ts),
		"travellers": ts,
	})
}

// GET /v1/travellers/{id}
func (h *Handler) getTraveller(w http.ResponseWriter, r *http.Request) {
	id, ok := travellerID(w, r)
	if !ok {
		return
	}
	t, err := h.travellers.Get(r.Context(), id)
	if err != nil {
		writeError(w, travellerStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DELETE /v1/travellers/{id}
func (h *Handler) deleteTraveller(w http.ResponseWriter, r *http.Request) {
	id, ok := travellerID(w, r)
	if !ok {
		return
	}
	if err := h.travellers.Delete(r.Context(), id); err != nil {
		writeError(w, travellerStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /v1/travellers/{id}/plan: plan the saved request and store the
// summary when a plan is found. An infeasible plan leaves the last result.
func (h *Handler) planTraveller(w http.ResponseWriter, r *http.Request) {
	id, ok := travellerID(w, r)
	if !ok {
		return
	}
	t, err := h.travellers.Get(r.Context(), id)
	if err != nil {
		writeError(w, travellerStatus(err), err.Error())
		return
	}

	pr := request.PlanRequest{}
	pr.Stamp(time.Now())
	res, err := h.eng.PlanSync(r.Context(), pr.ID, t.Request())
	if err != nil {
		writeError(w, planStatus(err), err.Error())
		return
	}
	plan, err := newPlanResponse(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if summary := report.Summary(res.Itinerary); summary != "" {
		if err := h.travellers.SaveResult(r.Context(), id, summary); err != nil {
			writeError(w, travellerStatus(err), err.Error())
			return
		}
		t.Result = summary
		slog.Info("traveller plan saved", "traveller_id", id, "plan_id", res.PlanID, "cost", res.Itinerary.TotalCost)
	}
	writeJSON(w, http.StatusOK, travellerPlanResponse{Traveller: t, Plan: plan})
}

func travellerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid traveller id %q", r.PathValue("id")))
		return 0, false
	}
	return id, true
}

func travellerStatus(err error) int {
	if errors.Is(err, traveller.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
