// Package request holds the canonical input model for plan requests and the
// input checks the planner expects callers to have made.
package request

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/tripplanner/internal/graph"
	"github.com/gyaneshwarpardhi/tripplanner/internal/planner"
)

// ErrInvalid marks malformed user input.
var ErrInvalid = errors.New("request: invalid input")

// PlanRequest is a planning query as received from a client.
// Budget and Days are pointers so a missing field is told apart from zero.
type PlanRequest struct {
	ID         string    `json:"id"`
	Start      string    `json:"start"`
	Budget     *int      `json:"budget"`
	Days       *int      `json:"days"`
	Preference string    `json:"preference"`
	ReceivedAt time.Time `json:"-"`
}

// FromForm builds a request from raw form strings, the way a text-entry UI
// submits them. A blank budget or days is left unset for Validate to report;
// anything else that is not a whole number fails with ErrInvalid.
func FromForm(start, budget, days, preference string) (*PlanRequest, error) {
	b, err := formInt("budget", budget)
	if err != nil {
		return nil, err
	}
	d, err := formInt("days", days)
	if err != nil {
		return nil, err
	}
	return &PlanRequest{Start: strings.TrimSpace(start), Budget: b, Days: d, Preference: preference}, nil
}

func formInt(field, raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number, got %q", ErrInvalid, field, raw)
	}
	return &n, nil
}

// Stamp assigns an ID when absent and records the receive time.
func (r *PlanRequest) Stamp(now time.Time) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.ReceivedAt = now
}

// Validate checks every field and converts the request for the planner.
// All problems are reported together.
func (r *PlanRequest) Validate() (planner.Request, error) {
	var errs []string
	if r.Start == "" {
		errs = append(errs, "start city is required")
	}
	switch {
	case r.Budget == nil:
		errs = append(errs, "budget is required")
	case *r.Budget < 0:
		errs = append(errs, "budget must not be negative")
	}
	switch {
	case r.Days == nil:
		errs = append(errs, "days is required")
	case *r.Days < 0:
		errs = append(errs, "days must not be negative")
	}
	pref, err := graph.ParseCategory(r.Preference)
	if err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return planner.Request{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return planner.Request{
		Start:      r.Start,
		Budget:     *r.Budget,
		Days:       *r.Days,
		Preference: pref,
	}, nil
}
