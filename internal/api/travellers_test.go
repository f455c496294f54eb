package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type travellerJSON struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	StartCity  string `json:"start_city"`
	Budget     int    `json:"budget"`
	Days       int    `json:"days"`
	Preference string `json:"preference"`
	Result     string `json:"result"`
}

func addTraveller(t *testing.T, h http.Handler, body string) travellerJSON {
	t.Helper()
	rec := do(h, http.MethodPost, "/v1/travellers", "application/json", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tr travellerJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	return tr
}

func TestTravellers_AddListDelete(t *testing.T) {
	h := defaultHandler(t)

	ana := addTraveller(t, h, `{"username":"ana","start":"Paris","budget":500,"days":2,"preference":"cultural"}`)
	assert.Equal(t, travellerJSON{ID: ana.ID, Username: "ana", StartCity: "Paris", Budget: 500, Days: 2, Preference: "Cultural"}, ana)

	form := url.Values{"username": {"ben"}, "start": {"Rome"}, "budget": {"300"}, "days": {"1"}, "preference": {"Beach"}}
	rec := do(h, http.MethodPost, "/v1/travellers", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(h, http.MethodGet, "/v1/travellers", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count      int             `json:"count"`
		Travellers []travellerJSON `json:"travellers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "ana", list.Travellers[0].Username)
	assert.Equal(t, "ben", list.Travellers[1].Username)

	target := fmt.Sprintf("/v1/travellers/%d", ana.ID)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, target, "", "").Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, target, "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, target, "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, target, "", "").Code)
}

func TestTravellers_AddRejectsBadInput(t *testing.T) {
	h := defaultHandler(t)
	for _, body := range []string{
		`{"start":"Paris","budget":500,"days":2,"preference":"Beach"}`,
		`{"username":"ana","start":"Paris","days":2,"preference":"Beach"}`,
		`{"username":"ana","start":"Paris","budget":"lots","days":2,"preference":"Beach"}`,
		`{"username":"ana","start":"Paris","budget":500,"days":2,"preference":"Ski"}`,
	} {
		rec := do(h, http.MethodPost, "/v1/travellers", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/v1/travellers/abc", "", "").Code)
}

func TestTravellers_PlanSavesResult(t *testing.T) {
	h := defaultHandler(t)
	ana := addTraveller(t, h, `{"username":"ana","start":"Paris","budget":500,"days":2,"preference":"Cultural"}`)

	rec := do(h, http.MethodPost, fmt.Sprintf("/v1/travellers/%d/plan", ana.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Traveller travellerJSON `json:"traveller"`
		Plan      planBody      `json:"plan"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Paris", "Rome", "Venice"}, body.Plan.Path)
	assert.Equal(t, "Paris → Rome → Venice | $290", body.Traveller.Result)

	rec = do(h, http.MethodGet, fmt.Sprintf("/v1/travellers/%d", ana.ID), "", "")
	var stored travellerJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "Paris → Rome → Venice | $290", stored.Result)
}

func TestTravellers_PlanOutcomes(t *testing.T) {
	h := defaultHandler(t)

	broke := addTraveller(t, h, `{"username":"cleo","start":"Paris","budget":250,"days":2,"preference":"Cultural"}`)
	rec := do(h, http.MethodPost, fmt.Sprintf("/v1/travellers/%d/plan", broke.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No valid plan found")
	assert.Contains(t, rec.Body.String(), `"result":""`)

	lost := addTraveller(t, h, `{"username":"dan","start":"Atlantis","budget":250,"days":2,"preference":"Cultural"}`)
	rec = do(h, http.MethodPost, fmt.Sprintf("/v1/travellers/%d/plan", lost.ID), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, http.MethodPost, "/v1/travellers/999/plan", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
