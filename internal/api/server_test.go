// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/llm"
	"github.com/tripstep/tripstep/internal/pipeline"
	"github.com/tripstep/tripstep/internal/poi"
	"github.com/tripstep/tripstep/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	store := poi.NewMemoryStore(poi.SeedPOIs())
	pipe := pipeline.New(store, llm.Disabled{}, llm.Disabled{}, cfg)
	coord := session.NewCoordinator(session.NewStore(cfg.Session.TTL), pipe, store, nil, cfg)
	srv := httptest.NewServer(NewServer(coord, cfg.API).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/session", map[string]any{
		"city": "Suzhou", "start_poi": "苏州火车站",
		"duration_hours": 72, "budget": 5000,
		"user_input": "休闲慢节奏喜欢园林",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[createSessionResponse](t, resp)
	require.NotEmpty(t, created.SessionID)
	return created.SessionID
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	// info
	resp, err := http.Get(fmt.Sprintf("%s/api/session/%s", srv.URL, id))
	require.NoError(t, err)
	info := decode[session.Summary](t, resp)
	assert.Equal(t, "苏州火车站", info.CurrentPOI)
	assert.Zero(t, info.VisitedCount)

	// options
	resp, err = http.Get(fmt.Sprintf("%s/api/session/%s/options?k=3", srv.URL, id))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	opts := decode[optionsResponse](t, resp)
	require.Len(t, opts.Options, 3)
	assert.NotEmpty(t, opts.Options[0].Explanation)
	assert.NotEmpty(t, opts.Degraded)

	// select first option
	resp = postJSON(t, fmt.Sprintf("%s/api/session/%s/select", srv.URL, id),
		map[string]any{"option_index": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sel := decode[selectResponse](t, resp)
	assert.Equal(t, opts.Options[0].POI.ID, sel.Selected.POI.ID)
	assert.Equal(t, 1, sel.State.VisitedCount)
	assert.Less(t, sel.State.RemainingBudget, 5000.0)

	// delete, idempotent
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/session/%s", srv.URL, id), nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	// gone now
	resp, err = http.Get(fmt.Sprintf("%s/api/session/%s", srv.URL, id))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorTaxonomy(t *testing.T) {
	srv := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/session", "application/json",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		apiErr := decode[APIError](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_input", apiErr.Code)
	})

	t.Run("unknown start POI", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/session", map[string]any{
			"city": "Suzhou", "start_poi": "不存在", "duration_hours": 72, "budget": 5000,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("missing session is 404", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/session/ghost/options")
		require.NoError(t, err)
		apiErr := decode[APIError](t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "session_not_found", apiErr.Code)
	})

	t.Run("bad k", func(t *testing.T) {
		id := createSession(t, srv)
		resp, err := http.Get(fmt.Sprintf("%s/api/session/%s/options?k=zero", srv.URL, id))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("select before options", func(t *testing.T) {
		id := createSession(t, srv)
		resp := postJSON(t, fmt.Sprintf("%s/api/session/%s/select", srv.URL, id),
			map[string]any{"option_index": 0})
		apiErr := decode[APIError](t, resp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_selection", apiErr.Code)
	})

	t.Run("select out of bounds", func(t *testing.T) {
		id := createSession(t, srv)
		resp, err := http.Get(fmt.Sprintf("%s/api/session/%s/options?k=3", srv.URL, id))
		require.NoError(t, err)
		resp.Body.Close()
		resp = postJSON(t, fmt.Sprintf("%s/api/session/%s/select", srv.URL, id),
			map[string]any{"option_index": 99})
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReturnConstraintFlowsThrough(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/session", map[string]any{
		"city": "Suzhou", "start_poi": "苏州火车站",
		"duration_hours": 8, "budget": 5000,
		"return_deadline_hours": 8, "return_place": "苏州火车站",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[createSessionResponse](t, resp)

	resp2, err := http.Get(fmt.Sprintf("%s/api/session/%s/options?k=5", srv.URL, created.SessionID))
	require.NoError(t, err)
	opts := decode[optionsResponse](t, resp2)
	// long visits cannot beat the deadline: anything returned that blows
	// the return window is flagged, not hidden
	for _, o := range opts.Options {
		assert.NotEmpty(t, o.RiskLevel)
	}
}
