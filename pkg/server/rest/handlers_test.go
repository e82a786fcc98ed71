package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lintang/gridrouter/pkg/kv"
	"lintang/gridrouter/pkg/server/rest"
	"lintang/gridrouter/pkg/server/rest/service"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionBody struct {
	ID      string `json:"id"`
	Terrain string `json:"terrain"`
	State   struct {
		Status    string `json:"status"`
		Steps     int    `json:"steps"`
		Cost      float64
		FinalPath []struct {
			Row int `json:"row"`
			Col int `json:"col"`
		} `json:"final_path"`
	} `json:"state"`
}

type errBody struct {
	Status     string   `json:"status"`
	Error      string   `json:"error"`
	Validation []string `json:"validation"`
}

func newServer(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	kvdb := kv.NewKVDB(db, 2)
	t.Cleanup(func() { _ = kvdb.Close() })

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)
	svc := service.NewSolverService(kvdb, slog.New(slog.NewTextHandler(io.Discard, nil)), m, service.Options{
		DefaultBudget: time.Second,
		MaxBudget:     time.Second,
		Workers:       2,
	})

	r := chi.NewRouter()
	r.Use(rest.PromeHttpMiddleware(m))
	rest.SolverRouter(r, svc, m)
	return r, reg
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		bb, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bb)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func cell(row, col int) map[string]int {
	return map[string]int{"row": row, "col": col}
}

var blockedCentreRows = []string{".....", ".....", "..#..", ".....", "....."}

func createTerrain(t *testing.T, h http.Handler) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/solver/terrains", map[string]any{
		"name": "centre",
		"rows": blockedCentreRows,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestTerrainEndpoints(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/solver/terrains", map[string]any{
		"name":     "centre",
		"diagonal": true,
		"rows":     blockedCentreRows,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[rest.TerrainResponse](t, rec)
	assert.Equal(t, rest.TerrainResponse{Name: "centre", Rows: 5, Cols: 5, Diagonal: true}, created)

	rec = do(t, h, http.MethodGet, "/api/solver/terrains", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"centre"}, decodeBody[rest.TerrainsResponse](t, rec).Terrains)

	t.Run("ragged rows", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/solver/terrains", map[string]any{
			"name": "ragged",
			"rows": []string{"...", ".."},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid name", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/solver/terrains", map[string]any{
			"name": "not a name",
			"rows": []string{"..."},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[errBody](t, rec)
		assert.NotEmpty(t, body.Validation)
	})
}

func TestSessionEndpoints(t *testing.T) {
	h, reg := newServer(t)
	createTerrain(t, h)

	rec := do(t, h, http.MethodPost, "/api/solver/sessions", map[string]any{
		"terrain": "centre",
		"start":   cell(0, 0),
		"end":     cell(4, 4),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sess := decodeBody[sessionBody](t, rec)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "STILL_COMPUTING", sess.State.Status)

	rec = do(t, h, http.MethodGet, "/api/solver/sessions/"+sess.ID+"/route", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/solver/sessions/"+sess.ID+"/solve", map[string]any{"max_duration_ms": 500})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	solved := decodeBody[sessionBody](t, rec)
	assert.Equal(t, "SOLUTION_FOUND", solved.State.Status)
	assert.Len(t, solved.State.FinalPath, 9)

	rec = do(t, h, http.MethodGet, "/api/solver/sessions/"+sess.ID+"/route", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	route := decodeBody[service.RouteView](t, rec)
	assert.InDelta(t, 13.0, route.Cost, 1e-9)
	assert.Equal(t, 1, route.Turns)
	assert.NotEmpty(t, route.Polyline)

	rec = do(t, h, http.MethodGet, "/api/solver/routes/centre?start=0,0&end=4,4", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := decodeBody[kv.RouteRecord](t, rec)
	assert.Equal(t, route.Path, stored.Path)

	rec = do(t, h, http.MethodPost, "/api/solver/sessions/"+sess.ID+"/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "STILL_COMPUTING", decodeBody[sessionBody](t, rec).State.Status)

	// body kosong pakai budget default
	rec = do(t, h, http.MethodPost, "/api/solver/sessions/"+sess.ID+"/solve", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SOLUTION_FOUND", decodeBody[sessionBody](t, rec).State.Status)

	rec = do(t, h, http.MethodDelete, "/api/solver/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/solver/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 2.0, counterTotal(t, reg, "gridrouter_solve_count"))
	assert.Equal(t, 1.0, counterTotal(t, reg, "gridrouter_sessions_created_total"))
}

func counterTotal(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("metric %s not registered", name)
	return 0
}

func TestSessionValidation(t *testing.T) {
	h, _ := newServer(t)
	createTerrain(t, h)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing end", map[string]any{"terrain": "centre", "start": cell(0, 0)}, http.StatusBadRequest},
		{"negative row", map[string]any{"terrain": "centre", "start": cell(-1, 0), "end": cell(1, 1)}, http.StatusBadRequest},
		{"outside terrain", map[string]any{"terrain": "centre", "start": cell(0, 0), "end": cell(9, 9)}, http.StatusBadRequest},
		{"unknown terrain", map[string]any{"terrain": "nowhere", "start": cell(0, 0), "end": cell(1, 1)}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/solver/sessions", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	t.Run("solve budget too large", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/solver/sessions/whatever/solve", map[string]any{"max_duration_ms": 120000})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/solver/sessions/whatever/solve", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad stored route query", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/solver/routes/centre?start=0&end=4,4", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBatchEndpoint(t *testing.T) {
	h, _ := newServer(t)
	createTerrain(t, h)

	rec := do(t, h, http.MethodPost, "/api/solver/routes/batch", map[string]any{
		"terrain": "centre",
		"pairs": []map[string]any{
			{"start": cell(0, 0), "end": cell(4, 4)},
			{"start": cell(0, 0), "end": cell(2, 2)},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Terrain string `json:"terrain"`
		Results []struct {
			ID     int     `json:"id"`
			Status string  `json:"status"`
			Cost   float64 `json:"cost"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, "SOLUTION_FOUND", body.Results[0].Status)
	assert.InDelta(t, 13.0, body.Results[0].Cost, 1e-9)
	assert.Equal(t, "NO_SOLUTION", body.Results[1].Status)

	rec = do(t, h, http.MethodPost, "/api/solver/routes/batch", map[string]any{"terrain": "centre"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
