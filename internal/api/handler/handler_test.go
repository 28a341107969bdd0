package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// withURLParam injects a chi route parameter so handlers can be exercised
// without a full router.
func withURLParam(r *http.Request, key, val string) *http.Request {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		rctx.URLParams.Add(key, val)
		return r
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) map[string]any {
	t.Helper()
	require.Equal(t, wantStatus, rec.Code, rec.Body.String())
	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Data
}

func decodeDataList(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) []any {
	t.Helper()
	require.Equal(t, wantStatus, rec.Code, rec.Body.String())
	var env struct {
		Data []any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Data
}

func decodeErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error.Code
}

// mockNotifier records published notifications for assertions.
type mockNotifier struct {
	infos, successes, failures []string
}

func (m *mockNotifier) Info(title, description string)    { m.infos = append(m.infos, title) }
func (m *mockNotifier) Success(title, description string) { m.successes = append(m.successes, title) }
func (m *mockNotifier) Error(title, description string)   { m.failures = append(m.failures, title) }

// mockPoller records coordinator calls.
type mockPoller struct {
	started []string
	stopped []string
	active  []string
}

func (m *mockPoller) Start(jobID string) { m.started = append(m.started, jobID) }
func (m *mockPoller) Stop(jobID string)  { m.stopped = append(m.stopped, jobID) }

func (m *mockPoller) IsActive(jobID string) bool {
	for _, id := range m.active {
		if id == jobID {
			return true
		}
	}
	return false
}

func (m *mockPoller) ActiveIDs() []string { return m.active }
