package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHandler_Healthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", PingChecker(fakePinger{}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, StatusHealthy, response.Status)
	require.Equal(t, "v1.0.0", response.Version)
	require.Len(t, response.Checks, 1)
	require.Equal(t, "storage", response.Checks["storage"].Name)
}

func TestHandler_Unhealthy(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", PingChecker(fakePinger{err: errors.New("connection refused")}))
	handler.RegisterChecker("noop", CheckerFunc(func(context.Context) error { return nil }))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	require.Equal(t, StatusUnhealthy, response.Status)
	require.Equal(t, "connection refused", response.Checks["storage"].Message)
	require.Equal(t, StatusHealthy, response.Checks["noop"].Status)
}

func TestHandler_CheckTimeout(t *testing.T) {
	handler := NewHandler("dev")
	handler.SetTimeout(20 * time.Millisecond)
	handler.RegisterChecker("slow", CheckerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	status, checks := handler.Run(context.Background())
	require.Equal(t, StatusUnhealthy, status)
	require.Contains(t, checks["slow"].Message, "deadline exceeded")
}

func TestLivenessHandler(t *testing.T) {
	w := httptest.NewRecorder()
	LivenessHandler(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	handler := NewHandler("v1.0.0")
	handler.RegisterChecker("storage", PingChecker(fakePinger{}))

	w := httptest.NewRecorder()
	handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ready", w.Body.String())

	handler.RegisterChecker("storage", PingChecker(fakePinger{err: errors.New("down")}))
	w = httptest.NewRecorder()
	handler.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "not ready", w.Body.String())
}
