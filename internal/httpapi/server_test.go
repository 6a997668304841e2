package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchgate/launchgate/internal/config"
	"github.com/launchgate/launchgate/internal/engine"
	"github.com/launchgate/launchgate/internal/metrics"
	"github.com/launchgate/launchgate/internal/signal"
)

type stubReloader struct {
	calls int
	err   error
}

func (s *stubReloader) ReloadConfig() error {
	s.calls++
	return s.err
}

func newTestServer(t *testing.T, rps float64, burst int) (*Server, *stubReloader) {
	t.Helper()
	cfg := config.Default()
	eng, err := engine.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	serverCfg := cfg.Server
	serverCfg.RateLimitPerSecond = rps
	serverCfg.RateLimitBurst = burst

	reloader := &stubReloader{}
	return NewServer(serverCfg, eng, metrics.NewRegistry(), reloader, zerolog.Nop()), reloader
}

func evaluateBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	req := EvaluateRequest{
		Bundle: &signal.Bundle{
			Mint:               "MintHTTP",
			Venue:              signal.VenueRaydium,
			HasLiquidityData:   true,
			LiquidityUSD:       80_000,
			SellRouteConfirmed: true,
			SellSlippagePct:    3,
			TokenAge:           5 * time.Minute,
		},
		RugProbability: 10,
		DataConfidence: 90,
	}
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(req))
	return &buf
}

func TestEvaluateEndpoint_OK(t *testing.T) {
	srv, _ := newTestServer(t, 100, 100)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var eval engine.Evaluation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eval))
	assert.Equal(t, "MintHTTP", eval.Mint)
	assert.NotEmpty(t, eval.Decision.Action)
	assert.NotEmpty(t, eval.Outcomes)
}

func TestEvaluateEndpoint_MalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t, 100, 100)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewBufferString("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateEndpoint_MissingBundle(t *testing.T) {
	srv, _ := newTestServer(t, 100, 100)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewBufferString(`{"rug_probability": 10}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEvaluateEndpoint_RateLimited(t *testing.T) {
	srv, _ := newTestServer(t, 0.001, 1) // one request then dry

	first := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t)))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// buckets are per client IP: another caller is not throttled
	other := httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t))
	other.RemoteAddr = "198.51.100.7:4444"
	third := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(third, other)
	assert.Equal(t, http.StatusOK, third.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, 100, 100)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestReloadEndpoint(t *testing.T) {
	srv, reloader := newTestServer(t, 100, 100)

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/config/reload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, reloader.calls)

	reloader.err = fmt.Errorf("bad config")
	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/config/reload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, 100, 100)

	// drive one evaluation so counters exist
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", evaluateBody(t)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "launchgate_decisions_total")
}
