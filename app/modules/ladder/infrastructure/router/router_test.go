package ladderrouter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	ladderidentity "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/infrastructure/identity"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const secret = "router-test-secret-at-least-32-chars"

func newTestRouter(t *testing.T, cfg Config, health HealthCheck) (http.Handler, *ladderdomain.Actor) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seen := &ladderdomain.Actor{}
	api := func(r chi.Router) {
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			a, _ := ladderidentity.ActorFrom(r.Context())
			*seen = a
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
	}
	return New(cfg, ladderidentity.NewProvider(secret), logger, health, api), seen
}

func bearer(t *testing.T, actor ladderdomain.Actor) string {
	t.Helper()
	token, err := ladderidentity.NewProvider(secret).GenerateToken(actor, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_Healthz(t *testing.T) {
	h, _ := newTestRouter(t, Config{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h, _ = newTestRouter(t, Config{}, func(context.Context) error { return errors.New("db down") })
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_AuthenticatesAPI(t *testing.T) {
	h, seen := newTestRouter(t, Config{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	actor := ladderdomain.Actor{PlayerID: uuid.New(), IsAdmin: true}
	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	req.Header.Set("Authorization", bearer(t, actor))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, actor, *seen)
}

func TestRouter_RecoversPanics(t *testing.T) {
	h, _ := newTestRouter(t, Config{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/panic", nil)
	req.Header.Set("Authorization", bearer(t, ladderdomain.Actor{PlayerID: uuid.New()}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_CORS(t *testing.T) {
	h, _ := newTestRouter(t, Config{AllowedOrigins: []string{"https://ladder.example"}}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/whoami", nil)
	req.Header.Set("Origin", "https://ladder.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://ladder.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/whoami", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	h, _ := newTestRouter(t, Config{RateLimit: 1, RateBurst: 2}, nil)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)

	// Health checks are never limited.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_PrunesIdleClients(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := range cleanupThreshold + 1 {
		l.Limiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.Equal(t, cleanupThreshold+1, l.size())

	now = now.Add(maxIdleAge + time.Minute)
	first := l.Limiter("192.0.2.1")
	assert.Equal(t, 1, l.size(), "only the fresh client survives")
	assert.Same(t, first, l.Limiter("192.0.2.1"))
}
