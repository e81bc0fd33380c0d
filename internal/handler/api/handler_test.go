package api

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/repository"
	"github.com/winnervic367/trading-analyser/internal/scheduler"
	"github.com/winnervic367/trading-analyser/internal/service/coingecko"
	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/service/ratelimit"
	"github.com/winnervic367/trading-analyser/internal/service/signals"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	"github.com/winnervic367/trading-analyser/pkg/cache"
	xlogger "github.com/winnervic367/trading-analyser/pkg/logger"
	"github.com/winnervic367/trading-analyser/pkg/metrics"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listData struct {
	Rows  []map[string]any `json:"rows"`
	Total int64            `json:"total"`
}

type downProvider struct{}

func (downProvider) ListMarkets(context.Context, int) ([]models.CryptoCurrency, error) {
	return nil, errors.New("down")
}

func (downProvider) HistoricalSeries(context.Context, string, int, string) (*models.HistoricalData, error) {
	return nil, errors.New("down")
}

func (downProvider) Details(context.Context, string) (*models.CryptoDetail, error) {
	return nil, errors.New("down")
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	lg := xlogger.Nop()

	reg := market.NewDefaultRegistry()
	store := signals.NewStore(signals.NewGenerator(reg, rand.New(rand.NewSource(8)), func() time.Time { return fixedNow }))
	mutator := market.NewMutator(reg, rand.New(rand.NewSource(7)))
	evaluator := signals.NewEvaluator(store, reg, lg)

	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })

	sigUC := usecase.NewSignalsUseCase(store, reg, nil, lg)
	updater := usecase.NewRealtimeUpdater(scheduler.NewManual(), mutator, evaluator, metrics.Nop{}, lg)
	mdUC := usecase.NewMarketDataUseCase(downProvider{}, coingecko.NewMock(rand.New(rand.NewSource(1)), time.Now), c, time.Minute, metrics.Nop{}, lg)
	authUC := usecase.NewAuthUseCase(repository.NewCacheUserStore(c), repository.NewCacheSessionStore(c), "test-secret", time.Hour, lg)
	credUC := usecase.NewCredentialsUseCase(repository.NewCacheCredentialStore(c))

	e := echo.New()
	NewSignalsHandler(lg, sigUC).RegisterRoutes(e)
	NewRealtimeHandler(lg, updater).RegisterRoutes(e)
	NewCryptoHandler(lg, mdUC).RegisterRoutes(e)
	NewAuthHandler(lg, authUC, credUC, ratelimit.New(100, 100)).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestMarketsRoutes(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/markets/forex", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var insts []models.Instrument
	require.NoError(t, json.Unmarshal(env.Data, &insts))
	assert.Len(t, insts, 5)
	assert.Equal(t, "eurusd", insts[0].ID)

	rec, _ = do(t, e, http.MethodGet, "/api/markets/commodities/gold", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/markets/commodities/bitcoin", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/markets/stocks", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignalsRoutes(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/signals?marketType=forex&timeFrame=short", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.EqualValues(t, len(list.Rows), list.Total)
	for _, row := range list.Rows {
		assert.Equal(t, "forex", row["marketType"])
		assert.Equal(t, "short", row["timeFrame"])
	}

	rec, _ = do(t, e, http.MethodGet, "/api/signals?timeFrame=weekly", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/api/signals/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sig map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &sig))
	assert.Equal(t, "1", sig["id"])

	rec, _ = do(t, e, http.MethodGet, "/api/signals/9999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignalsHistoryRoute(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/signals/history?marketType=crypto", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.NotEmpty(t, list.Rows)
	for _, row := range list.Rows {
		assert.Equal(t, "completed", row["status"])
	}

	rec, _ = do(t, e, http.MethodGet, "/api/signals/history?from=yesterday", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/signals/history?from=2024-05-10T00:00:00Z&to=2024-05-01T00:00:00Z", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReloadRoute(t *testing.T) {
	e := newTestServer(t)

	rec, _ := do(t, e, http.MethodPost, "/api/signals/reload", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/signals/1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRealtimeRoutes(t *testing.T) {
	e := newTestServer(t)

	var status usecase.RealtimeStatus
	rec, env := do(t, e, http.MethodPost, "/api/realtime/start", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Running)

	// starting twice is a no-op
	rec, _ = do(t, e, http.MethodPost, "/api/realtime/start", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/api/realtime/tick", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report usecase.TickReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.EqualValues(t, 1, report.Tick)
	assert.Equal(t, 15, report.Changes)

	rec, env = do(t, e, http.MethodPost, "/api/realtime/stop", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Running)
	assert.EqualValues(t, 1, status.Ticks)
}

func TestCryptoRoutesFallBackToMockData(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, http.MethodGet, "/api/crypto/markets?limit=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listData
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.NotEmpty(t, list.Rows)

	rec, env = do(t, e, http.MethodGet, "/api/crypto/bitcoin/history?days=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var hist models.HistoricalData
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Len(t, hist.Prices, 48)

	rec, env = do(t, e, http.MethodGet, "/api/crypto/bitcoin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.CryptoDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "bitcoin", detail.ID)

	rec, _ = do(t, e, http.MethodGet, "/api/crypto/markets?limit=500", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlow(t *testing.T) {
	e := newTestServer(t)

	rec, _ := do(t, e, http.MethodPost, "/api/auth/register", `{"email":"a@b.io","password":"secret1","name":"Ann"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/auth/register", `{"email":"a@b.io","password":"secret1","name":"Ann"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/auth/register", `{"email":"nope","password":"1","name":"Ann"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/auth/login", `{"email":"a@b.io","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := do(t, e, http.MethodPost, "/api/auth/login", `{"email":"a@b.io","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	rec, _ = do(t, e, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/api/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Ann", me.Name)

	rec, _ = do(t, e, http.MethodPut, "/api/credentials", `{"key":" ","secret":"s"}`, login.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodPut, "/api/credentials", `{"key":"k1","secret":"s1"}`, login.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/api/credentials", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var creds models.Credentials
	require.NoError(t, json.Unmarshal(env.Data, &creds))
	assert.Equal(t, models.Credentials{Key: "k1", Secret: "s1"}, creds)

	rec, _ = do(t, e, http.MethodPost, "/api/auth/logout", "", login.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/auth/me", "", login.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRateLimited(t *testing.T) {
	lg := xlogger.Nop()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	authUC := usecase.NewAuthUseCase(repository.NewCacheUserStore(c), repository.NewCacheSessionStore(c), "s", time.Hour, lg)

	e := echo.New()
	NewAuthHandler(lg, authUC, usecase.NewCredentialsUseCase(repository.NewCacheCredentialStore(c)), ratelimit.New(0.5, 1)).RegisterRoutes(e)

	body := `{"email":"x@y.io","password":"whatever"}`
	rec, _ := do(t, e, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}
