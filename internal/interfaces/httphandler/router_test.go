package httphandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/krispingal/iscs/internal/domain"
	"github.com/krispingal/iscs/internal/infrastructure"
	"github.com/krispingal/iscs/internal/usecases/loadbalancing"
	"github.com/krispingal/iscs/internal/usecases/ratelimiting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func defaultServices() map[string]infrastructure.Service {
	return map[string]infrastructure.Service{
		"user":    {Hosts: []string{"h1", "h2"}, Port: 8000},
		"product": {Hosts: []string{"p1", "p2", "p3"}, Port: 9000},
		"order":   {Hosts: []string{"o1"}, Port: 7998},
	}
}

type testEnv struct {
	handler http.Handler
	metrics *Metrics
}

func newTestEnv(t *testing.T, services map[string]infrastructure.Service, matchMode string, limiter domain.RateLimiter, logger *zap.Logger) *testEnv {
	t.Helper()
	if logger == nil {
		logger = zaptest.NewLogger(t)
	}
	if limiter == nil {
		limiter = ratelimiting.NoOpRateLimiter{}
	}
	registry, err := loadbalancing.LoadRegistry(&infrastructure.Config{Services: services}, logger)
	require.NoError(t, err)
	routes, err := infrastructure.NewRoutingTable(registry, matchMode)
	require.NoError(t, err)

	metrics := NewMetrics(prometheus.NewRegistry())
	return &testEnv{
		handler: NewRouter(NewDispatcher(routes, metrics, logger), limiter),
		metrics: metrics,
	}
}

func (e *testEnv) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(`{"command":"create"}`))
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	return body["error"]
}

func TestDispatcher_PostRoundRobin(t *testing.T) {
	env := newTestEnv(t, map[string]infrastructure.Service{
		"user": {Hosts: []string{"h1", "h2"}, Port: 8000},
	}, infrastructure.MatchModeExact, nil, nil)

	for _, want := range []string{
		"http://h1:8000/user",
		"http://h2:8000/user",
		"http://h1:8000/user",
	} {
		w := env.do(http.MethodPost, "/user")
		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, want, w.Header().Get("Location"))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.redirects.WithLabelValues("user", "h1:8000")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.redirects.WithLabelValues("user", "h2:8000")))
	assert.Equal(t, 3.0, testutil.ToFloat64(env.metrics.responses.WithLabelValues("307")))
}

func TestDispatcher_GetWithID(t *testing.T) {
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeExact, nil, nil)

	w := env.do(http.MethodGet, "/product/42")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://p1:9000/product/42", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/product/43?fields=name")
	assert.Equal(t, "http://p2:9000/product/43?fields=name", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/user/1")
	assert.Equal(t, "http://h1:8000/user/1", w.Header().Get("Location"))
}

func TestDispatcher_OrderHistory(t *testing.T) {
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeExact, nil, nil)

	w := env.do(http.MethodGet, "/user/purchased/7")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://o1:7998/order/purchased/7", w.Header().Get("Location"))

	// the user pool is untouched
	w = env.do(http.MethodPost, "/user")
	assert.Equal(t, "http://h1:8000/user", w.Header().Get("Location"))
}

func TestDispatcher_OrderHistoryWithoutOrderPool(t *testing.T) {
	env := newTestEnv(t, map[string]infrastructure.Service{
		"user": {Hosts: []string{"h1"}, Port: 8000},
	}, infrastructure.MatchModeExact, nil, nil)

	w := env.do(http.MethodGet, "/user/purchased/7")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid endpoint", errorBody(t, w))
}

func TestDispatcher_InvalidEndpoint(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeExact, nil, zap.New(core))

	for _, c := range []struct{ method, target string }{
		{http.MethodPost, "/unknown"},
		{http.MethodPost, "/superuser"},
		{http.MethodGet, "/unknown/1"},
	} {
		w := env.do(c.method, c.target)
		assert.Equal(t, http.StatusBadRequest, w.Code, c.target)
		assert.Equal(t, "Invalid endpoint", errorBody(t, w))
		assert.Empty(t, w.Header().Get("Location"))
	}

	rejected := logs.FilterMessage("Invalid endpoint").All()
	require.Len(t, rejected, 3)
	assert.Equal(t, "unknown", rejected[0].ContextMap()["endpoint"])
	assert.Equal(t, 3.0, testutil.ToFloat64(env.metrics.responses.WithLabelValues("400")))
}

func TestDispatcher_SubstringMatching(t *testing.T) {
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeSubstring, nil, nil)

	w := env.do(http.MethodPost, "/superuser")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "http://h1:8000/superuser", w.Header().Get("Location"))
}

func TestDispatcher_NormalizedErrors(t *testing.T) {
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeExact, nil, nil)

	cases := []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/user", http.StatusMethodNotAllowed},
		{http.MethodPost, "/user/1", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/user", http.StatusMethodNotAllowed},
		{http.MethodGet, "/a/b/c/d", http.StatusNotFound},
		{http.MethodPost, "/user/purchased/7/extra", http.StatusNotFound},
	}
	for _, c := range cases {
		w := env.do(c.method, c.target)
		assert.Equal(t, c.status, w.Code, "%s %s", c.method, c.target)
		assert.Equal(t, http.StatusText(c.status), errorBody(t, w))
	}
}

func TestDispatcher_RateLimited(t *testing.T) {
	limiter := ratelimiting.NewFixedWindowRateLimiter(1, time.Minute)
	defer limiter.Stop()
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeExact, limiter, nil)

	w := env.do(http.MethodPost, "/user")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	w = env.do(http.MethodPost, "/user")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too Many Requests", errorBody(t, w))
}

type panickingRoutes struct{}

func (panickingRoutes) Resolve(string) (domain.LoadBalancer, error) { panic("boom") }
func (panickingRoutes) ResolveResourceType(string) (domain.LoadBalancer, error) {
	panic("boom")
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	d := NewDispatcher(panickingRoutes{}, nil, zaptest.NewLogger(t))
	handler := NewRouter(d, ratelimiting.NoOpRateLimiter{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/user", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", errorBody(t, w))
}

func TestDispatcher_ConcurrentRequests(t *testing.T) {
	env := newTestEnv(t, defaultServices(), infrastructure.MatchModeExact, nil, zap.NewNop())

	const clients = 24
	const perClient = 30

	var mu sync.Mutex
	counts := make(map[string]int)
	var wg sync.WaitGroup
	for c := 0; c < clients; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perClient; i++ {
				w := env.do(http.MethodPost, "/product")
				mu.Lock()
				counts[w.Header().Get("Location")]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{
		"http://p1:9000/product": clients * perClient / 3,
		"http://p2:9000/product": clients * perClient / 3,
		"http://p3:9000/product": clients * perClient / 3,
	}, counts)
}

func TestAdminHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.incRedirect("user", "h1:8000")

	w := httptest.NewRecorder()
	NewAdminHandler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `iscs_dispatcher_redirects_total{backend="h1:8000",resource_type="user"} 1`)
}
