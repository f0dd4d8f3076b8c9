package httphandler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/krispingal/iscs/internal/domain"
	"go.uber.org/zap"
)

// orderResourceType serves order history lookups made under /user.
const orderResourceType = "order"

// Dispatcher classifies requests, picks a backend and redirects the caller to
// it. It never contacts backends itself.
type Dispatcher struct {
	routes  domain.RoutingTable
	metrics *Metrics
	logger  *zap.Logger
}

func NewDispatcher(routes domain.RoutingTable, metrics *Metrics, logger *zap.Logger) *Dispatcher {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Dispatcher{
		routes:  routes,
		metrics: metrics,
		logger:  logger,
	}
}

// NewRouter wires the dispatcher routes behind the request middleware chain.
func NewRouter(d *Dispatcher, limiter domain.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(NewAccessLogMiddleware(d.metrics, d.logger))
	r.Use(NewRecoverer(d.logger))
	r.Use(NewRateLimitMiddleware(limiter, d.logger))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Post("/{endpoint}", d.ForwardRequest)
	r.Get("/user/purchased/{id}", d.ForwardOrderHistoryRequest)
	r.Get("/{endpoint}/{id}", d.ForwardRequest)
	return r
}

// ForwardRequest handles POST /{endpoint} and GET /{endpoint}/{id}. The
// backend is asked for the same path.
func (d *Dispatcher) ForwardRequest(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "endpoint")
	lb, err := d.routes.Resolve(endpoint)
	d.redirect(w, r, endpoint, lb, err, r.URL)
}

// ForwardOrderHistoryRequest handles GET /user/purchased/{id}, which the order
// service owns as /order/purchased/{id}.
func (d *Dispatcher) ForwardOrderHistoryRequest(w http.ResponseWriter, r *http.Request) {
	lb, err := d.routes.ResolveResourceType(orderResourceType)
	target := &url.URL{
		Path:     "/" + orderResourceType + strings.TrimPrefix(r.URL.Path, "/user"),
		RawQuery: r.URL.RawQuery,
	}
	if r.URL.RawPath != "" {
		target.RawPath = "/" + orderResourceType + strings.TrimPrefix(r.URL.RawPath, "/user")
	}
	d.redirect(w, r, orderResourceType, lb, err, target)
}

func (d *Dispatcher) redirect(w http.ResponseWriter, r *http.Request, endpoint string, lb domain.LoadBalancer, err error, target *url.URL) {
	if err != nil {
		d.logger.Debug("Invalid endpoint", zap.String("endpoint", endpoint), zap.String("method", r.Method))
		writeJSONError(w, http.StatusBadRequest, domain.ErrInvalidEndpoint.Error())
		return
	}

	backend, err := lb.SelectNext()
	if err != nil {
		if !errors.Is(err, domain.ErrNoBackends) {
			d.logger.Error("Backend selection failed", zap.String("resource_type", lb.ResourceType()), zap.Error(err))
		}
		writeStatusError(w, http.StatusServiceUnavailable)
		return
	}

	location := backend.URL(target)
	d.logger.Debug("Forwarding request",
		zap.String("resource_type", lb.ResourceType()),
		zap.String("backend", backend.Address()),
		zap.String("location", location))
	d.metrics.incRedirect(lb.ResourceType(), backend.Address())
	http.Redirect(w, r, location, http.StatusTemporaryRedirect)
}
