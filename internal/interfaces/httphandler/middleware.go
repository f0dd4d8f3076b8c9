package httphandler

import (
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/krispingal/iscs/internal/domain"
	"go.uber.org/zap"
)

func getClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	return ip
}

// NewRateLimitMiddleware rejects clients that exceed limiter with 429.
func NewRateLimitMiddleware(limiter domain.RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			if clientIP == "" {
				logger.Warn("Could not determine client IP", zap.String("remote_addr", r.RemoteAddr))
				writeJSONError(w, http.StatusInternalServerError, "Could not determine client IP")
				return
			}
			if !limiter.IsAllowed(clientIP) {
				logger.Debug("Rate limit exceeded", zap.String("client_ip", clientIP), zap.String("path", r.URL.Path))
				writeStatusError(w, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewRecoverer turns handler panics into a JSON 500.
func NewRecoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("Panic while handling request",
						zap.Any("panic", rvr),
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.ByteString("stack", debug.Stack()))
					writeStatusError(w, http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NewAccessLogMiddleware logs every request at debug level and counts
// responses by status.
func NewAccessLogMiddleware(metrics *Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.incResponse(status)
			logger.Debug("Request handled",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.String("location", ww.Header().Get("Location")),
				zap.Duration("duration", time.Since(startTime)))
		})
	}
}
