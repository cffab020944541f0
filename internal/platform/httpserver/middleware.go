package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"foreman/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func metricsHandler() http.Handler {
	return promhttp.Handler()
}

// responseWriter is a wrapper that captures the HTTP status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func requestLogging(logger *slog.Logger, m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			route := routeLabel(r.URL.Path)
			if m != nil {
				m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
				m.RequestDuration.WithLabelValues(route, r.Method).Observe(duration.Seconds())
			}

			logger.Info("handled request",
				"event", "http_request_handled",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status", rw.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// ipLimiters keeps one token bucket per client IP. Entries are never evicted;
// process restarts bound growth for this deployment shape.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func rateLimit(rps float64, burst int, m *metrics.HTTPMetrics, logger *slog.Logger) func(http.Handler) http.Handler {
	if burst <= 0 {
		burst = int(rps)
	}
	limiters := &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiters.get(ip).Allow() {
				if m != nil {
					m.RateLimited.Inc()
				}
				logger.Warn("request rate limited",
					"event", "http_rate_limited",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"remote_addr", r.RemoteAddr,
				)
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// routeLabel collapses path parameters so metric cardinality stays bounded.
func routeLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] != "api" {
		return path
	}
	switch segments[1] {
	case "projects":
		if len(segments) >= 3 {
			segments[2] = ":id"
		}
		if len(segments) >= 5 && segments[3] == "users" {
			segments[4] = ":id"
		}
	case "clients":
		if len(segments) >= 3 {
			segments[2] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

// clientIP keys the limiter. X-Forwarded-For is a comma-separated chain when
// several proxies are involved; only the first element names the client, so
// the rest must not vary the bucket.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
