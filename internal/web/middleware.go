package web

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"idish/internal/config"
	"idish/internal/metrics"
	"idish/internal/models"
	"idish/internal/session"

	"golang.org/x/time/rate"
)

type contextKey string

const sessionKey contextKey = "session-record"

// recordFrom returns the session record loaded by withSession, or nil for an
// anonymous request.
func recordFrom(ctx context.Context) *session.Record {
	record, _ := ctx.Value(sessionKey).(*session.Record)
	return record
}

// withSession resolves the session cookie into a record on every request. A
// missing or expired session leaves a nil record; handlers decide what that
// means.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var record *session.Record
		if cookie, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			record, err = s.sessions.Current(r.Context(), cookie.Value)
			if err != nil {
				s.logger.Error().Err(err).Msg("session lookup failed")
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, record)))
	})
}

// requireAuth gates a route on an authenticated session. Presence of an
// access token is the whole check; an expired token is the backend's call.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !recordFrom(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// requireRole additionally checks the account role. A logged-in user with the
// wrong role gets an explicit denial page rather than a silent redirect.
func (s *Server) requireRole(role models.Role, next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		record := recordFrom(r.Context())
		if record.User.Metadata.Role != role {
			s.renderError(w, r, http.StatusForbidden, "Access denied",
				"Your account does not have access to this page.")
			return
		}
		next(w, r)
	})
}

// ipLimiter rate-limits login and signup attempts per client IP.
type ipLimiter struct {
	limiters sync.Map
	cfg      config.RateLimitConfig
}

func newIPLimiter(cfg config.RateLimitConfig) *ipLimiter {
	return &ipLimiter{cfg: cfg}
}

func (l *ipLimiter) allow(remoteAddr string) bool {
	if l.cfg.LoginRPS <= 0 {
		return true
	}

	key, _, err := net.SplitHostPort(remoteAddr)
	if err != nil || key == "" {
		key = remoteAddr
	}
	return l.getLimiter(key).Allow()
}

func (l *ipLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := l.cfg.LoginBurst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.LoginRPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (s *Server) limitAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r.RemoteAddr) {
			s.renderError(w, r, http.StatusTooManyRequests, "Slow down",
				"Too many attempts. Please wait a moment and try again.")
			return
		}
		next(w, r)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(routeLabel(r.URL.Path), strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

// routeLabel collapses a path to its first segment to keep metric cardinality
// bounded.
func routeLabel(path string) string {
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return path
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
