package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"legacyvault/pkg/platform/httputil"
	"legacyvault/pkg/requestcontext"
)

// Middleware limits state-changing requests per caller. Reads pass through.
type Middleware struct {
	store  Store
	limit  int
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Middleware)

// WithClock fixes the time used for Retry-After.
func WithClock(now func() time.Time) Option {
	return func(m *Middleware) {
		m.now = now
	}
}

// New returns a limiter admitting limit writes per window for each caller.
// A limit below one disables limiting.
func New(store Store, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, limit: limit, window: window, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type exceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// PerCaller must run after the caller has been resolved.
func (m *Middleware) PerCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.limit < 1 || isRead(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		userID := requestcontext.UserID(ctx)
		if userID.IsNil() {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.store.Allow(ctx, "writes:"+userID.String(), m.limit, m.window)
		if err != nil {
			// Fail open.
			m.logger.ErrorContext(ctx, "rate limit check failed", "error", err, "user_id", userID.String())
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retry := result.RetryAfter(m.now())
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many will changes. Please try again later.",
				RetryAfter: retry,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
