package server

import (
	"net/http"
	"strconv"
	"time"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
)

const (
	codeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	codeRateLimitUnavailable = "RATE_LIMIT_UNAVAILABLE"
)

// rateLimit enforces the general policy per client and route.
func (s *Server) rateLimit(next Handler) Handler {
	return func(c *Context) error {
		if s.limiter == nil {
			return next(c)
		}
		decision, err := s.limiter.Allow(c.Ctx(), s.policy, c.ClientID, c.Route)
		if err != nil {
			if !s.failOpen {
				return services.NewError(services.KindUpstreamUnavailable, codeRateLimitUnavailable, "Rate limiting temporarily unavailable").
					WithStatus(http.StatusServiceUnavailable).
					WithCause(err)
			}
			logging.WarnWithContext(c.logger, "rate limit check failed; allowing request", "rate_limit_unavailable",
				logging.Endpoint(c.Route),
				logging.String(logging.FieldImpact, "request not rate limited"),
				logging.String(logging.FieldErrorHint, "check the rate limit store"),
				logging.Error(err),
			)
			return next(c)
		}
		if !decision.Allowed {
			rateLimitRejects.WithLabelValues(c.Route).Inc()
			return services.NewError(services.KindRateLimited, codeRateLimitExceeded, "Rate limit exceeded").
				WithDetails(map[string]any{
					"limit":         decision.Limit,
					"windowSeconds": int(s.policy.Window / time.Second),
				}).
				WithRetryAfter(decision.RetryAfter)
		}
		h := c.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		return next(c)
	}
}
