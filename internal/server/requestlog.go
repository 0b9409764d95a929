package server

import (
	"log/slog"
	"time"

	"lyricsmith/internal/logging"
)

// logRequests records every request once it completes.
func (s *Server) logRequests(next Handler) Handler {
	return func(c *Context) error {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		err := next(c)

		elapsed := time.Since(c.start)
		status := c.Writer.Status()
		observeRequest(c.Request.Method, c.Route, status, elapsed)

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelWarn
		}
		c.logger.Log(c.Ctx(), level, "request completed", logging.Args(
			logging.String("method", c.Request.Method),
			logging.String("url", c.Request.URL.String()),
			logging.String("user_agent", c.Request.UserAgent()),
			logging.Int("status", status),
			logging.Duration("duration", elapsed),
			logging.Int("bytes", c.Writer.bytes),
		)...)
		return err
	}
}
