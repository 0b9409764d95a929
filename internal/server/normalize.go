package server

import (
	"net/http"
	"strconv"
	"time"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
)

const (
	codeInternal         = "INTERNAL_ERROR"
	codeNotFound         = "NOT_FOUND"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// normalize stamps the security and CORS headers on every response and turns
// handler errors into the error envelope.
func (s *Server) normalize(next Handler) Handler {
	return func(c *Context) error {
		setSecurityHeaders(c.Header())
		s.setCORSHeaders(c)

		err := next(c)
		if err == nil {
			return nil
		}
		svcErr, ok := services.AsError(err)
		if !ok {
			svcErr = services.NewError(services.KindInternal, codeInternal, "Internal server error").WithCause(err)
		}
		s.logFailure(c, svcErr)
		if c.Writer.Written() {
			return nil
		}
		if svcErr.RetryAfter > 0 {
			c.Header().Set("Retry-After", strconv.Itoa(int(svcErr.RetryAfter/time.Second)))
		}
		status := svcErr.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		if writeErr := c.writeJSON(status, errorEnvelope{
			Error:   svcErr.Message,
			Code:    svcErr.Code,
			Details: svcErr.Details,
		}); writeErr != nil {
			c.logger.Debug("error response write failed", logging.Error(writeErr))
		}
		return nil
	}
}

func (s *Server) logFailure(c *Context, svcErr *services.Error) {
	attrs := []logging.Attr{
		logging.String("code", svcErr.Code),
		logging.Int("status", svcErr.Status),
		logging.String("path", c.Request.URL.Path),
	}
	if svcErr.Err != nil {
		attrs = append(attrs, logging.Error(svcErr.Err))
	}
	if svcErr.Status >= http.StatusInternalServerError {
		logging.ErrorWithContext(c.logger, "request failed", "request_failed", attrs...)
		return
	}
	c.logger.Debug("request rejected", logging.Args(attrs...)...)
}

// recoverPanics converts a panic into an internal error.
func (s *Server) recoverPanics(next Handler) Handler {
	return func(c *Context) (err error) {
		defer func() {
			if v := recover(); v != nil {
				panicRecoveries.Inc()
				logging.ErrorWithContext(c.logger, "panic recovered", "panic",
					logging.Any("panic", v),
					logging.String("path", c.Request.URL.Path),
					logging.String("method", c.Request.Method),
				)
				err = services.NewError(services.KindInternal, codeInternal, "Internal server error")
			}
		}()
		return next(c)
	}
}
