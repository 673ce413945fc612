package middleware

import (
	"log/slog"

	"authsvc/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderInternalCall marks requests originating from trusted internal callers.
	HeaderInternalCall = "X-Internal-Call"

	internalCallValue = "true"
)

// InternalMiddleware gates routes that only sibling services may call.
// The header check stands in for network-level isolation; anything without
// the marker is rejected before reaching the handler.
type InternalMiddleware struct {
	logger *slog.Logger
}

// NewInternalMiddleware creates a new internal-call gate middleware.
func NewInternalMiddleware(logger *slog.Logger) *InternalMiddleware {
	return &InternalMiddleware{
		logger: logger,
	}
}

// RequireInternalCall rejects requests that lack the internal marker header.
func (m *InternalMiddleware) RequireInternalCall(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(HeaderInternalCall) != internalCallValue {
			m.logger.Warn("Blocked external call to internal route",
				slog.String("path", c.Request().URL.Path),
				slog.String("remote_ip", c.RealIP()),
			)

			return response.Forbidden(c, "FORBIDDEN", "access denied")
		}

		return next(c)
	}
}
