package middleware

import (
	"socialai/internal/authz"
	"socialai/internal/common"
	"socialai/internal/metrics"
	"socialai/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RBACMiddleware struct {
	metrics *metrics.Metrics
}

func NewRBACMiddleware(m *metrics.Metrics) *RBACMiddleware {
	return &RBACMiddleware{metrics: m}
}

// RequireRoles rejects the request before the handler runs unless the
// principal holds one of the allowed roles.
func (m *RBACMiddleware) RequireRoles(allowed authz.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p := common.PrincipalFromContext(c)
			decision := authz.Authorize(p, allowed)
			if !decision.Allowed {
				if m.metrics != nil {
					m.metrics.AuthDenials.WithLabelValues(string(decision.Reason)).Inc()
				}
				logger.FromContext(c).Info("request denied",
					zap.String("reason", string(decision.Reason)),
					zap.String("path", c.Path()),
				)
				return decision.Err()
			}
			return next(c)
		}
	}
}

// RequireSession admits any authenticated principal.
func (m *RBACMiddleware) RequireSession() echo.MiddlewareFunc {
	return m.RequireRoles(authz.AnyRole)
}
