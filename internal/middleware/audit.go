package middleware

import (
	"net/http"
	"time"

	"socialai/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditMiddleware writes one structured audit line for every mutating
// request made by an authenticated principal.
type AuditMiddleware struct {
	log *zap.Logger
}

func NewAuditMiddleware(log *zap.Logger) *AuditMiddleware {
	return &AuditMiddleware{log: log.Named("audit")}
}

func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			p := common.PrincipalFromContext(c)
			if p == nil {
				return nil
			}

			fields := []zap.Field{
				zap.String("actor_id", p.ID.String()),
				zap.String("actor_role", string(p.Role)),
				zap.String("method", method),
				zap.String("route", c.Path()),
				zap.String("resource_id", c.Param("id")),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			if p.TenantID != nil {
				fields = append(fields, zap.String("tenant_id", p.TenantID.String()))
			}
			m.log.Info("mutation", fields...)
			return nil
		}
	}
}
