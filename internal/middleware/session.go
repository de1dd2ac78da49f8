package middleware

import (
	"errors"

	"socialai/internal/common"
	"socialai/internal/models"
	"socialai/internal/session"
	"socialai/pkg/logger"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionMiddleware resolves the session token, if any, and stores the
// principal on the context. It never rejects a request; route guards do.
func SessionMiddleware(resolver *session.Resolver) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + resolver.CookieName() + ",header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			p, _, err := resolver.ParseToken(c.Request().Context(), auth)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		SuccessHandler: func(c echo.Context) {
			if p, ok := c.Get("user").(*models.Principal); ok {
				common.SetPrincipal(c, p)
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if !errors.Is(err, echojwt.ErrJWTMissing) {
				logger.FromContext(c).Warn("session not resolved", zap.Error(err))
			}
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}
