package handlers

import (
	"net/http"
	"time"

	"socialai/internal/common"
	"socialai/internal/models"
	"socialai/internal/services"
	"socialai/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TokenSource locates the raw session token on a request.
type TokenSource interface {
	TokenFromRequest(req *http.Request) string
	CookieName() string
}

// AuthHandlers handles session login, logout and introspection
type AuthHandlers struct {
	authService  services.AuthService
	tokens       TokenSource
	secureCookie bool
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, tokens TokenSource, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

func (h *AuthHandlers) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.tokens.CookieName(),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(token.Token, token.ExpiresAt))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":       user,
		"expires_at": token.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout. It always clears the cookie; a
// failed revocation is logged and the token simply runs to expiry.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if raw := h.tokens.TokenFromRequest(c.Request()); raw != "" {
		if err := h.authService.Logout(c.Request().Context(), raw); err != nil {
			logger.FromContext(c).Warn("logout revocation failed", zap.Error(err))
		}
	}

	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Session handles GET /api/auth/session
func (h *AuthHandlers) Session(c echo.Context) error {
	p := common.PrincipalFromContext(c)
	if p == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          p,
	})
}
