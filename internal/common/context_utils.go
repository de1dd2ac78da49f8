package common

import (
	"context"
	"fmt"
	"strings"

	"socialai/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	// PrincipalKey holds the resolved *models.Principal on both the echo
	// context and the request context.
	PrincipalKey contextKey = "principal"
)

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom reads the principal from a plain context.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

// PrincipalFromContext reads the principal set by the session middleware.
// It returns nil when the request carries no valid session.
func PrincipalFromContext(c echo.Context) *models.Principal {
	if p, ok := c.Get(string(PrincipalKey)).(*models.Principal); ok && p != nil {
		return p
	}
	if p, ok := PrincipalFrom(c.Request().Context()); ok {
		return p
	}
	return nil
}

// SetPrincipal stores p on the echo context and the request context.
func SetPrincipal(c echo.Context, p *models.Principal) {
	c.Set(string(PrincipalKey), p)
	c.SetRequest(c.Request().WithContext(WithPrincipal(c.Request().Context(), p)))
}

// ValidateUUID parses a path or body id.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", models.ErrInvalidInput, fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a valid UUID", models.ErrInvalidInput, fieldName)
	}
	return id, nil
}
