package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"socialai/internal/models"
	"socialai/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewError builds an echo error carrying an ErrorResponse body.
func NewError(code int, message, details string) *echo.HTTPError {
	return echo.NewHTTPError(code, ErrorResponse{Error: message, Details: details})
}

// HTTPError maps an error onto a status code and body.
func HTTPError(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case ErrorResponse:
			return he.Code, msg
		case string:
			return he.Code, ErrorResponse{Error: msg}
		default:
			return he.Code, ErrorResponse{Error: http.StatusText(he.Code)}
		}
	}

	var upstream *models.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   fmt.Sprintf("%s request failed", upstream.Provider),
			Details: upstream.Message,
		}
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"}
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "Forbidden"}
	case errors.Is(err, models.ErrNoTenant):
		return http.StatusNotFound, ErrorResponse{Error: "Tenant not found"}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not found"}
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: hint(err, models.ErrInvalidInput)}
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: "Conflict", Details: hint(err, models.ErrConflict)}
	case errors.Is(err, models.ErrMisconfigured):
		return http.StatusInternalServerError, ErrorResponse{Error: "Misconfigured", Details: hint(err, models.ErrMisconfigured)}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"}
}

// hint strips the sentinel prefix from a wrapped message.
func hint(err, sentinel error) string {
	return strings.TrimPrefix(strings.TrimPrefix(err.Error(), sentinel.Error()), ": ")
}

// HTTPErrorHandler renders errors returned from handlers and middleware.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := HTTPError(err)
	log := logger.FromContext(c)
	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.Int("status", code), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Int("status", code), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		log.Warn("write error response", zap.Error(err))
	}
}
