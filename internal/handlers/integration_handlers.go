package handlers

import (
	"net/http"
	"net/url"

	"socialai/internal/common"
	"socialai/internal/services"
	"socialai/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	integrationsPage = "/settings/integrations"
	loginPage        = "/login"
)

// IntegrationHandlers handles the OAuth connect flows for Google Drive and LinkedIn
type IntegrationHandlers struct {
	googleDrive services.GoogleDriveService
	linkedIn    services.LinkedInService
	publicURL   string
}

func NewIntegrationHandlers(googleDrive services.GoogleDriveService, linkedIn services.LinkedInService, publicURL string) *IntegrationHandlers {
	return &IntegrationHandlers{
		googleDrive: googleDrive,
		linkedIn:    linkedIn,
		publicURL:   publicURL,
	}
}

func (h *IntegrationHandlers) settingsURL(key, value string) string {
	return h.publicURL + integrationsPage + "?" + url.Values{key: {value}}.Encode()
}

// callbackParams reads code and state, or reports a provider-side denial.
func callbackParams(c echo.Context) (code, state, denied string, err error) {
	if denied = c.QueryParam("error"); denied != "" {
		return "", "", denied, nil
	}
	code = c.QueryParam("code")
	state = c.QueryParam("state")
	if code == "" || state == "" {
		return "", "", "", common.NewError(http.StatusBadRequest, "Invalid request", "code and state are required")
	}
	return code, state, "", nil
}

// ConnectGoogleDrive handles GET /api/integrations/google-drive/connect
func (h *IntegrationHandlers) ConnectGoogleDrive(c echo.Context) error {
	authURL, err := h.googleDrive.AuthURL(c.Request().Context(), common.PrincipalFromContext(c))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, authURL)
}

// GoogleDriveCallback handles GET /api/integrations/google-drive/callback
func (h *IntegrationHandlers) GoogleDriveCallback(c echo.Context) error {
	code, state, denied, err := callbackParams(c)
	if err != nil {
		return err
	}
	if denied != "" {
		logger.FromContext(c).Info("google drive consent denied", zap.String("error", denied))
		return c.Redirect(http.StatusFound, h.settingsURL("error", denied))
	}

	if _, err := h.googleDrive.HandleCallback(c.Request().Context(), code, state); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.settingsURL("connected", "google-drive"))
}

// DisconnectGoogleDrive handles POST /api/integrations/google-drive/disconnect
func (h *IntegrationHandlers) DisconnectGoogleDrive(c echo.Context) error {
	removed, err := h.googleDrive.Disconnect(c.Request().Context(), common.PrincipalFromContext(c))
	if err != nil {
		return err
	}

	message := "Google Drive disconnected successfully"
	if removed == 0 {
		message = "Google Drive was not connected"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

// LinkedInAuth handles GET /api/integrations/linkedin/auth. Browsers land
// here directly, so an anonymous caller is sent to the login page.
func (h *IntegrationHandlers) LinkedInAuth(c echo.Context) error {
	p := common.PrincipalFromContext(c)
	if p == nil {
		return c.Redirect(http.StatusFound, h.publicURL+loginPage)
	}

	authURL, err := h.linkedIn.AuthURL(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, authURL)
}

// LinkedInCallback handles GET /api/integrations/linkedin/callback
func (h *IntegrationHandlers) LinkedInCallback(c echo.Context) error {
	code, state, denied, err := callbackParams(c)
	if err != nil {
		return err
	}
	if denied != "" {
		logger.FromContext(c).Info("linkedin consent denied", zap.String("error", denied))
		return c.Redirect(http.StatusFound, h.settingsURL("error", denied))
	}

	if _, err := h.linkedIn.HandleCallback(c.Request().Context(), code, state); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.settingsURL("connected", "linkedin"))
}

// TestLinkedIn handles GET /api/integrations/linkedin/test
func (h *IntegrationHandlers) TestLinkedIn(c echo.Context) error {
	profile, err := h.linkedIn.TestConnection(c.Request().Context(), common.PrincipalFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"profile": profile,
	})
}
