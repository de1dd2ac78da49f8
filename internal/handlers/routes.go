package handlers

import (
	"socialai/internal/authz"
	"socialai/internal/middleware"

	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth         *AuthHandlers
	Pricing      *PricingHandlers
	Team         *TeamHandlers
	Media        *MediaHandlers
	Integrations *IntegrationHandlers
	SuperAdmin   *SuperAdminHandlers
	Health       *HealthHandlers
}

// RegisterRoutes mounts the API. Session resolution must already be
// installed on e; guards run per route before any handler touches data.
func RegisterRoutes(e *echo.Echo, h *Handlers, rbac *middleware.RBACMiddleware, audit *middleware.AuditMiddleware, version string) {
	api := e.Group("/api", middleware.VersionHeader(version), audit.AuditRequest())

	session := rbac.RequireSession()
	tenantAdmin := rbac.RequireRoles(authz.TenantAdmins)
	superAdmin := rbac.RequireRoles(authz.SuperAdmins)

	api.GET("/health", h.Health.HealthCheck)
	api.GET("/health/live", h.Health.LivenessCheck)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/session", h.Auth.Session)

	api.GET("/pricing", h.Pricing.GetPricing)

	team := api.Group("/team")
	team.GET("/members", h.Team.ListMembers, session)
	team.GET("/invitations", h.Team.ListInvitations, session)
	team.POST("/invitations", h.Team.CreateInvitation, tenantAdmin)
	team.POST("/invitations/accept", h.Team.AcceptInvitation)
	team.DELETE("/invitations/:id", h.Team.CancelInvitation, tenantAdmin)

	api.GET("/drive-media", h.Media.ListDriveMedia, session)

	integrations := api.Group("/integrations")
	integrations.GET("/google-drive/connect", h.Integrations.ConnectGoogleDrive, tenantAdmin)
	integrations.GET("/google-drive/callback", h.Integrations.GoogleDriveCallback)
	integrations.POST("/google-drive/disconnect", h.Integrations.DisconnectGoogleDrive, tenantAdmin)
	integrations.GET("/linkedin/auth", h.Integrations.LinkedInAuth)
	integrations.GET("/linkedin/callback", h.Integrations.LinkedInCallback)
	integrations.GET("/linkedin/test", h.Integrations.TestLinkedIn, session)

	admin := api.Group("/super-admin", superAdmin)
	admin.POST("/pricing/reset", h.SuperAdmin.ResetPricing)
	admin.PUT("/pricing/:planId", h.SuperAdmin.UpdatePricing)
	admin.POST("/stripe/test", h.SuperAdmin.TestStripe)
	admin.GET("/subscriptions", h.SuperAdmin.ListSubscriptions)
	admin.GET("/tenants", h.SuperAdmin.ListTenants)
}
