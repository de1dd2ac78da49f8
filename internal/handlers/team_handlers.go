package handlers

import (
	"net/http"

	"socialai/internal/common"
	"socialai/internal/services"

	"github.com/labstack/echo/v4"
)

// TeamHandlers handles tenant members and invitations
type TeamHandlers struct {
	teamService   services.TeamService
	tenantService services.TenantService
}

func NewTeamHandlers(teamService services.TeamService, tenantService services.TenantService) *TeamHandlers {
	return &TeamHandlers{teamService: teamService, tenantService: tenantService}
}

// ListMembers handles GET /api/team/members
func (h *TeamHandlers) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()
	p := common.PrincipalFromContext(c)

	tenant, err := h.tenantService.ActingTenant(ctx, p)
	if err != nil {
		return err
	}
	members, err := h.teamService.ListMembers(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
		"tenant":  tenant,
	})
}

// ListInvitations handles GET /api/team/invitations
func (h *TeamHandlers) ListInvitations(c echo.Context) error {
	invitations, err := h.teamService.ListInvitations(c.Request().Context(), common.PrincipalFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invitations": invitations,
	})
}

// CreateInvitation handles POST /api/team/invitations
func (h *TeamHandlers) CreateInvitation(c echo.Context) error {
	var req services.CreateInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inv, token, err := h.teamService.CreateInvitation(c.Request().Context(), common.PrincipalFromContext(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"invitation": inv,
		"token":      token,
	})
}

// CancelInvitation handles DELETE /api/team/invitations/:id
func (h *TeamHandlers) CancelInvitation(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "invitation id")
	if err != nil {
		return err
	}
	if err := h.teamService.CancelInvitation(c.Request().Context(), common.PrincipalFromContext(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invitation cancelled successfully",
	})
}

// AcceptInvitation handles POST /api/team/invitations/accept
func (h *TeamHandlers) AcceptInvitation(c echo.Context) error {
	var req services.AcceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.teamService.AcceptInvitation(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"user": user,
	})
}
