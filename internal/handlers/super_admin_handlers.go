package handlers

import (
	"errors"
	"net/http"
	"time"

	"socialai/internal/common"
	"socialai/internal/models"
	"socialai/internal/services"
	"socialai/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const pricingResetMessage = "All pricing configurations reset to defaults successfully"

// SuperAdminHandlers serves the platform operator console. Every route is
// mounted behind the SUPER_ADMIN guard.
type SuperAdminHandlers struct {
	pricingService      services.PricingService
	stripeService       services.StripeService
	subscriptionService services.SubscriptionService
	tenantService       services.TenantService
}

func NewSuperAdminHandlers(pricingService services.PricingService, stripeService services.StripeService, subscriptionService services.SubscriptionService, tenantService services.TenantService) *SuperAdminHandlers {
	return &SuperAdminHandlers{
		pricingService:      pricingService,
		stripeService:       stripeService,
		subscriptionService: subscriptionService,
		tenantService:       tenantService,
	}
}

// ResetPricing handles POST /api/super-admin/pricing/reset
func (h *SuperAdminHandlers) ResetPricing(c echo.Context) error {
	removed, err := h.pricingService.Reset(c.Request().Context(), common.PrincipalFromContext(c))
	if err != nil {
		return err
	}

	logger.FromContext(c).Info("pricing reset", zap.Int64("removed", removed))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   pricingResetMessage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// UpdatePricing handles PUT /api/super-admin/pricing/:planId
func (h *SuperAdminHandlers) UpdatePricing(c echo.Context) error {
	planID := c.Param("planId")
	var req services.UpdatePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	plan, err := h.pricingService.UpdatePlan(c.Request().Context(), common.PrincipalFromContext(c), planID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"plan": plan,
	})
}

// TestStripe handles POST /api/super-admin/stripe/test. A missing key is the
// operator's input problem here, so it answers 400 instead of 500.
func (h *SuperAdminHandlers) TestStripe(c echo.Context) error {
	account, err := h.stripeService.TestConnection(c.Request().Context())
	if errors.Is(err, models.ErrMisconfigured) {
		_, body := common.HTTPError(err)
		return c.JSON(http.StatusBadRequest, body)
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":         true,
		"accountId":       account.ID,
		"email":           account.Email,
		"country":         account.Country,
		"defaultCurrency": account.DefaultCurrency,
		"chargesEnabled":  account.ChargesEnabled,
		"payoutsEnabled":  account.PayoutsEnabled,
	})
}

// ListSubscriptions handles GET /api/super-admin/subscriptions
func (h *SuperAdminHandlers) ListSubscriptions(c echo.Context) error {
	subs, err := h.subscriptionService.ListAll(c.Request().Context(), common.PrincipalFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subs,
		"count":         len(subs),
	})
}

// ListTenants handles GET /api/super-admin/tenants?limit=&offset=
func (h *SuperAdminHandlers) ListTenants(c echo.Context) error {
	var q services.ListTenantsQuery
	if err := c.Bind(&q); err != nil {
		return common.NewError(http.StatusBadRequest, "Invalid request", "limit and offset must be integers")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	tenants, err := h.tenantService.ListAll(c.Request().Context(), common.PrincipalFromContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenants": tenants,
		"count":   len(tenants),
	})
}
