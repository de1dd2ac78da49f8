package handlers

import (
	"net/http"

	"socialai/internal/services"

	"github.com/labstack/echo/v4"
)

// PricingHandlers serves the public pricing page data
type PricingHandlers struct {
	pricingService services.PricingService
}

func NewPricingHandlers(pricingService services.PricingService) *PricingHandlers {
	return &PricingHandlers{pricingService: pricingService}
}

// GetPricing handles GET /api/pricing
func (h *PricingHandlers) GetPricing(c echo.Context) error {
	plans, err := h.pricingService.GetPlans(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"plans": plans,
	})
}
