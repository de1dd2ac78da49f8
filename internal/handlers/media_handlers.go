package handlers

import (
	"net/http"
	"strconv"

	"socialai/internal/common"
	"socialai/internal/repositories"
	"socialai/internal/services"

	"github.com/labstack/echo/v4"
)

type MediaHandlers struct {
	mediaService services.MediaService
}

func NewMediaHandlers(mediaService services.MediaService) *MediaHandlers {
	return &MediaHandlers{mediaService: mediaService}
}

// ListDriveMedia handles GET /api/drive-media
func (h *MediaHandlers) ListDriveMedia(c echo.Context) error {
	limit := repositories.MaxDriveMediaPage
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return common.NewError(http.StatusBadRequest, "Invalid request", "limit must be a positive integer")
		}
		limit = n
	}

	media, err := h.mediaService.ListRecent(c.Request().Context(), common.PrincipalFromContext(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"media": media,
		"count": len(media),
	})
}
