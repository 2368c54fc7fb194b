package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "postboost-backend/internal/common/errors"
	"postboost-backend/internal/common/middleware"
	"postboost-backend/internal/features/settings/models"
	"postboost-backend/internal/features/settings/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// RegisterRoutes mounts the pricing configuration on the admin group.
func (h *SettingsHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/settings", h.get)
	admin.PATCH("/settings", h.update)
}

// @Summary Pricing settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Settings
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/settings [get]
func (h *SettingsHandler) get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		middleware.AbortWithAppError(c, mapSettingsError(err))
		return
	}
	c.JSON(http.StatusOK, settings)
}

// @Summary Edit pricing settings
// @Description Partial update; omitted fields keep their value
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body models.SettingsPatch true "Fields to change"
// @Success 200 {object} models.Settings
// @Failure 400 {object} middleware.ErrorResponse
// @Router /admin/settings [patch]
func (h *SettingsHandler) update(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.AbortWithAppError(c, apperrors.New(apperrors.ErrCodeBadRequest, err.Error()))
		return
	}

	settings, err := h.service.Update(c.Request.Context(), patch)
	if err != nil {
		middleware.AbortWithAppError(c, mapSettingsError(err))
		return
	}
	c.JSON(http.StatusOK, settings)
}

func mapSettingsError(err error) *apperrors.AppError {
	if errors.Is(err, service.ErrInvalidSettings) {
		return apperrors.New(apperrors.ErrCodeValidation, err.Error())
	}
	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Settings operation failed")
}
