package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/server/http/dto"
)

// SettingsHandler manages the operator configuration endpoints.
type SettingsHandler struct {
	facade SettingsFacade
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(facade SettingsFacade) *SettingsHandler {
	return &SettingsHandler{facade: facade}
}

// Get handles GET /api/config.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.facade.Settings(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to load configuration")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(*settings))
}

// Update handles PUT /api/config.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "malformed configuration payload")
		return
	}

	settings, err := h.facade.UpdateSettings(c.Request.Context(), req.ToSettings())
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidPayload) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to store configuration")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(*settings))
}
