package api

import (
	"net/http"

	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingsHandler manages the stored AI credential.
type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

type SetAPIKeyRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// APIKeyStatusResponse never contains the key itself.
type APIKeyStatusResponse struct {
	Configured bool   `json:"configured"`
	Source     string `json:"source"`
}

// GetAPIKeyStatus godoc
// @Summary Credential status
// @Description Reports whether an API key is configured and where it comes from.
// @Tags Settings
// @Produce json
// @Success 200 {object} APIKeyStatusResponse
// @Router /settings/api-key [get]
func (h *SettingsHandler) GetAPIKeyStatus(c *gin.Context) {
	source, err := h.settingsService.APIKeyStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, APIKeyStatusResponse{
		Configured: source != service.CredentialSourceNone,
		Source:     source,
	})
}

// SetAPIKey godoc
// @Summary Store the API key
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body SetAPIKeyRequest true "Gemini API key"
// @Success 200 {object} APIKeyStatusResponse
// @Failure 400 {object} ErrorResponse "Empty key"
// @Router /settings/api-key [put]
func (h *SettingsHandler) SetAPIKey(c *gin.Context) {
	var req SetAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.settingsService.SetAPIKey(c.Request.Context(), req.APIKey); err != nil {
		respondError(c, err)
		return
	}
	h.GetAPIKeyStatus(c)
}

// ClearAPIKey godoc
// @Summary Remove the stored API key
// @Description The configured default key, if any, applies again.
// @Tags Settings
// @Success 204 "Cleared"
// @Router /settings/api-key [delete]
func (h *SettingsHandler) ClearAPIKey(c *gin.Context) {
	if err := h.settingsService.ClearAPIKey(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
