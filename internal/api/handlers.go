// Package api exposes the settings HTTP surface consumed by the UI.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"taskdeck/internal/providers"
	"taskdeck/internal/services"
)

type Handler struct {
	configs services.ProviderConfigService
}

func NewHandler(configs services.ProviderConfigService) *Handler {
	return &Handler{configs: configs}
}

// GetAIConfig returns the user's resolved active configuration (or null)
// together with registry defaults for the UI.
func (h *Handler) GetAIConfig(c *gin.Context) {
	cfg, err := h.configs.GetActive(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"config":   cfg,
		"defaults": h.configs.Defaults(),
	})
}

// PutAIConfig upserts the user's active configuration from a partial patch.
func (h *Handler) PutAIConfig(c *gin.Context) {
	var patch services.ProviderConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	cfg, err := h.configs.UpsertActive(c.Request.Context(), userID(c), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// TestAIConnection probes the active configuration with one minimal
// generation request.
func (h *Handler) TestAIConnection(c *gin.Context) {
	result, err := h.configs.TestConnection(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAIModels returns the models the active credential can access.
func (h *Handler) ListAIModels(c *gin.Context) {
	result, err := h.configs.ListProviderModels(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LocalServiceHealth checks whether an auxiliary local service endpoint is
// up. Failure is encoded in the body, never the status code.
func (h *Handler) LocalServiceHealth(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		c.JSON(http.StatusOK, providers.HealthResult{Error: "url query parameter is required"})
		return
	}
	c.JSON(http.StatusOK, h.configs.CheckLocalService(c.Request.Context(), url))
}

// writeError maps the service error taxonomy onto HTTP statuses: validation,
// not-configured, and connectivity failures are client errors; corruption and
// everything else is a server error.
func writeError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var requestErr *providers.RequestError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, services.ErrNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &requestErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": requestErr.Message})
	default:
		log.WithError(err).Error("settings request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
