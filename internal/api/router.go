package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/services"
)

// userHeader carries the authenticated user identity established by the
// session layer in front of this service.
const userHeader = "X-User-ID"

const userKey = "userID"

// NewRouter builds the settings API router.
func NewRouter(svc *services.Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	handler := NewHandler(svc.ProviderConfigs)

	settings := router.Group("/api/settings", requireUser())
	{
		settings.GET("/ai", handler.GetAIConfig)
		settings.PUT("/ai", handler.PutAIConfig)
		settings.GET("/ai/test", handler.TestAIConnection)
		settings.GET("/ai/models", handler.ListAIModels)
		settings.GET("/local-health", handler.LocalServiceHealth)
	}

	return router
}

// requireUser rejects requests that arrive without an authenticated identity.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(userHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userKey, id)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}
