package api

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/github-webhook", h.GithubWebhookHandler)
		apiGroup.GET("/health", h.HealthCheckHandler)
	}
	return router
}
