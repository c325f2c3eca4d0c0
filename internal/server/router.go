package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"persona-match/internal/common/logger"
)

const requestIDKey = "requestId"

// RequestIDMiddleware tags every request with a UUID, echoed back in the
// X-Request-ID header and attached to all log lines for the request.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDFrom returns the request id set by RequestIDMiddleware, or an
// empty string outside of it.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// NewRouter wires the HTTP surface: the interactive form, the analyze API,
// health, and Prometheus metrics. templateGlob may be empty in tests that
// never hit the HTML route.
func NewRouter(handler *Handler, log logger.Logger, templateGlob string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	if templateGlob != "" {
		router.LoadHTMLGlob(templateGlob)
		router.GET("/", handler.HandleIndex)
	}

	router.POST("/api/analyze", handler.HandleAnalyze)
	router.GET("/health", handler.HandleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info("router configured", map[string]interface{}{
		"routes": []string{"/", "/api/analyze", "/health", "/metrics"},
	})

	return router
}
