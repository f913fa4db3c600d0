// Package http defines how bounded contexts plug into the gin router.
package http

import (
	"lead_outreach_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is implemented by every bounded context that serves HTTP routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to each module during route registration.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1 behind the rate limiter only. Machine-to-machine routes
	// (generator ingestion, export feed) mount here with their own API key guard.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind operator JWT verification.
	Protected      *gin.RouterGroup
	Config         config.JWTConfig
	AuthMiddleware gin.HandlerFunc
}
