package v1

import (
	"github.com/gin-gonic/gin"

	"sitebot-server/services/assistant-api/internal/infrastructure/auth"
	"sitebot-server/services/assistant-api/internal/interfaces/httpserver/handlers"
)

// Routes registers the v1 API surface.
type Routes struct {
	handlers *handlers.Provider
	auth     *auth.Validator
}

// NewRoutes constructs the v1 route group.
func NewRoutes(handlerProvider *handlers.Provider, authValidator *auth.Validator) *Routes {
	return &Routes{handlers: handlerProvider, auth: authValidator}
}

// Register attaches all v1 routes to the engine.
func (r *Routes) Register(engine *gin.Engine) {
	v1 := engine.Group("/v1")

	r.registerWidgetRoutes(v1)
	r.registerKnowledgeRoutes(v1)
}
