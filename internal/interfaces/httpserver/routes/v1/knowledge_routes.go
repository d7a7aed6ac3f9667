package v1

import (
	"github.com/gin-gonic/gin"
)

// registerKnowledgeRoutes attaches the dashboard-authenticated ingestion
// endpoints.
func (r *Routes) registerKnowledgeRoutes(group *gin.RouterGroup) {
	knowledge := group.Group("/knowledge")
	knowledge.Use(r.auth.Middleware())
	knowledge.POST("/crawl", r.handlers.Crawl.Crawl)
}
