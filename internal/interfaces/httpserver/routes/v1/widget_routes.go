package v1

import (
	"github.com/gin-gonic/gin"
)

// registerWidgetRoutes attaches the public widget endpoints. These are
// credentialed by embed tokens, not by dashboard auth.
func (r *Routes) registerWidgetRoutes(group *gin.RouterGroup) {
	widget := group.Group("/widget")
	widget.GET("/session", r.handlers.Session.Session)
	widget.POST("/chat", r.handlers.Chat.Chat)
}
