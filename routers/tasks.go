package routers

import (
	"github.com/Yulian302/taskflow-gateway/auth"
	"github.com/Yulian302/taskflow-gateway/tasks"
	"github.com/gin-gonic/gin"
)

func RegisterTaskRoutes(h *tasks.TaskHandler, parser auth.TokenParser, route *gin.Engine) {
	taskGroup := route.Group("/api/tasks", auth.JWTMiddleware(parser))

	taskGroup.GET("/", h.List)
	taskGroup.POST("/", h.Create)
	taskGroup.GET("/:id/", h.Get)
	taskGroup.PUT("/:id/", h.Replace)
	taskGroup.PATCH("/:id/", h.Update)
	taskGroup.DELETE("/:id/", h.Delete)
}
