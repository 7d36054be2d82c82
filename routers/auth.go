package routers

import (
	"github.com/Yulian302/taskflow-gateway/auth"
	"github.com/Yulian302/taskflow-gateway/auth/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(gh *handlers.GoogleHandler, uh *handlers.UserHandler, parser auth.TokenParser, route *gin.Engine) {
	authGroup := route.Group("/auth")

	authGroup.POST("/google/", gh.Login)

	protected := authGroup.Group("", auth.JWTMiddleware(parser))
	protected.GET("/user/", uh.Me)
	protected.POST("/logout/", uh.Logout)
}
