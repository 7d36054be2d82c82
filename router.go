package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Yulian302/taskflow-gateway/auth/handlers"
	"github.com/Yulian302/taskflow-gateway/health"
	"github.com/Yulian302/taskflow-gateway/logging"
	"github.com/Yulian302/taskflow-gateway/middleware"
	"github.com/Yulian302/taskflow-gateway/ratelimit"
	"github.com/Yulian302/taskflow-gateway/responses"
	"github.com/Yulian302/taskflow-gateway/routers"
	"github.com/Yulian302/taskflow-gateway/tasks"
	"github.com/Yulian302/taskflow-gateway/tracing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func BuildRouter(app *App) *gin.Engine {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	applyCors(r, app)
	applyTracing(r, app)
	applyLogging(r, app)
	applyRateLimiting(r, app)
	applySwagger(r, app)

	registerRoutes(r, app, app.Services)

	return r
}

func applyCors(r *gin.Engine, app *App) {
	origins := strings.Split(app.Config.CorsConfig.Origins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	r.Use(cors.New(
		cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", logging.RequestIDHeader},
			ExposeHeaders:    []string{logging.RequestIDHeader},
			AllowCredentials: true,
		},
	))
}

func applyLogging(r *gin.Engine, app *App) {
	r.Use(logging.LoggerMiddleware(app.Logger))
}

func applyRateLimiting(r *gin.Engine, app *App) {
	if app.Redis == nil {
		return
	}
	rateLimiter := ratelimit.NewRedisRateLimiter(app.Redis)
	r.Use(middleware.RateLimiterMiddleware(rateLimiter, app.Config.RateLimitConfig.Limit, app.Config.RateLimitConfig.Window))
}

func applyTracing(r *gin.Engine, app *App) {
	if !app.Config.TracingConfig.Enabled {
		return
	}

	tp, err := tracing.StartTracing(context.Background(), app.Config.TracingConfig)
	if err != nil {
		app.Logger.Error("failed to start tracing; continuing without it", slog.Any("error", err))
		return
	}

	app.TracerProvider = tp
	r.Use(otelgin.Middleware(app.Config.TracingConfig.ServiceName))
}

func applySwagger(r *gin.Engine, app *App) {
	if app.Config.IsProduction() {
		return
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func registerRoutes(r *gin.Engine, app *App, s *Services) {
	r.GET("/test", func(ctx *gin.Context) {
		responses.JSONSuccess(ctx, "ok")
	})

	health.RegisterHealthRoutes(
		health.NewHealthHandler(
			s.Stores.backend,
		),
		r,
	)

	routers.RegisterAuthRoutes(
		handlers.NewGoogleHandler(s.Auth),
		handlers.NewUserHandler(s.Auth),
		s.Tokens,
		r,
	)

	routers.RegisterTaskRoutes(
		tasks.NewTaskHandler(s.Tasks),
		s.Tokens,
		r,
	)
}
