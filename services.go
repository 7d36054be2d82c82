package main

import (
	"context"
	"log/slog"

	"github.com/Yulian302/taskflow-gateway/auth/oauth"
	jwttypes "github.com/Yulian302/taskflow-gateway/jwt"
	"github.com/Yulian302/taskflow-gateway/services"
	"github.com/Yulian302/taskflow-gateway/services/caching"
	"github.com/Yulian302/taskflow-gateway/store"
)

type Stores struct {
	backend store.Backend
}

type Providers struct {
	Google oauth.Provider
}

type Services struct {
	Auth  services.AuthService
	Tasks services.TaskService

	Tokens *jwttypes.TokenIssuer

	Stores *Stores

	Providers *Providers
}

func BuildServices(app *App) *Services {
	var cacheSvc caching.CachingService = caching.NewNullCachingService()
	if app.Redis != nil {
		cacheSvc = caching.NewRedisCachingService(app.Redis)
	}

	usrStore := store.NewCachedUserStore(app.Store.Users(), cacheSvc, app.Config.RedisConfig.UserTTL)
	taskStore := app.Store.Tasks()

	googleProvider := oauth.NewGoogleProvider(&app.Config.GoogleConfig, nil)

	tokens := jwttypes.NewTokenIssuer(
		app.Config.JWTConfig.SecretKey,
		app.Config.JWTConfig.RefreshSecretKey,
		app.Config.JWTConfig.AccessTTL,
		app.Config.JWTConfig.RefreshTTL,
	)

	return &Services{
		Auth:  services.NewAuthServiceImpl(googleProvider, usrStore, tokens),
		Tasks: services.NewTaskServiceImpl(taskStore),

		Tokens: tokens,

		Stores: &Stores{
			backend: app.Store,
		},

		Providers: &Providers{
			Google: googleProvider,
		},
	}
}

func (s *Services) Shutdown(ctx context.Context) error {
	slog.Info("shutting down services")

	if s.Stores != nil {
		if err := s.Stores.Shutdown(ctx); err != nil {
			slog.Error("stores shutdown error", slog.Any("error", err))
		}
	}

	slog.Info("services shutdown complete")
	return nil
}

func (s *Stores) Shutdown(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Shutdown(ctx); err != nil {
		slog.Error("store shutdown error", slog.String("store", s.backend.Name()), slog.Any("error", err))
		return err
	}
	return nil
}
