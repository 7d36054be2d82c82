package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Yulian302/taskflow-gateway/config"
	"github.com/Yulian302/taskflow-gateway/logging"
	"github.com/Yulian302/taskflow-gateway/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/sdk/trace"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Store  store.Backend
	Redis  *redis.Client
	Logger *slog.Logger

	Config config.Config

	Services       *Services
	TracerProvider *trace.TracerProvider
}

func SetupApp(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.ValidateAllSecrets(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.CreateLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("starting gateway", slog.Any("config", cfg))

	backend, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisConfig.HOST != "" {
		rdb, err = initRedis(ctx, cfg.RedisConfig)
		if err != nil {
			_ = backend.Shutdown(ctx)
			return nil, err
		}
	} else {
		logger.Warn("REDIS_HOST not set; user cache and rate limiting disabled")
	}

	app := &App{
		Store:  backend,
		Redis:  rdb,
		Logger: logger,

		Config: cfg,
	}

	app.Services = BuildServices(app)

	return app, nil
}

// Run serves r until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context, r *gin.Engine) error {
	srv := &http.Server{
		Addr:              a.Config.GatewayAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (store.Backend, error) {
	switch cfg.StoreConfig.Driver {
	case config.StoreDynamoDB:
		awsCfg, err := initAWS(ctx, cfg.AWSConfig)
		if err != nil {
			return nil, err
		}
		db := initDynamo(awsCfg, cfg.AWSConfig.Endpoint)
		return store.NewDynamoStore(db, cfg.DynamoDBConfig.UsersTableName, cfg.DynamoDBConfig.TasksTableName), nil
	case config.StoreSQLite:
		return store.OpenSQLite(cfg.StoreConfig.SQLitePath)
	case config.StorePostgres:
		return store.OpenPostgres(ctx, cfg.StoreConfig.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreConfig.Driver)
	}
}

func initAWS(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

func initDynamo(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.HOST,
		Password: cfg.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

func (a *App) Shutdown(ctx context.Context) {
	if a.Services != nil {
		_ = a.Services.Shutdown(ctx)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.TracerProvider != nil {
		_ = a.TracerProvider.Shutdown(ctx)
	}
}
