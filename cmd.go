package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Yulian302/taskflow-gateway/config"
	"github.com/Yulian302/taskflow-gateway/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow-gateway",
	Short: "Taskflow API gateway",
	Long: `Taskflow gateway signs users in with Google and serves their tasks.
Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or apply the schema for the configured store",
	RunE:  runMigrate,
}

var addrFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "listen address (overrides GATEWAY_ADDR)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, err
	}
	if addrFlag != "" {
		cfg.GatewayAddr = addrFlag
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := SetupApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	router := BuildRouter(app)

	defer app.Shutdown(context.Background())

	if err := app.Run(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.CreateLogger(cfg.Env)
	ctx := logging.WithLogger(cmd.Context(), logger)

	backend, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Shutdown(ctx)

	if err := backend.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("migration complete", slog.String("store", backend.Name()))
	return nil
}
