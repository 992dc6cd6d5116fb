package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"strandctl/internal/adapter/bedrock"
	"strandctl/internal/domain"
	"strandctl/internal/infra/config"
	"strandctl/internal/infra/logger"
	"strandctl/internal/infra/tracer"
	"strandctl/internal/usecase"
)

// app bundles the wired components behind every command: configuration,
// logging, the Bedrock client, and the workflow orchestrator on top of it.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *bedrock.Client
	flow   *usecase.Orchestrator

	closers []func()
}

// newApp loads configuration, applies flag overrides, and wires the client
// stack. Callers must Close the returned app.
func newApp(ctx context.Context) (*app, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{cfg: cfg}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a.logger = log
	a.closers = append(a.closers, func() { _ = logCloser() })

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("tracer: %w", err)
	}
	a.closers = append(a.closers, func() { _ = tracerShutdown(context.Background()) })

	client, err := bedrock.New(ctx, cfg.AWS, cfg.Workflow.ListPageSize, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("bedrock: %w", err)
	}
	a.client = client

	var api domain.AgentAPI = client
	if cfg.Breaker.Enabled {
		api = bedrock.NewBreakerClient(client, cfg.Breaker, log)
	}
	a.flow = usecase.NewOrchestrator(api, cfg.Workflow, log)

	return a, nil
}

// Close releases resources in reverse wiring order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// loadDotenv loads --env-file when given, or ./.env when present. An
// explicit file that cannot be read is a usage error; a missing default
// .env is not.
func loadDotenv() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return usageErrorf("env file %s: %v", envFile, err)
		}
		return nil
	}
	_ = godotenv.Load()
	return nil
}

// loadConfig resolves the config path and loads it. Explicitly named files
// must exist; the default path falls back to built-in defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, usageErrorf("config file %s: %v", cfgFile, err)
		}
		return config.Load(cfgFile)
	}
	if p := os.Getenv("STRANDCTL_CONFIG"); p != "" {
		return config.Load(p)
	}
	return config.Load("strandctl.yaml")
}

// applyFlagOverrides copies persistent flag values over the loaded config.
// Flags outrank both the config file and environment variables.
func applyFlagOverrides(cfg *config.Config) error {
	if region != "" {
		cfg.AWS.Region = region
	}
	if profile != "" {
		cfg.AWS.Profile = profile
	}
	if accessKey != "" || secretKey != "" {
		if accessKey == "" || secretKey == "" {
			return usageErrorf("--access-key and --secret-key must be provided together")
		}
		cfg.AWS.AccessKey = accessKey
		cfg.AWS.SecretKey = secretKey
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logger.Format = logFormat
	}
	return nil
}
