package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tjfontaine/polyglot-media-gateway/internal/frontdoor/mcp"
	"github.com/tjfontaine/polyglot-media-gateway/internal/media"
	"github.com/tjfontaine/polyglot-media-gateway/internal/pkg/config"
	"github.com/tjfontaine/polyglot-media-gateway/internal/provider/registry"
	"github.com/tjfontaine/polyglot-media-gateway/internal/server"
	"github.com/tjfontaine/polyglot-media-gateway/internal/telemetry"
)

var version = "dev"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("MEDIA_CONFIG", "config.yaml"), "path to the configuration file")
	transport := flag.String("transport", "", "transport override: stdio or http")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	// stdout is the MCP channel under stdio, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *transport, logger); err != nil {
		log.Fatalf("media gateway: %v", err)
	}
}

func run(ctx context.Context, configPath, transport string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if transport != "" {
		cfg.Server.Transport = transport
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, logger, os.Stderr)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	providers := registry.New(cfg.Providers, cfg.DefaultProvider)
	svc := media.NewService(cfg.Defaults, providers, media.WithLogger(logger))
	mcpServer := mcp.NewServer(svc, mcp.Options{
		Name:    cfg.Telemetry.ServiceName,
		Version: version,
		Logger:  logger,
	})

	logger.Info("media gateway starting",
		slog.String("transport", cfg.Server.Transport),
		slog.String("default_provider", cfg.DefaultProvider),
		slog.Any("providers", providers.Names()),
	)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		return server.New(cfg.Server.Port, cfg.Server.Path, mcpServer, logger).Start(ctx)
	default:
		if err := mcpServer.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
