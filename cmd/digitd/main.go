package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/ekisa-team/digitd/internal/backend"
	"github.com/ekisa-team/digitd/internal/backend/ort"
	"github.com/ekisa-team/digitd/internal/backend/tflite"
	"github.com/ekisa-team/digitd/internal/config"
	"github.com/ekisa-team/digitd/internal/env"
	"github.com/ekisa-team/digitd/internal/logger"
	"github.com/ekisa-team/digitd/internal/model"
	grpcserver "github.com/ekisa-team/digitd/internal/server/grpc"
	httpserver "github.com/ekisa-team/digitd/internal/server/http"
	"github.com/ekisa-team/digitd/internal/service"
)

func main() {
	var (
		flagHTTPPort   = flag.Int("http-port", config.DefaultHTTPPort(), "HTTP port to listen on")
		flagGRPCPort   = flag.Int("grpc-port", config.DefaultGRPCPort(), "GRPC port to listen on")
		flagConfigPath = flag.String("config", path.Join(config.DefaultConfigPath(), "config.yaml"), "Path to config file")
		flagSchemaPath = flag.String("schema", path.Join(config.DefaultConfigPath(), "digitd.v1.schema.json"), "Path to schema file")
	)
	flag.Parse()

	environment := env.FromEnv()

	slog.SetDefault(
		logger.New(environment,
			logger.WithLogToFile(true),
			logger.WithLogFile("logs/digitd.log"),
		),
	)

	backends := backend.NewRegistry()
	backends.Register(tflite.NewBackend())
	backends.Register(ort.NewBackend())
	defer backends.Close()

	manager := model.NewManager(backends)
	defer manager.Close()

	grpcSrv := grpcserver.NewServer()

	watcher, err := config.NewWatcher(*flagConfigPath, *flagSchemaPath, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Error("Failed to reload config", "error", err)
			grpcSrv.SetServing(false)
			return
		}

		if err := manager.LoadModelsFromConfig(context.Background(), cfg); err != nil {
			slog.Error("Failed to load models from config", "error", err)
			grpcSrv.SetServing(false)
			return
		}

		grpcSrv.SetServing(true)
	})
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
		return
	}

	cfg := watcher.Snapshot()
	if err := manager.LoadModelsFromConfig(context.Background(), cfg); err != nil {
		slog.Error("Failed to load models from config", "error", err)
		return
	}
	grpcSrv.SetServing(true)

	slog.Info("Config loaded successfully", "config", *flagConfigPath, "schema", *flagSchemaPath)

	classify := service.NewClassify(manager)

	mux := http.NewServeMux()
	api := humago.New(mux, huma.DefaultConfig("digitd", "1.0.0"))
	httpserver.NewClassifyHandler(api, classify)
	httpserver.NewModelsHandler(api, classify)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *flagHTTPPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server listening", "port", *flagHTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	go func() {
		if err := grpcSrv.Serve(*flagGRPCPort); err != nil {
			slog.Error("gRPC server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	grpcSrv.Stop()
	if err := httpSrv.Shutdown(context.Background()); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
}
