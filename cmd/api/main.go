package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"imageeditor/internal/bootstrap"
	httpapi "imageeditor/internal/http/httpapi"
	"imageeditor/internal/infra"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("production", "")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx := context.Background()
	app, err := bootstrap.NewApp(ctx, cfg, &logger, cfg.ResultMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		PublicDir:          cfg.PublicDir,
		GeneratedDir:       cfg.GeneratedDir,
		GeneratedURLPrefix: cfg.GeneratedURLPrefix,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("model", cfg.GeminiModel).
			Str("result_mode", cfg.ResultMode).
			Msg("image editor listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
