// Command function serves the generation endpoints as an AWS Lambda (the
// runtime behind Netlify functions). Results are returned inline since the
// function has no durable disk.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/joho/godotenv"

	"imageeditor/internal/bootstrap"
	httpapi "imageeditor/internal/http/httpapi"
	"imageeditor/internal/infra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		bootLogger := infra.NewLogger("production", "")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	// Function logs land in the platform console; keep them as JSON.
	logger := infra.NewLogger("production", cfg.LogLevel)

	app, err := bootstrap.NewApp(context.Background(), cfg, &logger, infra.ResultModeInline)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins: []string{"*"},
		APIBasePaths:   []string{"/api", httpapi.FunctionsBasePath},
	})

	logger.Info().Str("model", cfg.GeminiModel).Msg("function ready")
	lambda.Start(httpadapter.New(router).ProxyWithContext)
}
