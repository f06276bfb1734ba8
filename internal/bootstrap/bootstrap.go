// Package bootstrap wires configuration into the handler dependencies shared
// by the server and function entrypoints.
package bootstrap

import (
	"context"
	"fmt"

	"imageeditor/internal/http/handlers"
	"imageeditor/internal/infra"
	"imageeditor/internal/materialize"
	"imageeditor/internal/providers/gemini"
	"imageeditor/internal/storage"
)

// NewApp builds the Gemini gateway and the materializer selected by
// resultMode, then the handler container around them.
func NewApp(ctx context.Context, cfg *infra.Config, logger *infra.Logger, resultMode string) (*handlers.App, error) {
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		return nil, err
	}
	gateway := gemini.New(client.Models, cfg.GeminiModel, logger)

	results, err := NewMaterializer(ctx, cfg, resultMode)
	if err != nil {
		return nil, err
	}

	return handlers.NewApp(gateway, results, logger, cfg.MaxBodyBytes), nil
}

// NewMaterializer returns the materializer for resultMode.
func NewMaterializer(ctx context.Context, cfg *infra.Config, resultMode string) (materialize.Materializer, error) {
	namer := materialize.NewNamer(nil)
	switch resultMode {
	case infra.ResultModeInline:
		return materialize.NewInline(namer), nil
	case infra.ResultModeDisk:
		store, err := storage.NewFileStore(cfg.GeneratedDir)
		if err != nil {
			return nil, err
		}
		return materialize.NewDisk(store, cfg.GeneratedURLPrefix, namer), nil
	case infra.ResultModeS3:
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		store, err := storage.NewS3Store(client, cfg.S3.Bucket, cfg.S3.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return materialize.NewObject(store, cfg.S3.PublicBaseURL, namer), nil
	default:
		return nil, fmt.Errorf("bootstrap: unsupported result mode %q", resultMode)
	}
}
