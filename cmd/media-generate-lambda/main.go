// Package main provides the Lambda entry point for image and video
// generation.
//
//   - POST / {"type": "image"|"video", "prompt": "...", "options": {...}}
//   - GET /?task_id=... polls a video job
//
// Provider keys are read from the environment or, when unset, from SSM
// Parameter Store at cold start. A missing key disables that media type.
// Finished media is copied to the S3-compatible bucket when storage
// credentials (S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY) are configured. The
// execution role's AWS_* credentials are never used for the bucket.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/imagegen"
	"github.com/fpang/seo-content-helper/internal/lambdaboot"
	"github.com/fpang/seo-content-helper/internal/logging"
	"github.com/fpang/seo-content-helper/internal/media"
	"github.com/fpang/seo-content-helper/internal/storage"
	"github.com/fpang/seo-content-helper/internal/videogen"
)

var handler http.Handler

func init() {
	initStart := time.Now()
	ctx := context.Background()
	logging.Init()

	clients := lambdaboot.InitAWS()
	lambdaboot.LoadSecrets(ctx, clients.SSM,
		lambdaboot.OpenAIKey, lambdaboot.RunwayKey, lambdaboot.StorageKeyID, lambdaboot.StorageSecret)
	cfg := lambdaboot.LoadConfig()

	var putter storage.ObjectPutter
	if client := lambdaboot.InitStorage(ctx, cfg.Storage); client != nil {
		putter = client
	}
	store := storage.NewMediaStore(putter, cfg.Storage)

	images := imagegen.NewClient(cfg.Image)
	videos, err := videogen.New(cfg.Video)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to select video backend")
	}
	handler = media.NewHandler(media.NewService(images, videos, store))

	lambdaboot.StartupLog("media-generate-lambda", initStart).
		S3Bucket("mediaBucket", cfg.Storage.Bucket).
		SSMParam("openaiKey", lambdaboot.OpenAIKey.Path()).
		SSMParam("runwayKey", lambdaboot.RunwayKey.Path()).
		SSMParam("storageKeyID", lambdaboot.StorageKeyID.Path()).
		Feature("images", images.Configured()).
		Feature("videos", cfg.Video.APIKey != "" || cfg.Video.Backend == config.VideoBackendStub).
		Feature("storage", store.Enabled()).
		Config("videoBackend", videos.Name()).
		Config("imageModel", cfg.Image.Model).
		Log()
}

func main() {
	lambda.Start(httpadapter.New(handler).ProxyWithContext)
}
