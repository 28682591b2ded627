package main

import (
	"context"
	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hyperdxio/otel-config-go/otelconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"log/slog"
	"net/http"
	"tryon/api/rest"
	"tryon/config"
	"tryon/journal"
	"tryon/provider"
	"tryon/service"
	"tryon/shared/log"
	"tryon/shared/metrics"
	"tryon/shared/trace"
	"tryon/storage"
)

//	@title			Virtual try-on proxy
//	@version		1.0
//	@description	Forwards shopper photos to image editing providers and serves size charts

// @BasePath	/
func main() {
	serviceConfig := config.New()

	ctx := context.Background()

	tp := trace.InitTrace(serviceConfig.TraceStdout)
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		slog.Error("Error configuring OpenTelemetry", "error", err)
	}
	defer otelShutdown()

	logger := log.InitLogger(ctx, serviceConfig.LogLevel)
	defer func() {
		if err = logger.Sync(); err != nil {
			slog.Error("Error syncing logger", "error", err)
		}
	}()

	resolver := storage.NewResolver(nil, serviceConfig.S3.PresignTTL())
	if serviceConfig.S3.Enabled() {
		s3Client, err := storage.NewS3(serviceConfig.S3)
		if err != nil {
			logger.Error(err.Error())
			panic("Failed to create aws session")
		}
		resolver = storage.NewResolver(s3Client, serviceConfig.S3.PresignTTL())
	}

	var recorder journal.Recorder = journal.Nop{}
	if serviceConfig.Mongo.Enabled() {
		mongoJournal, err := journal.NewMongo(serviceConfig.Mongo)
		if err != nil {
			logger.Error(err.Error())
			panic("Failed to connect attempt journal")
		}
		defer func() {
			if err := mongoJournal.Close(ctx); err != nil {
				logger.Error("Error closing attempt journal", zap.Error(err))
			}
		}()
		recorder = mongoJournal
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serviceMetrics := metrics.New(registry)

	if !serviceConfig.Providers().Any() {
		logger.Warn("No image provider credentials configured, try-on requests will fail")
	}

	providers := provider.NewFactory(serviceConfig.Endpoints(), &http.Client{}, logger)

	app := fiber.New(fiber.Config{
		AppName:      serviceConfig.AppName,
		BodyLimit:    serviceConfig.BodyLimit(),
		ErrorHandler: rest.ErrorHandler,
	})
	app.Use(
		rest.CORS(),
		recover.New(),
		otelfiber.Middleware(),
		fiberzap.New(fiberzap.Config{Logger: logger}),
		compress.New(compress.Config{Level: compress.LevelBestSpeed}),
		etag.New(etag.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.Method() != fiber.MethodGet
			},
		}),
		limiter.New(limiter.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.IP() == "127.0.0.1"
			},
			Max:        serviceConfig.RateLimitMaxRequests,
			Expiration: serviceConfig.RateLimitDuration(),
		}),
		swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Virtual try-on proxy",
		}),
	)

	tryOnService := service.NewTryOnService(serviceConfig, providers, resolver, recorder, serviceMetrics, logger)

	rest.NewTryOnController(app, serviceConfig, tryOnService, logger)
	rest.NewSizeGuideController(app)
	rest.NewHealthController(app, registry)

	if err = app.Listen(":" + serviceConfig.Port); err != nil {
		logger.Panic(err.Error())
		return
	}
}
