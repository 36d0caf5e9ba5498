package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
	"github.com/anime-shed/ai-image-detector/internal/config"
	"github.com/anime-shed/ai-image-detector/internal/factory"
	"github.com/anime-shed/ai-image-detector/internal/logger"
	"github.com/anime-shed/ai-image-detector/internal/observer"
	"github.com/anime-shed/ai-image-detector/internal/repository"
	"github.com/anime-shed/ai-image-detector/internal/service"
	"github.com/anime-shed/ai-image-detector/internal/transport"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config               *config.Config
	options              analyzer.Options
	engine               *analyzer.Engine
	imageRepository      repository.ImageRepository
	publisher            *observer.EventPublisher
	metrics              *observer.MetricsObserver
	imageAnalysisService service.ImageAnalysisService
	uploads              *validation.UploadValidator
	handler              http.Handler
}

// NewContainer builds the dependency graph shared by the API server and the CLI
func NewContainer(cfg *config.Config) (*Container, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to load detector options: %w", err)
	}
	engine, err := analyzer.NewEngine(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}

	fetcher, err := factory.NewRoutingFetcher(factory.NewStorageFactory(cfg), cfg.AzureEnabled())
	if err != nil {
		return nil, fmt.Errorf("failed to create image fetcher: %w", err)
	}

	uploads := validation.NewUploadValidator(cfg.MaxUploadSize)
	loader := repository.NewImageLoader(uploads, cfg.MaxAnalysisDimension, repository.WithMaxPixels(cfg.MaxImagePixels))
	imageRepository := repository.NewRemoteImageRepository(fetcher, loader, validation.NewURLValidator())

	publisher := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	imageAnalysisService := service.NewImageAnalysisService(
		imageRepository, loader, uploads, engine, publisher,
		service.Settings{
			AnalysisTimeout: cfg.AnalysisTimeout,
			BatchWorkers:    cfg.BatchWorkers,
		},
	)

	return &Container{
		config:               cfg,
		options:              opts,
		engine:               engine,
		imageRepository:      imageRepository,
		publisher:            publisher,
		metrics:              metrics,
		imageAnalysisService: imageAnalysisService,
		uploads:              uploads,
		handler:              transport.NewHandler(imageAnalysisService, metrics, uploads, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the analysis service
func (c *Container) Service() service.ImageAnalysisService {
	return c.imageAnalysisService
}

// Uploads returns the validator that decides which local files are analysable
func (c *Container) Uploads() *validation.UploadValidator {
	return c.uploads
}

// Metrics returns the counters collected from analysis events
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// WriteDetectorConfig dumps the effective weights, confidence thresholds and tuning as a
// file that DETECTOR_CONFIG_FILE accepts
func (c *Container) WriteDetectorConfig(path string) error {
	return config.WriteDetectorFile(path, c.options, c.engine.Registry().Weights())
}

// Close waits for pending observer notifications
func (c *Container) Close() {
	c.publisher.Wait()
}
