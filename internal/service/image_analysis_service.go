package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
	apperrors "github.com/anime-shed/ai-image-detector/internal/errors"
	"github.com/anime-shed/ai-image-detector/internal/observer"
	"github.com/anime-shed/ai-image-detector/internal/repository"
	"github.com/anime-shed/ai-image-detector/internal/storage"
	"github.com/anime-shed/ai-image-detector/pkg/models"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

// ImageAnalysisService defines the entry points shared by the HTTP API and the CLI
type ImageAnalysisService interface {
	// AnalyzeUpload scores an uploaded file
	AnalyzeUpload(ctx context.Context, filename string, data []byte) (*models.AnalysisResponse, error)

	// AnalyzeURL fetches and scores a remote image
	AnalyzeURL(ctx context.Context, imageURL string) (*models.AnalysisResponse, error)

	// AnalyzeFiles scores local files concurrently. Results keep the order of paths.
	AnalyzeFiles(ctx context.Context, paths []string) []models.BatchItem

	// ValidateImageURL validates the image URL
	ValidateImageURL(imageURL string) error
}

// Settings tunes request handling around the detector
type Settings struct {
	// AnalysisTimeout bounds a single detector call. 0 disables the bound.
	AnalysisTimeout time.Duration
	// BatchWorkers caps concurrent analyses in AnalyzeFiles. 0 uses the CPU count.
	BatchWorkers int
}

type imageAnalysisService struct {
	imageRepo repository.ImageRepository
	loader    repository.ImageLoader
	uploads   *validation.UploadValidator
	analyzer  analyzer.ImageAnalyzer
	events    observer.Subject
	settings  Settings
}

// NewImageAnalysisService creates a new image analysis service
func NewImageAnalysisService(
	imageRepository repository.ImageRepository,
	loader repository.ImageLoader,
	uploads *validation.UploadValidator,
	imageAnalyzer analyzer.ImageAnalyzer,
	events observer.Subject,
	settings Settings,
) ImageAnalysisService {
	return &imageAnalysisService{
		imageRepo: imageRepository,
		loader:    loader,
		uploads:   uploads,
		analyzer:  imageAnalyzer,
		events:    events,
		settings:  settings,
	}
}

// AnalyzeUpload validates, decodes and scores an uploaded image
func (s *imageAnalysisService) AnalyzeUpload(ctx context.Context, filename string, data []byte) (*models.AnalysisResponse, error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, RequestID: requestID, Source: filename})

	loaded, err := s.loadUpload(filename, data)
	if err != nil {
		return nil, s.fail(ctx, requestID, filename, start, err)
	}
	return s.analyzeLoaded(ctx, requestID, filename, loaded, start)
}

func (s *imageAnalysisService) loadUpload(filename string, data []byte) (*repository.LoadedImage, error) {
	if err := s.uploads.ValidateFilename(filename); err != nil {
		return nil, err
	}
	if err := s.uploads.ValidateSize(int64(len(data))); err != nil {
		return nil, err
	}
	return s.loader.Load(data)
}

// AnalyzeURL fetches an image through the repository and scores it
func (s *imageAnalysisService) AnalyzeURL(ctx context.Context, imageURL string) (*models.AnalysisResponse, error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, RequestID: requestID, Source: imageURL})

	if err := s.ValidateImageURL(imageURL); err != nil {
		return nil, s.fail(ctx, requestID, imageURL, start, err)
	}

	loaded, err := s.imageRepo.FetchImage(ctx, imageURL)
	if err != nil {
		if errors.Is(err, repository.ErrImageFetchFailed) {
			s.publish(ctx, observer.AnalysisEvent{
				EventType:      observer.ImageFetchFailed,
				RequestID:      requestID,
				Source:         imageURL,
				ProcessingTime: time.Since(start),
				ErrorMessage:   err.Error(),
			})
		}
		return nil, s.fail(ctx, requestID, imageURL, start, err)
	}
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.ImageFetched,
		RequestID:      requestID,
		Source:         imageURL,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"content_length": loaded.Metadata.ContentLength},
	})

	return s.analyzeLoaded(ctx, requestID, imageURL, loaded, start)
}

// AnalyzeFiles runs every path through the loader and detector on a bounded worker pool
func (s *imageAnalysisService) AnalyzeFiles(ctx context.Context, paths []string) []models.BatchItem {
	items := make([]models.BatchItem, len(paths))

	pool := analyzer.NewWorkerPool(s.settings.BatchWorkers)
	pool.Start()
	defer pool.Close()

	for i, path := range paths {
		i, path := i, path
		items[i].Path = path
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				items[i].Error = err.Error()
				return
			}

			requestID := uuid.NewString()
			start := time.Now()
			s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, RequestID: requestID, Source: path})

			loaded, err := s.loader.LoadFile(path)
			if err != nil {
				items[i].Error = s.fail(ctx, requestID, path, start, err).Error()
				return
			}
			resp, err := s.analyzeLoaded(ctx, requestID, path, loaded, start)
			if err != nil {
				items[i].Error = err.Error()
				return
			}
			items[i].Response = resp
		})
	}
	pool.Wait()

	return items
}

// ValidateImageURL validates the image URL
func (s *imageAnalysisService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

func (s *imageAnalysisService) analyzeLoaded(
	ctx context.Context,
	requestID, source string,
	loaded *repository.LoadedImage,
	start time.Time,
) (*models.AnalysisResponse, error) {
	result, err := s.runAnalysis(ctx, loaded.Pixels)
	if err != nil {
		return nil, s.fail(ctx, requestID, source, start, err)
	}

	elapsed := time.Since(start)
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		RequestID:      requestID,
		Source:         source,
		ProcessingTime: elapsed,
		Success:        true,
		Probability:    result.Probability,
		Confidence:     result.Confidence,
		Metadata: map[string]interface{}{
			"width":      loaded.Metadata.Width,
			"height":     loaded.Metadata.Height,
			"downscaled": loaded.Metadata.Downscaled,
		},
	})

	return &models.AnalysisResponse{
		Success:           true,
		RequestID:         requestID,
		Probability:       result.Probability,
		Confidence:        result.Confidence,
		Factors:           result.Factors,
		Disclaimer:        result.Disclaimer,
		Image:             loaded.Metadata,
		Source:            source,
		Timestamp:         start.UTC(),
		ProcessingTimeSec: elapsed.Seconds(),
	}, nil
}

// runAnalysis bounds the detector call by the request context and the analysis timeout.
// The detector itself cannot be interrupted; on timeout its goroutine finishes in the background.
func (s *imageAnalysisService) runAnalysis(ctx context.Context, pixels *analyzer.Pixels) (analyzer.AnalysisResult, error) {
	if s.settings.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.AnalysisTimeout)
		defer cancel()
	}

	type outcome struct {
		result analyzer.AnalysisResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := s.analyzer.Analyze(pixels)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return analyzer.AnalysisResult{}, apperrors.NewTimeoutError("Analysis timed out", ctx.Err())
	case o := <-done:
		return o.result, o.err
	}
}

func (s *imageAnalysisService) fail(ctx context.Context, requestID, source string, start time.Time, err error) error {
	appErr := translateError(err)
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisFailed,
		RequestID:      requestID,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   appErr.Error(),
		Metadata:       map[string]interface{}{"error_type": appErr.Type},
	})
	return appErr
}

func (s *imageAnalysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.events == nil {
		return
	}
	// Observers run after the request may have finished.
	s.events.NotifyObservers(context.WithoutCancel(ctx), event)
}

// translateError maps loader, fetcher and detector failures onto the AppError taxonomy
func translateError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, repository.ErrEmptyImage):
		return apperrors.NewValidationError("Uploaded file is empty", err)
	case errors.Is(err, repository.ErrUnsupportedFormat):
		return apperrors.NewUnsupportedMediaError("File content is not a supported image", err)
	case errors.Is(err, repository.ErrTooManyPixels):
		return apperrors.NewTooLargeError("Image dimensions are too large", err)
	case errors.Is(err, repository.ErrDecodeFailed):
		return apperrors.NewValidationError("Image data could not be decoded", err)
	case errors.Is(err, analyzer.ErrInvalidImage):
		return apperrors.NewValidationError("Invalid image", err)
	case errors.Is(err, storage.ErrTooLarge):
		return apperrors.NewTooLargeError("Remote image is too large", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("Timed out fetching image", err)
	case errors.Is(err, repository.ErrImageFetchFailed):
		return apperrors.NewNetworkError("Failed to fetch image", err)
	case errors.Is(err, repository.ErrInvalidImageURL):
		return apperrors.NewValidationError("Invalid image URL", err)
	default:
		return apperrors.NewInternalError("Error processing image: "+err.Error(), err)
	}
}
