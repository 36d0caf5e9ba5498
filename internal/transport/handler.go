package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/ai-image-detector/internal/config"
	apperrors "github.com/anime-shed/ai-image-detector/internal/errors"
	"github.com/anime-shed/ai-image-detector/internal/logger"
	"github.com/anime-shed/ai-image-detector/internal/service"
	"github.com/anime-shed/ai-image-detector/pkg/models"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

const (
	serviceName    = "AI Content Detection API"
	serviceVersion = "1.0.0"

	// multipartOverhead is allowed on top of the upload limit for boundaries and part headers.
	multipartOverhead = 1 << 20
)

// StatsProvider exposes aggregated analysis counters
type StatsProvider interface {
	Snapshot() models.StatsResponse
}

type handler struct {
	svc     service.ImageAnalysisService
	stats   StatsProvider
	uploads *validation.UploadValidator
	timeout time.Duration
}

func NewHandler(svc service.ImageAnalysisService, stats StatsProvider, uploads *validation.UploadValidator, cfg *config.Config) http.Handler {
	h := &handler{
		svc:     svc,
		stats:   stats,
		uploads: uploads,
		timeout: cfg.RequestTimeout,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), errorHandler())

	api := r.Group("/api")
	api.GET("/health", healthCheck)
	api.GET("/stats", h.getStats)
	api.POST("/analyze", requestSizeLimiter(uploads.MaxSize()+multipartOverhead), h.analyzeUpload)
	api.POST("/analyze/url", h.analyzeURL)

	return r
}

func (h *handler) analyzeUpload(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.formFileError(c, err))
		return
	}
	if err := h.uploads.ValidateFilename(fileHeader.Filename); err != nil {
		respondError(c, err)
		return
	}
	if err := h.uploads.ValidateSize(fileHeader.Size); err != nil {
		respondError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.NewInternalError("Error reading uploaded file", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, apperrors.NewInternalError("Error reading uploaded file", err))
		return
	}

	resp, err := h.svc.AnalyzeUpload(ctx, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// formFileError separates an oversized body, a part without a filename and a missing field.
func (h *handler) formFileError(c *gin.Context, err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return h.uploads.TooLarge()
	}
	if errors.Is(err, http.ErrMissingFile) {
		// A file input submitted with nothing chosen arrives as a plain form value.
		if form := c.Request.MultipartForm; form != nil {
			if _, ok := form.Value["image"]; ok {
				return apperrors.NewValidationError("No file selected", nil)
			}
		}
		return apperrors.NewValidationError("No image file provided", nil)
	}
	return apperrors.NewValidationError("No image file provided", err)
}

func (h *handler) analyzeURL(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req models.AnalyzeURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("Invalid request format", err))
		return
	}

	resp, err := h.svc.AnalyzeURL(ctx, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status_code":        c.Writer.Status(),
			"processing_time_ms": time.Since(start).Milliseconds(),
			"ip":                 c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
		}).Debug("Request handled")
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func determineStatusCode(err error) int {
	if _, ok := apperrors.As(err); ok {
		return apperrors.GetStatusCode(err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	body := models.ErrorResponse{Success: false, Error: http.StatusText(code), Message: err.Error()}
	if appErr, ok := apperrors.As(err); ok {
		body.Error = appErr.Message
		body.Message = ""
		if appErr.Cause != nil {
			body.Message = appErr.Cause.Error()
		}
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, body)
}
