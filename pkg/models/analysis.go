package models

import (
	"time"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
)

// AnalysisResponse is the success body of the analyze endpoints.
// The detector result is inlined so clients see probability and factors at the top level.
type AnalysisResponse struct {
	Success           bool                     `json:"success"`
	RequestID         string                   `json:"request_id"`
	Probability       float64                  `json:"probability"`
	Confidence        analyzer.ConfidenceLevel `json:"confidence"`
	Factors           analyzer.Factors         `json:"factors"`
	Disclaimer        string                   `json:"disclaimer"`
	Image             ImageMetadata            `json:"image"`
	Source            string                   `json:"source,omitempty"`
	Timestamp         time.Time                `json:"timestamp"`
	ProcessingTimeSec float64                  `json:"processing_time_sec"`
}

// Result returns the detector part of the response.
func (r AnalysisResponse) Result() analyzer.AnalysisResult {
	return analyzer.AnalysisResult{
		Probability: r.Probability,
		Confidence:  r.Confidence,
		Factors:     r.Factors,
		Disclaimer:  r.Disclaimer,
	}
}

// ImageMetadata contains metadata about an image
type ImageMetadata struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	// Downscaled is set when the pixels were resized before analysis.
	Downscaled bool `json:"downscaled"`
	// AnalyzedWidth and AnalyzedHeight are the dimensions the detector actually saw.
	AnalyzedWidth  int `json:"analyzed_width"`
	AnalyzedHeight int `json:"analyzed_height"`
}

// BatchItem is one entry of a directory or multi-file run.
type BatchItem struct {
	Path     string            `json:"path"`
	Response *AnalysisResponse `json:"response,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	TotalAnalyses       int64            `json:"total_analyses"`
	SuccessfulAnalyses  int64            `json:"successful_analyses"`
	FailedAnalyses      int64            `json:"failed_analyses"`
	AverageProcessingMs float64          `json:"average_processing_ms"`
	ConfidenceCounts    map[string]int64 `json:"confidence_counts"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Time    string `json:"time"`
}
