package analyzer

// ImageAnalyzer scores a decoded pixel array.
// *Engine is the production implementation; the service depends on this interface.
type ImageAnalyzer interface {
	Analyze(p *Pixels) (AnalysisResult, error)
}

var _ ImageAnalyzer = (*Engine)(nil)
