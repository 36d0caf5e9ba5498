package analyzer

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrExtractorFailed reports an extractor that panicked instead of returning a score.
var ErrExtractorFailed = errors.New("extractor failed")

// Engine runs the registered extractors over a pixel array and turns their scores
// into an AnalysisResult. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry   Registry
	weights    map[FactorName]float64
	confidence ConfidenceThresholds
	tuning     Tuning
	parallel   bool
}

// NewEngine creates an engine over the default registry.
func NewEngine(opts Options) (*Engine, error) {
	return NewEngineWithRegistry(DefaultRegistry(), opts)
}

// NewEngineWithRegistry creates an engine over a custom registry, applying any weight
// overrides from opts.
func NewEngineWithRegistry(registry Registry, opts Options) (*Engine, error) {
	for _, name := range FactorNames {
		w, ok := opts.Weights[name]
		if !ok {
			continue
		}
		var err error
		if registry, err = registry.WithWeight(name, w); err != nil {
			return nil, err
		}
	}
	for name := range opts.Weights {
		if _, ok := registry.Weights()[name]; !ok {
			return nil, fmt.Errorf("unknown factor %q in weight overrides", name)
		}
	}
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Engine{
		registry:   registry,
		weights:    registry.Weights(),
		confidence: opts.Confidence,
		tuning:     opts.Tuning,
		parallel:   opts.Parallel,
	}, nil
}

// Registry returns the registry the engine evaluates, with weight overrides applied.
func (e *Engine) Registry() Registry {
	return e.registry
}

// Analyze scores p. It fails for structurally invalid input and for an extractor that
// panics, which is reported as ErrExtractorFailed rather than crashing the caller.
func (e *Engine) Analyze(p *Pixels) (AnalysisResult, error) {
	if err := p.validate(); err != nil {
		return AnalysisResult{}, err
	}

	scores, err := e.Extract(NewFrame(p))
	if err != nil {
		return AnalysisResult{}, err
	}
	probability := Aggregate(scores, e.weights)
	confidence := EstimateConfidence(probability, scores, e.confidence)
	return Compose(probability, confidence, scores), nil
}

// Extract evaluates every registered extractor against f in registry order.
func (e *Engine) Extract(f *Frame) ([]FactorScore, error) {
	entries := e.registry.entries
	scores := make([]FactorScore, len(entries))

	if f.tooSmall() {
		for i, entry := range entries {
			scores[i] = FactorScore{Name: entry.Name, Value: Neutral}
		}
		return scores, nil
	}

	if !e.parallel {
		for i, entry := range entries {
			score, err := runExtractor(entry, f, e.tuning)
			if err != nil {
				return nil, err
			}
			scores[i] = score
		}
		return scores, nil
	}

	// Each goroutine owns one slot, so ordering matches the sequential path.
	var g errgroup.Group
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			score, err := runExtractor(entry, f, e.tuning)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func runExtractor(entry Entry, f *Frame, t Tuning) (score FactorScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrExtractorFailed, entry.Name, r)
		}
	}()
	return FactorScore{Name: entry.Name, Value: clamp01(entry.Extract(f, t))}, nil
}
