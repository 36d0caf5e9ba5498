package analyzer

import (
	"fmt"
	"math"
)

// Tuning holds the empirically chosen constants behind each extractor.
type Tuning struct {
	// Noise uniformity: coefficient of variation of per-tile noise that maps to score 0.
	NoiseCVRef float64 `yaml:"noise_cv_ref"`

	// Colour distribution: summed second difference that maps to smoothness 0.
	SmoothnessRef float64 `yaml:"smoothness_ref"`

	// Frequency regularity: share of bins counted as peaks and the concentration range
	// mapped linearly onto [0,1].
	PeakFraction    float64 `yaml:"peak_fraction"`
	SpectrumFloor   float64 `yaml:"spectrum_floor"`
	SpectrumCeiling float64 `yaml:"spectrum_ceiling"`

	// Edge consistency: Sobel magnitude that counts as an edge, and the coefficient of
	// variation of edge magnitudes that maps to score 0.
	EdgeThreshold float64 `yaml:"edge_threshold"`
	EdgeCVRef     float64 `yaml:"edge_cv_ref"`
}

// ConfidenceThresholds drive the confidence label.
type ConfidenceThresholds struct {
	// Polarization is |p-0.5|*2. Below LowPolarization the label is always low.
	LowPolarization float64 `yaml:"low_polarization"`
	// HighPolarization is required, together with agreement, for a high label.
	HighPolarization float64 `yaml:"high_polarization"`
	// AgreementSpread is the largest factor standard deviation still counted as agreement.
	AgreementSpread float64 `yaml:"agreement_spread"`
	// MaxSpread above which factors disagree too much for anything but low.
	MaxSpread float64 `yaml:"max_spread"`
}

// Options configures an Engine.
type Options struct {
	// Weights overrides registry weights by factor name. Missing names keep their default.
	Weights    map[FactorName]float64
	Confidence ConfidenceThresholds
	Tuning     Tuning
	// Parallel evaluates the extractors of a single call concurrently.
	Parallel bool
}

// DefaultTuning returns the extractor constants used unless overridden.
func DefaultTuning() Tuning {
	return Tuning{
		NoiseCVRef:      0.5,
		SmoothnessRef:   0.5,
		PeakFraction:    0.01,
		SpectrumFloor:   0.05,
		SpectrumCeiling: 0.6,
		EdgeThreshold:   20,
		EdgeCVRef:       1.0,
	}
}

// DefaultConfidenceThresholds returns the confidence policy used unless overridden.
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{
		LowPolarization:  0.2,
		HighPolarization: 0.6,
		AgreementSpread:  0.15,
		MaxSpread:        0.35,
	}
}

// DefaultOptions returns default engine options
func DefaultOptions() Options {
	return Options{
		Confidence: DefaultConfidenceThresholds(),
		Tuning:     DefaultTuning(),
		Parallel:   false,
	}
}

// WithWeight returns options with a single factor weight overridden
func (opts Options) WithWeight(name FactorName, weight float64) Options {
	weights := make(map[FactorName]float64, len(opts.Weights)+1)
	for k, v := range opts.Weights {
		weights[k] = v
	}
	weights[name] = weight
	opts.Weights = weights
	return opts
}

// WithWeights returns options with several factor weights overridden
func (opts Options) WithWeights(weights map[FactorName]float64) Options {
	for name, w := range weights {
		opts = opts.WithWeight(name, w)
	}
	return opts
}

// WithConfidence replaces the confidence thresholds
func (opts Options) WithConfidence(thresholds ConfidenceThresholds) Options {
	opts.Confidence = thresholds
	return opts
}

// WithTuning replaces the extractor tuning
func (opts Options) WithTuning(tuning Tuning) Options {
	opts.Tuning = tuning
	return opts
}

// WithParallel toggles concurrent extractor evaluation
func (opts Options) WithParallel(parallel bool) Options {
	opts.Parallel = parallel
	return opts
}

// Validate checks thresholds and tuning for values that would break the [0,1] contract.
func (opts Options) Validate() error {
	c := opts.Confidence
	for name, v := range map[string]float64{
		"low_polarization":  c.LowPolarization,
		"high_polarization": c.HighPolarization,
		"agreement_spread":  c.AgreementSpread,
		"max_spread":        c.MaxSpread,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("confidence threshold %s must be within [0,1] (got %v)", name, v)
		}
	}
	if c.LowPolarization > c.HighPolarization {
		return fmt.Errorf("low_polarization (%v) must not exceed high_polarization (%v)", c.LowPolarization, c.HighPolarization)
	}
	if c.AgreementSpread > c.MaxSpread {
		return fmt.Errorf("agreement_spread (%v) must not exceed max_spread (%v)", c.AgreementSpread, c.MaxSpread)
	}

	t := opts.Tuning
	if t.NoiseCVRef <= 0 || t.SmoothnessRef <= 0 || t.EdgeCVRef <= 0 {
		return fmt.Errorf("tuning references must be > 0 (noise=%v, smoothness=%v, edge=%v)",
			t.NoiseCVRef, t.SmoothnessRef, t.EdgeCVRef)
	}
	if t.PeakFraction <= 0 || t.PeakFraction > 1 {
		return fmt.Errorf("peak_fraction must be within (0,1] (got %v)", t.PeakFraction)
	}
	if t.SpectrumFloor < 0 || t.SpectrumCeiling <= t.SpectrumFloor || t.SpectrumCeiling > 1 {
		return fmt.Errorf("spectrum range must satisfy 0 <= floor < ceiling <= 1 (got %v..%v)",
			t.SpectrumFloor, t.SpectrumCeiling)
	}
	if t.EdgeThreshold < 0 {
		return fmt.Errorf("edge_threshold must be >= 0 (got %v)", t.EdgeThreshold)
	}
	return nil
}
