package analyzer

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// ConfidenceLevel is a coarse label for how far the probability can be trusted.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Polarization is the distance of p from the 0.5 decision boundary, scaled to [0,1].
func Polarization(probability float64) float64 {
	return clamp01(math.Abs(probability-0.5) * 2)
}

// Spread is the sample standard deviation of the factor values; 0 for fewer than two.
func Spread(scores []FactorScore) float64 {
	if len(scores) < 2 {
		return 0
	}
	values := lo.Map(scores, func(s FactorScore, _ int) float64 { return s.Value })
	return stat.StdDev(values, nil)
}

// EstimateConfidence labels a probability: low near the boundary or when factors
// disagree, high when polarized and the factors agree, medium otherwise.
func EstimateConfidence(probability float64, scores []FactorScore, th ConfidenceThresholds) ConfidenceLevel {
	polarization := Polarization(probability)
	spread := Spread(scores)

	switch {
	case polarization < th.LowPolarization || spread > th.MaxSpread:
		return ConfidenceLow
	case polarization >= th.HighPolarization && spread <= th.AgreementSpread:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}
