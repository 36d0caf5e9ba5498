package analyzer

// Disclaimer accompanies every result.
const Disclaimer = "This result is a statistical estimate based on heuristic image analysis. " +
	"It is not a certified determination of how the image was made and must not be used " +
	"as the sole evidence of an image's provenance."

// Factors holds one score per known factor. Its fixed shape guarantees that every
// result carries the complete factor set.
type Factors struct {
	NoiseUniformity     float64 `json:"noise_uniformity"`
	ColorDistribution   float64 `json:"color_distribution"`
	FrequencyRegularity float64 `json:"frequency_regularity"`
	EdgeConsistency     float64 `json:"edge_consistency"`
	Symmetry            float64 `json:"symmetry"`
}

// AnalysisResult is the outcome of one analysis call.
type AnalysisResult struct {
	Probability float64         `json:"probability"`
	Confidence  ConfidenceLevel `json:"confidence"`
	Factors     Factors         `json:"factors"`
	Disclaimer  string          `json:"disclaimer"`
}

// Get returns the score for name and whether the name is known.
func (f Factors) Get(name FactorName) (float64, bool) {
	if p := f.field(name); p != nil {
		return *p, true
	}
	return 0, false
}

// Scores returns the factors as a slice in FactorNames order.
func (f Factors) Scores() []FactorScore {
	scores := make([]FactorScore, 0, len(FactorNames))
	for _, name := range FactorNames {
		v, _ := f.Get(name)
		scores = append(scores, FactorScore{Name: name, Value: v})
	}
	return scores
}

func (f *Factors) field(name FactorName) *float64 {
	switch name {
	case FactorNoiseUniformity:
		return &f.NoiseUniformity
	case FactorColorDistribution:
		return &f.ColorDistribution
	case FactorFrequencyRegularity:
		return &f.FrequencyRegularity
	case FactorEdgeConsistency:
		return &f.EdgeConsistency
	case FactorSymmetry:
		return &f.Symmetry
	}
	return nil
}

// Compose assembles the final result from already-computed parts.
func Compose(probability float64, confidence ConfidenceLevel, scores []FactorScore) AnalysisResult {
	var factors Factors
	for _, s := range scores {
		if p := factors.field(s.Name); p != nil {
			*p = s.Value
		}
	}
	return AnalysisResult{
		Probability: probability,
		Confidence:  confidence,
		Factors:     factors,
		Disclaimer:  Disclaimer,
	}
}
