package analyzer

// FactorScore is one named signal in [0,1].
type FactorScore struct {
	Name  FactorName `json:"name"`
	Value float64    `json:"value"`
}

// Aggregate combines factor scores into one probability with a weighted arithmetic mean.
// Scores are summed in slice order so the result is reproducible bit-for-bit.
// Factors without a weight are ignored; a zero total weight yields Neutral.
func Aggregate(scores []FactorScore, weights map[FactorName]float64) float64 {
	var weighted, total float64
	for _, s := range scores {
		w, ok := weights[s.Name]
		if !ok || w <= 0 {
			continue
		}
		weighted += w * s.Value
		total += w
	}
	if total <= 0 {
		return Neutral
	}
	// Extractors already return [0,1]; clamp anyway in case one breaks its contract.
	return clamp01(weighted / total)
}
