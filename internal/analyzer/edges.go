package analyzer

const (
	minEdgePixels   = 16
	minEdgeFraction = 0.005
)

// EdgeConsistency scores how similar the gradient magnitudes of edge pixels are.
// Optics and depth of field give photographs a wide mix of soft and hard edges;
// uniformly crisp edges score high. Without enough edges the score is Neutral.
func EdgeConsistency(f *Frame, t Tuning) float64 {
	if f.tooSmall() {
		return Neutral
	}

	magnitudes := make([]float64, 0, (f.Width-2)*(f.Height-2)/4)
	for y := 1; y < f.Height-1; y++ {
		for x := 1; x < f.Width-1; x++ {
			if m := f.sobelMagnitude(x, y); m > t.EdgeThreshold {
				magnitudes = append(magnitudes, m)
			}
		}
	}

	required := max(minEdgePixels, int(float64(f.Width*f.Height)*minEdgeFraction))
	if len(magnitudes) < required {
		return Neutral
	}

	cv, ok := coefficientOfVariation(magnitudes)
	if !ok {
		return Neutral
	}
	return clamp01(1 - cv/t.EdgeCVRef)
}
