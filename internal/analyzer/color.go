package analyzer

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const histogramBins = 256

// ColorDistribution scores each RGB channel histogram for narrowness (low entropy) and
// smoothness (small second differences) and averages the per-channel maximum of the two.
// Camera histograms are broad and jagged; rendered ones tend to be narrow or unnaturally smooth.
func ColorDistribution(f *Frame, t Tuning) float64 {
	if f.tooSmall() {
		return Neutral
	}

	var hist [3][histogramBins]float64
	pix := f.Pixels.Pix
	for i := 0; i < len(pix); i += 3 {
		hist[0][pix[i]]++
		hist[1][pix[i+1]]++
		hist[2][pix[i+2]]++
	}

	n := float64(f.Width * f.Height)
	var total float64
	for c := range hist {
		for i := range hist[c] {
			hist[c][i] /= n
		}
		total += math.Max(histogramNarrowness(hist[c][:]), histogramSmoothness(hist[c][:], t.SmoothnessRef))
	}
	return clamp01(total / 3)
}

// histogramNarrowness is 1 minus the normalised Shannon entropy of a probability histogram.
func histogramNarrowness(h []float64) float64 {
	return clamp01(1 - stat.Entropy(h)/math.Log(float64(len(h))))
}

// histogramSmoothness is 1 minus the summed absolute second difference, scaled by ref.
func histogramSmoothness(h []float64, ref float64) float64 {
	var roughness float64
	for i := 1; i < len(h)-1; i++ {
		roughness += math.Abs(h[i-1] - 2*h[i] + h[i+1])
	}
	return clamp01(1 - roughness/ref)
}
