package analyzer

import "math"

const maxRepeatShift = 32

// Symmetry combines two self-similarity signals and keeps the stronger one:
// correlation with the left-right and top-bottom mirror images, and repeated
// structure found as a rise in the autocorrelation profile after it has decayed.
// Natural images decorrelate monotonically with distance; tiled artefacts come back.
func Symmetry(f *Frame, t Tuning) float64 {
	if f.tooSmall() || f.isFlat() {
		return Neutral
	}

	mirror := math.Max(0, math.Max(mirrorCorrelation(f, true), mirrorCorrelation(f, false)))
	repeat := math.Max(repeatScore(f, true), repeatScore(f, false))
	return clamp01(math.Max(mirror, repeat))
}

func mirrorCorrelation(f *Frame, horizontal bool) float64 {
	mirrored := make([]float64, len(f.Luma))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if horizontal {
				mirrored[y*f.Width+x] = f.at(f.Width-1-x, y)
			} else {
				mirrored[y*f.Width+x] = f.at(x, f.Height-1-y)
			}
		}
	}
	return pearson(f.Luma, mirrored)
}

// repeatScore walks shifts 1..maxShift along one axis and returns the largest recovery
// of correlation above the lowest value seen at a smaller shift, halved into [0,1].
func repeatScore(f *Frame, horizontal bool) float64 {
	dim := f.Height
	if horizontal {
		dim = f.Width
	}
	maxShift := min(dim/2, maxRepeatShift)

	lowest := math.Inf(1)
	var best float64
	for d := 1; d <= maxShift; d++ {
		c := shiftedCorrelation(f, d, horizontal)
		if d > 1 {
			best = math.Max(best, (c-lowest)/2)
		}
		lowest = math.Min(lowest, c)
	}
	return best
}

func shiftedCorrelation(f *Frame, d int, horizontal bool) float64 {
	w, h := f.Width, f.Height
	if horizontal {
		w -= d
	} else {
		h -= d
	}

	a := make([]float64, 0, w*h)
	b := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a = append(a, f.at(x, y))
			if horizontal {
				b = append(b, f.at(x+d, y))
			} else {
				b = append(b, f.at(x, y+d))
			}
		}
	}
	return pearson(a, b)
}
