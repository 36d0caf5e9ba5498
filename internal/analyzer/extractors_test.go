package analyzer

import (
	"math"
	"testing"
)

func TestExtractors_StayInUnitRange(t *testing.T) {
	images := map[string]*Pixels{
		"solid":        solidPixels(64, 64, 200, 100, 50),
		"checkerboard": checkerboardPixels(64, 64, 4),
		"noise":        noisePixels(64, 64, 1),
		"gradient":     gradientPixels(96, 64),
		"tiny":         solidPixels(3, 3, 1, 2, 3),
	}

	tuning := DefaultTuning()
	for name, img := range images {
		frame := NewFrame(img)
		for _, entry := range DefaultRegistry().Entries() {
			score := entry.Extract(frame, tuning)
			if math.IsNaN(score) || score < 0 || score > 1 {
				t.Errorf("%s on %s: score %v outside [0,1]", entry.Name, name, score)
			}
		}
	}
}

func TestExtractors_SolidColour(t *testing.T) {
	frame := NewFrame(solidPixels(64, 64, 200, 100, 50))
	tuning := DefaultTuning()

	testCases := []struct {
		name     string
		extract  Extractor
		expected float64
	}{
		{"noise uniformity maxes out", NoiseUniformity, 1},
		{"colour distribution maxes out", ColorDistribution, 1},
		{"frequency regularity defaults", FrequencyRegularity, Neutral},
		{"edge consistency defaults", EdgeConsistency, Neutral},
		{"symmetry defaults", Symmetry, Neutral},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.extract(frame, tuning); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestExtractors_PeriodicScoresAboveRandom(t *testing.T) {
	periodic := NewFrame(checkerboardPixels(64, 64, 4))
	random := NewFrame(noisePixels(64, 64, 42))
	tuning := DefaultTuning()

	testCases := []struct {
		name    string
		extract Extractor
	}{
		{"noise uniformity", NoiseUniformity},
		{"frequency regularity", FrequencyRegularity},
		{"edge consistency", EdgeConsistency},
		{"symmetry", Symmetry},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.extract(periodic, tuning)
			r := tc.extract(random, tuning)
			if p <= r {
				t.Errorf("Expected periodic (%v) > random (%v)", p, r)
			}
		})
	}
}

func TestFrequencyRegularity_Checkerboard(t *testing.T) {
	score := FrequencyRegularity(NewFrame(checkerboardPixels(64, 64, 4)), DefaultTuning())
	if score < 0.99 {
		t.Errorf("Expected a pure periodic pattern to saturate, got %v", score)
	}
}

func TestFrequencyRegularity_RandomNoiseIsLow(t *testing.T) {
	score := FrequencyRegularity(NewFrame(noisePixels(64, 64, 3)), DefaultTuning())
	if score > 0.3 {
		t.Errorf("Expected white noise to have no dominant peaks, got %v", score)
	}
}

func TestFrequencyRegularity_MonotonicInPeriodicity(t *testing.T) {
	checker := checkerboardPixels(64, 64, 4)
	noise := noisePixels(64, 64, 5)
	tuning := DefaultTuning()

	previous := -1.0
	for _, alpha := range []float64{0, 0.25, 0.5, 0.75, 1} {
		score := FrequencyRegularity(NewFrame(blendPixels(checker, noise, alpha)), tuning)
		if score < previous {
			t.Errorf("alpha %.2f: score %v decreased from %v", alpha, score, previous)
		}
		previous = score
	}
}

func TestFrequencyRegularity_NoisyRampBelowCheckerboard(t *testing.T) {
	tuning := DefaultTuning()
	ramp := FrequencyRegularity(NewFrame(noisyRampPixels(128, 128, 60, 210, 3, 17)), tuning)
	checker := FrequencyRegularity(NewFrame(checkerboardPixels(128, 128, 4)), tuning)

	if ramp > 0.5 {
		t.Errorf("Expected a brightness trend not to read as periodic, got %v", ramp)
	}
	if checker-ramp < 0.4 {
		t.Errorf("Expected checkerboard (%v) well above noisy ramp (%v)", checker, ramp)
	}
}

func TestEdgeConsistency_CrispAboveMixed(t *testing.T) {
	crisp := columnPixels(64, 64, func(x int) uint8 {
		if x%16 < 8 {
			return 50
		}
		return 200
	})
	// Hard rise followed by a ten pixel soft fall.
	mixed := columnPixels(64, 64, func(x int) uint8 {
		switch p := x % 32; {
		case p < 8:
			return 50
		case p < 16:
			return 200
		case p < 26:
			return uint8(200 - 15*(p-16))
		default:
			return 50
		}
	})

	tuning := DefaultTuning()
	c := EdgeConsistency(NewFrame(crisp), tuning)
	m := EdgeConsistency(NewFrame(mixed), tuning)
	if c < 0.99 {
		t.Errorf("Expected identical step edges to score ~1, got %v", c)
	}
	if m > 0.5 {
		t.Errorf("Expected a mix of soft and hard edges to score low, got %v", m)
	}
}

func TestSymmetry_MirroredImage(t *testing.T) {
	base := noisePixels(32, 32, 9)
	mirrored := &Pixels{Width: 64, Height: 32, Pix: make([]uint8, 64*32*3)}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			r, g, b := base.At(x, y)
			for _, mx := range []int{x, 63 - x} {
				i := (y*64 + mx) * 3
				mirrored.Pix[i], mirrored.Pix[i+1], mirrored.Pix[i+2] = r, g, b
			}
		}
	}

	score := Symmetry(NewFrame(mirrored), DefaultTuning())
	if score < 0.99 {
		t.Errorf("Expected a left-right mirrored image to score ~1, got %v", score)
	}
}

func TestNoiseUniformity_RegionalNoiseScoresLower(t *testing.T) {
	// Left half noisy, right half nearly clean: noise floor varies by region.
	noise := noisePixels(64, 64, 13)
	regional := &Pixels{Width: 64, Height: 64, Pix: append([]uint8(nil), noise.Pix...)}
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			i := (y*64 + x) * 3
			for c := 0; c < 3; c++ {
				regional.Pix[i+c] = 128 + regional.Pix[i+c]/32
			}
		}
	}

	tuning := DefaultTuning()
	uniform := NoiseUniformity(NewFrame(noise), tuning)
	varied := NoiseUniformity(NewFrame(regional), tuning)
	if varied >= uniform {
		t.Errorf("Expected regional noise (%v) to score below uniform noise (%v)", varied, uniform)
	}
}

func TestColorDistribution_NarrowAboveBroad(t *testing.T) {
	narrow := noisePixels(64, 64, 21)
	for i := range narrow.Pix {
		narrow.Pix[i] = 120 + narrow.Pix[i]%4
	}
	broad := noisePixels(64, 64, 21)

	tuning := DefaultTuning()
	n := ColorDistribution(NewFrame(narrow), tuning)
	b := ColorDistribution(NewFrame(broad), tuning)
	if n <= b {
		t.Errorf("Expected narrow histogram (%v) above broad (%v)", n, b)
	}
}

func TestHistogramHelpers(t *testing.T) {
	spike := make([]float64, histogramBins)
	spike[17] = 1
	if got := histogramNarrowness(spike); got != 1 {
		t.Errorf("Expected spike narrowness 1, got %v", got)
	}

	flat := make([]float64, histogramBins)
	for i := range flat {
		flat[i] = 1.0 / histogramBins
	}
	if got := histogramNarrowness(flat); math.Abs(got) > 1e-9 {
		t.Errorf("Expected flat narrowness 0, got %v", got)
	}
	if got := histogramSmoothness(flat, 0.5); math.Abs(got-1) > 1e-9 {
		t.Errorf("Expected flat smoothness 1, got %v", got)
	}
	if got := histogramSmoothness(spike, 0.5); got != 0 {
		t.Errorf("Expected spike smoothness 0, got %v", got)
	}
}

func TestExtractors_TooSmallIsNeutral(t *testing.T) {
	frame := NewFrame(noisePixels(MinDimension-1, 40, 4))
	for _, entry := range DefaultRegistry().Entries() {
		if got := entry.Extract(frame, DefaultTuning()); got != Neutral {
			t.Errorf("%s: expected Neutral for a %dx%d image, got %v", entry.Name, frame.Width, frame.Height, got)
		}
	}
}
