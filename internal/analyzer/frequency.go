package analyzer

import (
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	maxSpectrumSide = 128
	minPeakBins     = 4
)

// FrequencyRegularity measures how much of the luma spectrum sits in a handful of peaks.
// The crop is Hann-windowed so that brightness trends do not wrap into a hard edge, and
// power is weighted by squared radial frequency, which flattens the natural 1/f falloff
// of photographs so that only periodic (grid, upsampling) artefacts stand out.
func FrequencyRegularity(f *Frame, t Tuning) float64 {
	if f.tooSmall() || f.isFlat() {
		return Neutral
	}

	n := min(f.Width, f.Height, maxSpectrumSide)
	x0 := (f.Width - n) / 2
	y0 := (f.Height - n) / 2

	var mean float64
	for y := y0; y < y0+n; y++ {
		for x := x0; x < x0+n; x++ {
			mean += f.at(x, y)
		}
	}
	mean /= float64(n * n)

	taper := hannWindow(n)
	grid := make([][]complex128, n)
	for y := 0; y < n; y++ {
		grid[y] = make([]complex128, n)
		for x := 0; x < n; x++ {
			grid[y][x] = complex((f.at(x0+x, y0+y)-mean)*taper[x]*taper[y], 0)
		}
	}
	fft2D(grid)

	weighted := make([]float64, 0, n*n-9)
	var total float64
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			fu, fv := signedFrequency(u, n), signedFrequency(v, n)
			// DC main lobe of the window: residual mean and trend leak here
			if abs(fu) <= 1 && abs(fv) <= 1 {
				continue
			}
			c := grid[v][u]
			power := (real(c)*real(c) + imag(c)*imag(c)) * float64(fu*fu+fv*fv)
			weighted = append(weighted, power)
			total += power
		}
	}
	if total <= flatEpsilon {
		return Neutral
	}

	k := max(minPeakBins, int(float64(len(weighted))*t.PeakFraction))
	if k > len(weighted) {
		k = len(weighted)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(weighted)))
	var peak float64
	for _, p := range weighted[:k] {
		peak += p
	}

	concentration := peak / total
	return clamp01((concentration - t.SpectrumFloor) / (t.SpectrumCeiling - t.SpectrumFloor))
}

// hannWindow returns the periodic Hann taper of length n, which spreads a pure tone over
// exactly three bins. gonum's Hann is symmetric, so it is built one sample longer.
func hannWindow(n int) []float64 {
	ones := make([]float64, n+1)
	for i := range ones {
		ones[i] = 1
	}
	return window.Hann(ones)[:n]
}

// fft2D transforms a square grid in place: rows first, then columns.
func fft2D(grid [][]complex128) {
	n := len(grid)
	fft := fourier.NewCmplxFFT(n)

	for y := range grid {
		grid[y] = fft.Coefficients(nil, grid[y])
	}

	column := make([]complex128, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			column[y] = grid[y][x]
		}
		coeffs := fft.Coefficients(nil, column)
		for y := 0; y < n; y++ {
			grid[y][x] = coeffs[y]
		}
	}
}

// signedFrequency maps a DFT bin index to its signed frequency.
func signedFrequency(k, n int) int {
	if k > n/2 {
		return k - n
	}
	return k
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
