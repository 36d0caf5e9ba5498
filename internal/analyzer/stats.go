package analyzer

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Neutral is the score an extractor reports when its statistic is undefined.
const Neutral = 0.5

// MinDimension is the smallest width or height any extractor can work with.
// Smaller images are still valid input; every factor is reported as Neutral.
const MinDimension = 8

// flatEpsilon treats luma variance below it as a perfectly flat image.
const flatEpsilon = 1e-9

// Frame is the read-only view shared by every extractor during one analysis call.
type Frame struct {
	Pixels *Pixels
	Width  int
	Height int
	// Luma holds BT.601 luminance in [0,255], row-major.
	Luma []float64
}

// NewFrame computes the luma plane for p. Large images are split into horizontal
// strips converted concurrently; every pixel is independent so the result is identical.
func NewFrame(p *Pixels) *Frame {
	w, h := p.Width, p.Height
	luma := make([]float64, w*h)

	fill := func(startY, endY int) {
		for y := startY; y < endY; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				r, g, b := p.Pix[i*3], p.Pix[i*3+1], p.Pix[i*3+2]
				luma[i] = 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			}
		}
	}

	if w*h < 100000 {
		fill(0, h)
		return &Frame{Pixels: p, Width: w, Height: h, Luma: luma}
	}

	numWorkers := runtime.NumCPU()
	if h < numWorkers {
		numWorkers = h
	}
	rowsPerWorker := (h + numWorkers - 1) / numWorkers // ceil division

	var wg sync.WaitGroup
	for startY := 0; startY < h; startY += rowsPerWorker {
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			fill(startY, endY)
		}(startY, endY)
	}
	wg.Wait()

	return &Frame{Pixels: p, Width: w, Height: h, Luma: luma}
}

func (f *Frame) at(x, y int) float64 {
	return f.Luma[y*f.Width+x]
}

// tooSmall reports whether the frame is below MinDimension on either axis.
func (f *Frame) tooSmall() bool {
	return f.Width < MinDimension || f.Height < MinDimension
}

// isFlat reports whether the luma plane has (numerically) no variance.
func (f *Frame) isFlat() bool {
	_, variance := stat.MeanVariance(f.Luma, nil)
	return variance < flatEpsilon || math.IsNaN(variance)
}

// laplacianResidual returns L(x,y) minus the mean of its 4-neighbours at an interior pixel.
// Kernel: [0, 1, 0; 1, -4, 1; 0, 1, 0] scaled by -1/4.
func (f *Frame) laplacianResidual(x, y int) float64 {
	center := f.at(x, y)
	top := f.at(x, y-1)
	bottom := f.at(x, y+1)
	left := f.at(x-1, y)
	right := f.at(x+1, y)
	return center - (top+bottom+left+right)/4
}

// sobelMagnitude computes the Sobel gradient magnitude at an interior pixel.
func (f *Frame) sobelMagnitude(x, y int) float64 {
	gx := -f.at(x-1, y-1) + f.at(x+1, y-1) +
		-2*f.at(x-1, y) + 2*f.at(x+1, y) +
		-f.at(x-1, y+1) + f.at(x+1, y+1)
	gy := -f.at(x-1, y-1) - 2*f.at(x, y-1) - f.at(x+1, y-1) +
		f.at(x-1, y+1) + 2*f.at(x, y+1) + f.at(x+1, y+1)
	return math.Sqrt(gx*gx + gy*gy)
}

// clamp01 bounds v to [0,1] and maps NaN to Neutral.
func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return Neutral
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// coefficientOfVariation returns std/mean of xs, or ok=false when the mean is ~0.
func coefficientOfVariation(xs []float64) (cv float64, ok bool) {
	if len(xs) < 2 {
		return 0, false
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if mean < flatEpsilon || math.IsNaN(std) {
		return 0, false
	}
	return std / mean, true
}

// pearson returns the correlation of two equally sized samples; 0 when either is constant.
func pearson(a, b []float64) float64 {
	if len(a) < 2 || len(a) != len(b) {
		return 0
	}
	_, va := stat.MeanVariance(a, nil)
	_, vb := stat.MeanVariance(b, nil)
	if va < flatEpsilon || vb < flatEpsilon {
		return 0
	}
	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}
