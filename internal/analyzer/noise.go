package analyzer

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	minNoiseTile  = 8
	maxNoiseTile  = 64
	minNoiseTiles = 4
)

// NoiseUniformity scores how evenly the high-frequency noise floor is spread across tiles.
// Sensor noise varies with local brightness and content; a constant floor scores high.
// An image with no residual noise at all maxes out at 1.
func NoiseUniformity(f *Frame, t Tuning) float64 {
	if f.tooSmall() {
		return Neutral
	}

	tile := clampInt(min(f.Width, f.Height)/8, minNoiseTile, maxNoiseTile)

	// Tiles cover the interior only; the residual needs all four neighbours.
	innerW, innerH := f.Width-2, f.Height-2
	tilesX, tilesY := innerW/tile, innerH/tile
	if tilesX*tilesY < minNoiseTiles {
		return Neutral
	}

	sigmas := make([]float64, 0, tilesX*tilesY)
	residuals := make([]float64, tile*tile)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := 1+tx*tile, 1+ty*tile
			i := 0
			for y := y0; y < y0+tile; y++ {
				for x := x0; x < x0+tile; x++ {
					residuals[i] = f.laplacianResidual(x, y)
					i++
				}
			}
			sigmas = append(sigmas, math.Sqrt(stat.Variance(residuals, nil)))
		}
	}

	cv, ok := coefficientOfVariation(sigmas)
	if !ok {
		// No measurable noise anywhere: the most uniform floor possible.
		return 1
	}
	return clamp01(1 - cv/t.NoiseCVRef)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
