package analyzer

import (
	"math"
	"math/rand"
	"testing"
)

// solidPixels creates a single-colour pixel array
func solidPixels(width, height int, r, g, b uint8) *Pixels {
	pix := make([]uint8, width*height*3)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = r, g, b
	}
	return &Pixels{Width: width, Height: height, Pix: pix}
}

// checkerboardPixels creates a black and white checkerboard with square cells
func checkerboardPixels(width, height, cell int) *Pixels {
	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var v uint8
			if (x/cell+y/cell)%2 == 0 {
				v = 255
			}
			i := (y*width + x) * 3
			pix[i], pix[i+1], pix[i+2] = v, v, v
		}
	}
	return &Pixels{Width: width, Height: height, Pix: pix}
}

// noisePixels creates independent uniformly distributed channel values from a fixed seed
func noisePixels(width, height int, seed int64) *Pixels {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]uint8, width*height*3)
	for i := range pix {
		pix[i] = uint8(rng.Intn(256))
	}
	return &Pixels{Width: width, Height: height, Pix: pix}
}

// blendPixels mixes a into b: alpha*a + (1-alpha)*b
func blendPixels(a, b *Pixels, alpha float64) *Pixels {
	pix := make([]uint8, len(a.Pix))
	for i := range pix {
		pix[i] = uint8(alpha*float64(a.Pix[i]) + (1-alpha)*float64(b.Pix[i]) + 0.5)
	}
	return &Pixels{Width: a.Width, Height: a.Height, Pix: pix}
}

// gradientPixels mirrors the demo sample: red follows rows, green follows columns, blue fixed
func gradientPixels(width, height int) *Pixels {
	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			pix[i] = uint8(y * 255 / height)
			pix[i+1] = uint8(x * 255 / width)
			pix[i+2] = 128
		}
	}
	return &Pixels{Width: width, Height: height, Pix: pix}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	engine, err := NewEngine(opts)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return engine
}

// columnPixels creates a grey image whose level depends only on the column
func columnPixels(width, height int, level func(x int) uint8) *Pixels {
	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := level(x)
			i := (y*width + x) * 3
			pix[i], pix[i+1], pix[i+2] = v, v, v
		}
	}
	return &Pixels{Width: width, Height: height, Pix: pix}
}

// noisyRampPixels creates a grey vertical ramp from top to bottom with ±jitter noise
func noisyRampPixels(width, height int, top, bottom float64, jitter int, seed int64) *Pixels {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]uint8, width*height*3)
	for y := 0; y < height; y++ {
		base := top + (bottom-top)*float64(y)/float64(height-1)
		for x := 0; x < width; x++ {
			v := base + float64(rng.Intn(2*jitter+1)-jitter)
			v = math.Max(0, math.Min(255, math.Round(v)))
			i := (y*width + x) * 3
			pix[i], pix[i+1], pix[i+2] = uint8(v), uint8(v), uint8(v)
		}
	}
	return &Pixels{Width: width, Height: height, Pix: pix}
}
