package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	fcolor "github.com/fatih/color"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
	"github.com/anime-shed/ai-image-detector/pkg/models"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

func init() {
	fcolor.NoColor = true
}

func TestFactorBar(t *testing.T) {
	testCases := []struct {
		value      float64
		wantFilled int
	}{
		{0, 0},
		{0.25, 10},
		{0.5, 20},
		{1, 40},
		{-0.2, 0},
		{1.5, 40},
	}

	for _, tc := range testCases {
		bar := factorBar(tc.value)
		if n := utf8.RuneCountInString(bar); n != barWidth {
			t.Errorf("factorBar(%v) has %d cells, want %d", tc.value, n, barWidth)
		}
		if got := strings.Count(bar, "█"); got != tc.wantFilled {
			t.Errorf("factorBar(%v) filled = %d, want %d", tc.value, got, tc.wantFilled)
		}
	}
}

func TestFactorLabel(t *testing.T) {
	if got := factorLabel(analyzer.FactorNoiseUniformity); got != "Noise Uniformity" {
		t.Errorf("got %q", got)
	}
	if got := factorLabel(analyzer.FactorSymmetry); got != "Symmetry" {
		t.Errorf("got %q", got)
	}
}

func TestWriteReport(t *testing.T) {
	resp := &models.AnalysisResponse{
		Probability: 0.5,
		Confidence:  analyzer.ConfidenceLow,
		Factors: analyzer.Factors{
			NoiseUniformity:     0.5,
			ColorDistribution:   0.5,
			FrequencyRegularity: 0.5,
			EdgeConsistency:     0.5,
			Symmetry:            0.5,
		},
		Disclaimer: analyzer.Disclaimer,
	}

	var buf bytes.Buffer
	writeReport(&buf, "tiny.png", resp)
	out := buf.String()

	for _, want := range []string{
		"Analysis Results for: tiny.png",
		"AI Generation Probability: 50.0%",
		"Confidence Level: LOW",
		"Frequency Regularity",
		analyzer.Disclaimer,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "["+factorBar(0.5)+"]"); got != len(analyzer.FactorNames) {
		t.Errorf("got %d factor bars, want %d", got, len(analyzer.FactorNames))
	}
}

func TestWriteSummary(t *testing.T) {
	items := []models.BatchItem{
		{Path: "dir/a.png", Response: &models.AnalysisResponse{Probability: 0.725, Confidence: analyzer.ConfidenceMedium}},
		{Path: "dir/b.png", Error: "decode failed"},
	}

	var buf bytes.Buffer
	writeSummary(&buf, items)
	out := buf.String()

	for _, want := range []string{"a.png", "72.5%", "medium", "b.png", "decode failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSampleImage(t *testing.T) {
	img := sampleImage(512, 512)
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 512 {
		t.Fatalf("bounds = %v", b)
	}

	c := img.NRGBAAt(0, 0)
	if c.R != 0 || c.G != 0 || c.B != 128 {
		t.Errorf("top-left = %v", c)
	}
	c = img.NRGBAAt(511, 256)
	if c.R != 127 || c.G != 254 || c.B != 128 {
		t.Errorf("pixel (511,256) = %v", c)
	}
}

func TestCollectImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "notes.txt", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0755); err != nil {
		t.Fatal(err)
	}

	paths, err := collectImages(dir, validation.NewUploadValidator(1<<20))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png")}
	if len(paths) != len(want) {
		t.Fatalf("got %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	if _, err := collectImages(filepath.Join(dir, "missing"), validation.NewUploadValidator(1<<20)); err == nil {
		t.Error("expected error for a missing directory")
	}
}
