package main

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
	"github.com/anime-shed/ai-image-detector/pkg/models"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

const barWidth = 40

var (
	headerColor  = fcolor.New(fcolor.FgCyan, fcolor.Bold).SprintFunc()
	highColor    = fcolor.New(fcolor.FgRed, fcolor.Bold).SprintFunc()
	mediumColor  = fcolor.New(fcolor.FgYellow).SprintFunc()
	lowColor     = fcolor.New(fcolor.FgGreen).SprintFunc()
	warningColor = fcolor.New(fcolor.FgYellow).SprintFunc()
	errorColor   = fcolor.New(fcolor.FgRed).SprintFunc()
)

// factorBar renders value in [0,1] as a fixed-width bar of filled and empty cells.
func factorBar(value float64) string {
	filled := int(value * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// factorLabel turns noise_uniformity into Noise Uniformity.
func factorLabel(name analyzer.FactorName) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(name), "_", " "))
}

func colorProbability(p float64) string {
	text := fmt.Sprintf("%.1f%%", p*100)
	switch {
	case p >= 0.7:
		return highColor(text)
	case p >= 0.4:
		return mediumColor(text)
	default:
		return lowColor(text)
	}
}

func writeReport(w io.Writer, path string, resp *models.AnalysisResponse) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s %s\n", headerColor("Analysis Results for:"), path)
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "\nAI Generation Probability: %s\n", colorProbability(resp.Probability))
	fmt.Fprintf(w, "Confidence Level: %s\n", strings.ToUpper(string(resp.Confidence)))
	if resp.Image.Downscaled {
		fmt.Fprintf(w, "Analyzed at %dx%d (original %dx%d)\n",
			resp.Image.AnalyzedWidth, resp.Image.AnalyzedHeight, resp.Image.Width, resp.Image.Height)
	}

	fmt.Fprintln(w, "\nContributing Factors:")
	for _, score := range resp.Factors.Scores() {
		fmt.Fprintf(w, "  %-25s [%s] %5.1f%%\n", factorLabel(score.Name), factorBar(score.Value), score.Value*100)
	}

	fmt.Fprintf(w, "\n%s\n  %s\n", warningColor("Disclaimer:"), resp.Disclaimer)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func writeError(w io.Writer, item models.BatchItem) {
	fmt.Fprintf(w, "%s %s: %s\n", errorColor("[-]"), item.Path, item.Error)
}

// writeSummary prints one row per analysed file.
func writeSummary(w io.Writer, items []models.BatchItem) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Probability", "Confidence", "Size", "Status"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, item := range items {
		if item.Response == nil {
			table.Append([]string{filepath.Base(item.Path), "-", "-", "-", item.Error})
			continue
		}
		r := item.Response
		table.Append([]string{
			filepath.Base(item.Path),
			fmt.Sprintf("%.1f%%", r.Probability*100),
			string(r.Confidence),
			fmt.Sprintf("%dx%d", r.Image.Width, r.Image.Height),
			"ok",
		})
	}
	table.Render()
}

// sampleImage draws the demo gradient: red grows down the rows, green across the columns,
// blue is constant.
func sampleImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(float64(y) / float64(height) * 255),
				G: uint8(float64(x) / float64(width) * 255),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// collectImages lists the files directly inside dir that the upload rules accept.
func collectImages(dir string, uploads *validation.UploadValidator) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if uploads.ValidateFilename(entry.Name()) != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
