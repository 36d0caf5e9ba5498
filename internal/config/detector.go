package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
)

// DetectorFile is the YAML document read from DETECTOR_CONFIG_FILE.
// Keys that are absent keep their default values.
type DetectorFile struct {
	Weights    map[analyzer.FactorName]float64 `yaml:"weights"`
	Confidence analyzer.ConfidenceThresholds   `yaml:"confidence"`
	Tuning     analyzer.Tuning                 `yaml:"tuning"`
}

// ReadDetectorFile reads a detector tuning file on top of the defaults.
func ReadDetectorFile(path string) (*DetectorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detector config %s: %w", path, err)
	}

	file := DetectorFile{
		Confidence: analyzer.DefaultConfidenceThresholds(),
		Tuning:     analyzer.DefaultTuning(),
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing detector config %s: %w", path, err)
	}
	return &file, nil
}

// WriteDetectorFile dumps the given options as a YAML tuning file.
func WriteDetectorFile(path string, opts analyzer.Options, weights map[analyzer.FactorName]float64) error {
	data, err := yaml.Marshal(DetectorFile{
		Weights:    weights,
		Confidence: opts.Confidence,
		Tuning:     opts.Tuning,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EngineOptions builds analyzer options from the environment and the optional tuning file.
func (c *Config) EngineOptions() (analyzer.Options, error) {
	opts := analyzer.DefaultOptions().WithParallel(c.ParallelExtractors)
	if c.DetectorConfigFile == "" {
		return opts, nil
	}

	file, err := ReadDetectorFile(c.DetectorConfigFile)
	if err != nil {
		return analyzer.Options{}, err
	}
	opts = opts.
		WithWeights(file.Weights).
		WithConfidence(file.Confidence).
		WithTuning(file.Tuning)
	if err := opts.Validate(); err != nil {
		return analyzer.Options{}, fmt.Errorf("detector config %s: %w", c.DetectorConfigFile, err)
	}
	return opts, nil
}
