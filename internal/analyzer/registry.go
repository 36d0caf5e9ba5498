package analyzer

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// FactorName identifies one extractor's signal.
type FactorName string

const (
	FactorNoiseUniformity     FactorName = "noise_uniformity"
	FactorColorDistribution   FactorName = "color_distribution"
	FactorFrequencyRegularity FactorName = "frequency_regularity"
	FactorEdgeConsistency     FactorName = "edge_consistency"
	FactorSymmetry            FactorName = "symmetry"
)

// FactorNames lists every factor in evaluation order.
var FactorNames = []FactorName{
	FactorNoiseUniformity,
	FactorColorDistribution,
	FactorFrequencyRegularity,
	FactorEdgeConsistency,
	FactorSymmetry,
}

// Extractor computes one factor score in [0,1]. It must not modify the frame.
type Extractor func(f *Frame, t Tuning) float64

// Entry binds a factor name to its weight and extractor.
type Entry struct {
	Name    FactorName
	Weight  float64
	Extract Extractor
}

// Registry is an ordered, immutable set of extractor entries.
//
// Weights and extractors are swappable, but the set of factors is closed: Validate
// rejects any name outside FactorNames, because results carry the fixed-shape Factors
// struct. Adding an extractor therefore means adding its FactorName to FactorNames,
// a field to Factors and a case to Factors.field, then registering it here.
type Registry struct {
	entries []Entry
}

// DefaultRegistry returns the built-in extractors with their documented weights.
// Weights reflect how reliably each signal separated rendered from captured images.
func DefaultRegistry() Registry {
	return Registry{entries: []Entry{
		{Name: FactorNoiseUniformity, Weight: 0.25, Extract: NoiseUniformity},
		{Name: FactorColorDistribution, Weight: 0.20, Extract: ColorDistribution},
		{Name: FactorFrequencyRegularity, Weight: 0.20, Extract: FrequencyRegularity},
		{Name: FactorEdgeConsistency, Weight: 0.20, Extract: EdgeConsistency},
		{Name: FactorSymmetry, Weight: 0.15, Extract: Symmetry},
	}}
}

// NewRegistry builds a registry from explicit entries.
func NewRegistry(entries ...Entry) Registry {
	return Registry{entries: append([]Entry(nil), entries...)}
}

// Entries returns a copy of the registry entries in order.
func (r Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Names returns the factor names in registry order.
func (r Registry) Names() []FactorName {
	return lo.Map(r.entries, func(e Entry, _ int) FactorName { return e.Name })
}

// Weights returns the weight of every entry keyed by name.
func (r Registry) Weights() map[FactorName]float64 {
	return lo.SliceToMap(r.entries, func(e Entry) (FactorName, float64) { return e.Name, e.Weight })
}

// WithWeight returns a copy of the registry with one weight replaced.
func (r Registry) WithWeight(name FactorName, weight float64) (Registry, error) {
	idx := lo.IndexOf(r.Names(), name)
	if idx < 0 {
		return Registry{}, fmt.Errorf("unknown factor %q", name)
	}
	entries := r.Entries()
	entries[idx].Weight = weight
	return Registry{entries: entries}, nil
}

// Validate checks that every known factor appears exactly once with a usable weight.
func (r Registry) Validate() error {
	names := r.Names()
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return fmt.Errorf("duplicate factors in registry: %v", dups)
	}
	if missing, extra := lo.Difference(FactorNames, names); len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("registry factors mismatch: missing %v, unknown %v", missing, extra)
	}

	var total float64
	for _, e := range r.entries {
		if e.Extract == nil {
			return fmt.Errorf("factor %q has no extractor", e.Name)
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return fmt.Errorf("factor %q has invalid weight %v", e.Name, e.Weight)
		}
		total += e.Weight
	}
	if total <= 0 {
		return fmt.Errorf("registry weights must sum to a positive value")
	}
	return nil
}
