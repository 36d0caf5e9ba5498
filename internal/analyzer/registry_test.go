package analyzer

import (
	"math"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()
	if err := registry.Validate(); err != nil {
		t.Fatalf("Expected default registry to be valid, got %v", err)
	}

	names := registry.Names()
	if len(names) != len(FactorNames) {
		t.Fatalf("Expected %d factors, got %d", len(FactorNames), len(names))
	}
	for i, name := range FactorNames {
		if names[i] != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, names[i])
		}
	}

	var total float64
	for _, w := range registry.Weights() {
		total += w
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("Expected default weights to sum to 1, got %v", total)
	}
}

func TestRegistryWithWeight(t *testing.T) {
	registry := DefaultRegistry()

	updated, err := registry.WithWeight(FactorEdgeConsistency, 0.6)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Weights()[FactorEdgeConsistency] != 0.6 {
		t.Errorf("Expected 0.6, got %v", updated.Weights()[FactorEdgeConsistency])
	}
	if registry.Weights()[FactorEdgeConsistency] != 0.20 {
		t.Error("Expected original registry to be unchanged")
	}

	if _, err := registry.WithWeight("texture", 1); err == nil {
		t.Error("Expected error for unknown factor")
	}
}

func TestRegistryValidate(t *testing.T) {
	entries := DefaultRegistry().Entries()

	testCases := []struct {
		name     string
		registry Registry
	}{
		{"missing factor", NewRegistry(entries[:4]...)},
		{"duplicate factor", NewRegistry(append(entries, entries[0])...)},
		{"unknown factor", NewRegistry(append(entries[:4:4], Entry{Name: "texture", Weight: 0.1, Extract: Symmetry})...)},
		{"nil extractor", NewRegistry(append(entries[:4:4], Entry{Name: FactorSymmetry, Weight: 0.1})...)},
		{"infinite weight", NewRegistry(append(entries[:4:4], Entry{Name: FactorSymmetry, Weight: math.Inf(1), Extract: Symmetry})...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.registry.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestCompose(t *testing.T) {
	scores := []FactorScore{
		{FactorSymmetry, 0.1},
		{FactorNoiseUniformity, 0.9},
		{FactorColorDistribution, 0.2},
		{FactorFrequencyRegularity, 0.3},
		{FactorEdgeConsistency, 0.4},
	}
	res := Compose(0.61, ConfidenceMedium, scores)

	if res.Probability != 0.61 || res.Confidence != ConfidenceMedium || res.Disclaimer != Disclaimer {
		t.Errorf("Unexpected result header: %+v", res)
	}
	if res.Factors.Symmetry != 0.1 || res.Factors.NoiseUniformity != 0.9 || res.Factors.EdgeConsistency != 0.4 {
		t.Errorf("Unexpected factors: %+v", res.Factors)
	}

	ordered := res.Factors.Scores()
	for i, name := range FactorNames {
		if ordered[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, ordered[i].Name)
		}
	}
	if _, ok := res.Factors.Get("texture"); ok {
		t.Error("Expected unknown factor lookup to fail")
	}
}
