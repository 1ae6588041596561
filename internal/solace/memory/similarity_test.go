package memory

import (
	"math"
	"testing"
)

func TestCosineSimilarity_Symmetry(t *testing.T) {
	a := []float32{0.3, -0.5, 0.8}
	b := []float32{0.1, 0.9, -0.2}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if ab != ba {
		t.Fatalf("expected symmetry, got %v and %v", ab, ba)
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	a := []float32{0.25, 0.5, -1.5, 3.0}
	sim := CosineSimilarity(a, a)
	if math.Abs(sim-1.0) > 1e-9 {
		t.Fatalf("expected ~1.0 for self-similarity, got %v", sim)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if sim := CosineSimilarity(a, b); sim != 0 {
		t.Fatalf("expected 0 for orthogonal vectors, got %v", sim)
	}
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	sim := CosineSimilarity(a, b)
	if math.Abs(sim+1.0) > 1e-6 {
		t.Fatalf("expected ~-1.0 for opposite vectors, got %v", sim)
	}
}

// The guard return is exactly 0.0, not NaN and not an error: callers filter
// results with a positive threshold and rely on degenerate comparisons
// falling below it. Pinned here so nobody "fixes" the policy.
func TestCosineSimilarity_Guards(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"empty a", nil, []float32{1, 2}},
		{"empty b", []float32{1, 2}, nil},
		{"both empty", nil, nil},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
		{"zero norm a", []float32{0, 0}, []float32{1, 2}},
		{"zero norm b", []float32{1, 2}, []float32{0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if sim := CosineSimilarity(tc.a, tc.b); sim != 0.0 {
				t.Fatalf("expected exactly 0.0, got %v", sim)
			}
		})
	}
}
