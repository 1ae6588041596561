package memory

import "math"

// CosineSimilarity computes the cosine similarity between two vectors,
// in [-1, 1]. It returns exactly 0.0 when either vector is empty, when the
// lengths differ, or when either norm is zero. That zero is a guard value,
// not a true cosine: it conflates "no similarity" with "incomparable" on
// purpose, so degenerate vectors always fall below any positive threshold.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
