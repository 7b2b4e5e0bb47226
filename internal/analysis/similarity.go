package analysis

import "math"

// DefaultSampleCap bounds the similarity matrix for interactive use.
const DefaultSampleCap = 50

// SimilarityMatrix holds pairwise cosine similarities of a sample.
// Indices[i] is the position in the original input of row and column i.
type SimilarityMatrix struct {
	Indices []int       `json:"indices"`
	Values  [][]float64 `json:"values"`
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when either has zero magnitude or their lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

// Similarity builds the symmetric matrix over the first sampleCap vectors
// that are present (non-nil), keeping input order. The diagonal is exactly 1.
// sampleCap <= 0 uses DefaultSampleCap. Sampled vectors of different
// lengths return ErrDimensionMismatch.
func Similarity(vectors [][]float64, sampleCap int) (SimilarityMatrix, error) {
	if sampleCap <= 0 {
		sampleCap = DefaultSampleCap
	}

	indices := make([]int, 0, min(sampleCap, len(vectors)))
	for i, v := range vectors {
		if len(indices) == sampleCap {
			break
		}
		if v != nil {
			indices = append(indices, i)
		}
	}

	n := len(indices)
	for _, idx := range indices {
		if len(vectors[idx]) != len(vectors[indices[0]]) {
			return SimilarityMatrix{}, ErrDimensionMismatch
		}
	}

	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := CosineSimilarity(vectors[indices[i]], vectors[indices[j]])
			values[i][j] = s
			values[j][i] = s
		}
	}
	return SimilarityMatrix{Indices: indices, Values: values}, nil
}
