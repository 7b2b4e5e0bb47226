package analysis

import "math"

// powerIterations is fixed rather than convergence-checked; the result only
// feeds a scatter plot.
const powerIterations = 100

// Project maps vectors onto their first two principal components. The
// output has one point per input vector, in input order. Empty input
// returns an empty slice; a single vector projects to the origin.
func (e *Engine) Project(vectors [][]float64) ([]Point, error) {
	if len(vectors) == 0 {
		return []Point{}, nil
	}
	dim := len(vectors[0])
	for _, v := range vectors {
		if len(v) != dim {
			return nil, ErrDimensionMismatch
		}
	}

	centered := center(vectors, dim)
	points := make([]Point, len(vectors))

	first := e.principalDirection(centered, dim)
	for i, v := range centered {
		points[i].X = dot(v, first)
	}

	// Remove the first component so the next power iteration finds the second.
	for i, v := range centered {
		p := points[i].X
		for j := range v {
			v[j] -= p * first[j]
		}
	}

	second := e.principalDirection(centered, dim)
	for i, v := range centered {
		points[i].Y = dot(v, second)
	}
	return points, nil
}

// center returns copies of vectors with the coordinate-wise mean subtracted.
func center(vectors [][]float64, dim int) [][]float64 {
	mean := make([]float64, dim)
	for _, v := range vectors {
		for j, x := range v {
			mean[j] += x
		}
	}
	n := float64(len(vectors))
	for j := range mean {
		mean[j] /= n
	}

	centered := make([][]float64, len(vectors))
	for i, v := range vectors {
		c := make([]float64, dim)
		for j, x := range v {
			c[j] = x - mean[j]
		}
		centered[i] = c
	}
	return centered
}

// principalDirection finds the dominant variance direction of data by power
// iteration from a random unit vector. For data with no variance it returns
// the zero vector, so every projection is 0.
func (e *Engine) principalDirection(data [][]float64, dim int) []float64 {
	dir := make([]float64, dim)
	for j := range dir {
		dir[j] = e.rng.NormFloat64()
	}
	if !normalize(dir) {
		return make([]float64, dim)
	}

	next := make([]float64, dim)
	for it := 0; it < powerIterations; it++ {
		for j := range next {
			next[j] = 0
		}
		for _, v := range data {
			p := dot(v, dir)
			for j, x := range v {
				next[j] += p * x
			}
		}
		if !normalize(next) {
			return make([]float64, dim)
		}
		dir, next = next, dir
	}
	return dir
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize scales v to unit length in place. It reports false for a zero vector.
func normalize(v []float64) bool {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 || math.IsNaN(norm) {
		return false
	}
	for i := range v {
		v[i] /= norm
	}
	return true
}
