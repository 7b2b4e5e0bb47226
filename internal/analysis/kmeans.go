package analysis

import "math"

// DefaultMaxIterations bounds Lloyd iterations when the caller passes 0 or less
// to ClusterDefault.
const DefaultMaxIterations = 50

// Clustering is the result of k-means: one label per input point and k centroids.
type Clustering struct {
	Labels    []int   `json:"labels"`
	Centroids []Point `json:"centroids"`
}

// ClusterDefault runs Cluster with DefaultMaxIterations.
func (e *Engine) ClusterDefault(points []Point, k int) (Clustering, error) {
	return e.Cluster(points, k, DefaultMaxIterations)
}

// Cluster partitions points into k groups. Centroids are seeded with
// distance-squared weighted sampling, then refined for at most
// maxIterations rounds, stopping early once no centroid moves. A centroid
// that loses all its points keeps its last position. maxIterations of 0
// returns the seeded centroids with their assignment.
func (e *Engine) Cluster(points []Point, k, maxIterations int) (Clustering, error) {
	if k < 1 {
		return Clustering{}, ErrInvalidK
	}
	if len(points) == 0 {
		return Clustering{}, ErrEmptyInput
	}

	centroids := e.seedCentroids(points, k)
	labels := make([]int, len(points))
	assign(points, centroids, labels)

	for it := 0; it < maxIterations; it++ {
		if !recompute(points, labels, centroids) {
			break
		}
		assign(points, centroids, labels)
	}

	return Clustering{Labels: labels, Centroids: centroids}, nil
}

// seedCentroids picks the first centroid uniformly and each following one
// with probability proportional to its squared distance from the nearest
// centroid chosen so far.
func (e *Engine) seedCentroids(points []Point, k int) []Point {
	centroids := make([]Point, 0, k)
	centroids = append(centroids, points[e.rng.IntN(len(points))])

	nearest := make([]float64, len(points))
	for i, p := range points {
		nearest[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		var total float64
		for _, d := range nearest {
			total += d
		}

		idx := e.rng.IntN(len(points))
		if total > 0 {
			target := e.rng.Float64() * total
			var cum float64
			for i, d := range nearest {
				if d == 0 {
					continue
				}
				cum += d
				idx = i
				if cum > target {
					break
				}
			}
		}

		c := points[idx]
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < nearest[i] {
				nearest[i] = d
			}
		}
	}
	return centroids
}

// assign labels every point with its nearest centroid; ties go to the lower index.
func assign(points []Point, centroids []Point, labels []int) {
	for i, p := range points {
		best := 0
		bestDist := math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestDist {
				best = c
				bestDist = d
			}
		}
		labels[i] = best
	}
}

// recompute moves every non-empty centroid to the mean of its points and
// reports whether any centroid moved.
func recompute(points []Point, labels []int, centroids []Point) bool {
	sums := make([]Point, len(centroids))
	counts := make([]int, len(centroids))
	for i, p := range points {
		l := labels[i]
		sums[l].X += p.X
		sums[l].Y += p.Y
		counts[l]++
	}

	moved := false
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		next := Point{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
		if next != centroids[c] {
			moved = true
			centroids[c] = next
		}
	}
	return moved
}

func sqDist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
