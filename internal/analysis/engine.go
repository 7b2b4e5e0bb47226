// Package analysis reduces and clusters embedding vectors for display.
//
// PCA seeds power iteration with a random direction and k-means seeds its
// centroids randomly, so two runs over the same input may return mirrored
// axes or a different partition. Use NewSeededEngine when a caller needs
// reproducible output.
package analysis

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrEmptyInput is returned when an operation needs at least one point.
	ErrEmptyInput = errors.New("empty input")
	// ErrDimensionMismatch is returned when input vectors differ in length.
	ErrDimensionMismatch = errors.New("vectors have different dimensions")
	// ErrInvalidK is returned for k < 1.
	ErrInvalidK = errors.New("k must be at least 1")
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Engine runs the randomized algorithms. It is not safe for concurrent use.
type Engine struct {
	rng *rand.Rand
}

// NewEngine returns an engine seeded from the global random source.
func NewEngine() *Engine {
	return &Engine{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededEngine returns an engine whose output is reproducible for a given seed.
func NewSeededEngine(seed uint64) *Engine {
	return &Engine{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}
