package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks vectoradmin/internal/vectorstore VectorStore

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// SpaceMetadataKey is the collection metadata key holding the distance
// function of a source collection.
const SpaceMetadataKey = "hnsw:space"

// Distance is the metric a mirrored collection is searched with.
type Distance string

const (
	DistanceCosine Distance = "cosine"
	DistanceL2     Distance = "l2"
	DistanceIP     Distance = "ip"
)

// DistanceFromMetadata reads the source collection's space. Missing or
// unrecognised values fall back to cosine, the server default.
func DistanceFromMetadata(metadata map[string]any) Distance {
	space, _ := metadata[SpaceMetadataKey].(string)
	switch d := Distance(strings.ToLower(space)); d {
	case DistanceL2, DistanceIP:
		return d
	default:
		return DistanceCosine
	}
}

// CollectionSpec describes a mirror target collection.
type CollectionSpec struct {
	Name       string
	VectorSize int
	Distance   Distance
}

// Point represents a vector point with payload.
type Point struct {
	ID   string // UUID; see PointID
	Vec  []float32
	Meta map[string]any
}

// VectorStore is the mirror target.
type VectorStore interface {
	// EnsureCollection creates the collection, or checks that an existing
	// one has the same vector size and distance.
	EnsureCollection(ctx context.Context, spec CollectionSpec) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// PointsCount returns the number of points stored in the collection.
	PointsCount(ctx context.Context, collection string) (int, error)
}

// PointID derives a stable UUIDv5 point id from a source collection and
// record id. Qdrant only accepts UUIDs or integers as point ids.
func PointID(sourceCollection, recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chroma://"+sourceCollection+"/"+recordID)).String()
}
