package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"vectoradmin/internal/contextutil"
)

// ErrCollectionMismatch is returned when a target collection exists with a
// different vector size or distance.
var ErrCollectionMismatch = errors.New("target collection is incompatible")

// QdrantStore implements VectorStore on the Qdrant gRPC API.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore connects to the Qdrant instance whose HTTP address is
// urlStr, e.g. "http://localhost:6333". The gRPC port is the HTTP port + 1
// and TLS follows the https scheme.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	target, err := grpcTarget(urlStr)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	return &QdrantStore{client: client}, nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func grpcTarget(urlStr string) (*qdrant.Config, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	cfg := &qdrant.Config{
		Host:   u.Hostname(),
		Port:   6334,
		UseTLS: u.Scheme == "https",
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if p := u.Port(); p != "" {
		httpPort, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid Qdrant port %q: %w", p, err)
		}
		cfg.Port = httpPort + 1
	}
	return cfg, nil
}

// Upsert writes points and waits for Qdrant to apply them.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	logger := contextutil.LoggerFromContext(ctx).With("collection", collection, "count", len(points))

	structs := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		ps, err := toPointStruct(p)
		if err != nil {
			return err
		}
		structs[i] = ps
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         structs,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		logger.ErrorContext(ctx, "qdrant upsert failed", "error", err)
		return fmt.Errorf("upsert into %s: %w", collection, err)
	}
	logger.DebugContext(ctx, "qdrant upsert applied")
	return nil
}

func toPointStruct(p Point) (*qdrant.PointStruct, error) {
	ps := &qdrant.PointStruct{
		Id:      qdrant.NewID(p.ID),
		Vectors: qdrant.NewVectors(p.Vec...),
	}
	if len(p.Meta) == 0 {
		return ps, nil
	}
	payload, err := qdrant.TryValueMap(p.Meta)
	if err != nil {
		return nil, fmt.Errorf("point %s payload: %w", p.ID, err)
	}
	ps.Payload = payload
	return ps, nil
}

// EnsureCollection creates spec.Name if it is missing. An existing
// collection is reused only when its vector size and distance match.
func (s *QdrantStore) EnsureCollection(ctx context.Context, spec CollectionSpec) error {
	if spec.VectorSize <= 0 {
		return errors.New("vector size must be greater than 0")
	}
	distance := qdrantDistance(spec.Distance)
	logger := contextutil.LoggerFromContext(ctx).With(
		"collection", spec.Name, "vector_size", spec.VectorSize, "distance", distance.String())

	exists, err := s.client.CollectionExists(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", spec.Name, err)
	}
	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: spec.Name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(spec.VectorSize),
				Distance: distance,
			}),
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", spec.Name, err)
		}
		logger.InfoContext(ctx, "created mirror collection")
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, spec.Name)
	if err != nil {
		return fmt.Errorf("inspect collection %s: %w", spec.Name, err)
	}
	params := vectorParams(info)
	if params == nil {
		return fmt.Errorf("%w: %s has no single unnamed vector", ErrCollectionMismatch, spec.Name)
	}
	if int(params.Size) != spec.VectorSize || params.Distance != distance {
		return fmt.Errorf("%w: %s has %d dimensions and %s distance, want %d and %s",
			ErrCollectionMismatch, spec.Name, params.Size, params.Distance, spec.VectorSize, distance)
	}

	logger.DebugContext(ctx, "reusing mirror collection")
	return nil
}

// PointsCount returns the number of points in a collection.
func (s *QdrantStore) PointsCount(ctx context.Context, collection string) (int, error) {
	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return 0, fmt.Errorf("inspect collection %s: %w", collection, err)
	}
	return int(info.GetPointsCount()), nil
}

func qdrantDistance(d Distance) qdrant.Distance {
	switch d {
	case DistanceL2:
		return qdrant.Distance_Euclid
	case DistanceIP:
		return qdrant.Distance_Dot
	default:
		return qdrant.Distance_Cosine
	}
}

// vectorParams returns the parameters of the collection's unnamed vector,
// or nil when it uses named vectors.
func vectorParams(info *qdrant.CollectionInfo) *qdrant.VectorParams {
	return info.GetConfig().GetParams().GetVectorsConfig().GetParams()
}
