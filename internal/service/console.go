// Package service holds the console operations shared by the HTTP API and
// the CLI. It sits between the transport layers and the protocol client.
package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_console_service.go -package=mocks vectoradmin/internal/service ConsoleService

import (
	"context"

	"vectoradmin/internal/analysis"
	"vectoradmin/internal/capability"
	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
	"vectoradmin/internal/export"
	"vectoradmin/internal/filestore"
	"vectoradmin/internal/mirror"
	"vectoradmin/internal/preview"
	"vectoradmin/internal/storage"
)

// ConsoleService is everything an operator can do against one connected server.
type ConsoleService interface {
	Health(ctx context.Context) HealthStatus
	Capabilities(ctx context.Context, refresh bool) chroma.Capabilities

	ListCollections(ctx context.Context) ([]CollectionSummary, error)
	GetCollection(ctx context.Context, nameOrID string) (CollectionSummary, error)
	DeleteCollection(ctx context.Context, name string) error

	GetRecords(ctx context.Context, collectionID string, req RecordsRequest) (RecordsPage, error)
	DeleteRecords(ctx context.Context, collectionID string, req DeleteRecordsRequest) error
	Query(ctx context.Context, collectionID string, req QueryRequest) ([]QueryMatch, error)
	Preview(ctx context.Context, collectionID, recordID string) (RecordPreview, error)

	Visualize(ctx context.Context, collectionID string, req VisualizeRequest) (analysis.Visualization, error)
	Similarity(ctx context.Context, collectionID string, req SimilarityRequest) (SimilarityResult, error)

	Export(ctx context.Context, nameOrID string, onProgress export.ProgressFunc) (export.Document, error)
	SaveExport(ctx context.Context, doc export.Document) (string, error)
	Import(ctx context.Context, doc export.Document, name string) (chroma.Collection, error)
	Mirror(ctx context.Context, nameOrID, target string) (mirror.Report, error)

	Snapshots(ctx context.Context, collectionID string) ([]storage.Snapshot, error)
	AuditLog(ctx context.Context, limit int) ([]storage.AuditEntry, error)
	ListProfiles(ctx context.Context) ([]storage.Profile, error)
	SaveProfile(ctx context.Context, p *storage.Profile) error
	DeleteProfile(ctx context.Context, name string) error
}

// TextEmbedder turns query text into embeddings locally.
type TextEmbedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// Deps wires a Console. Client is required; every other field is optional
// and the operations that need a missing one return ErrNotConfigured.
type Deps struct {
	Client    *chroma.Client
	Detector  *capability.Detector
	Embedder  TextEmbedder
	Preview   *preview.Renderer
	Files     filestore.Store
	Mirror    *mirror.Mirror
	Profiles  storage.ProfileStore
	Audit     storage.AuditStore
	Snapshots storage.SnapshotStore
	// NewEngine returns a fresh analysis engine per request; engines are
	// not safe for concurrent use.
	NewEngine func() *analysis.Engine
}

// Console implements ConsoleService.
type Console struct {
	client    *chroma.Client
	detector  *capability.Detector
	embedder  TextEmbedder
	preview   *preview.Renderer
	files     filestore.Store
	mirror    *mirror.Mirror
	profiles  storage.ProfileStore
	audit     storage.AuditStore
	snapshots storage.SnapshotStore
	newEngine func() *analysis.Engine
}

// NewConsole creates a Console from deps.
func NewConsole(deps Deps) *Console {
	c := &Console{
		client:    deps.Client,
		detector:  deps.Detector,
		embedder:  deps.Embedder,
		preview:   deps.Preview,
		files:     deps.Files,
		mirror:    deps.Mirror,
		profiles:  deps.Profiles,
		audit:     deps.Audit,
		snapshots: deps.Snapshots,
		newEngine: deps.NewEngine,
	}
	if c.detector == nil {
		c.detector = capability.NewDetector(deps.Client)
	}
	if c.preview == nil {
		c.preview = preview.NewRenderer(preview.DefaultCacheSize, preview.DefaultCacheTTL)
	}
	if c.newEngine == nil {
		c.newEngine = analysis.NewEngine
	}
	return c
}

// Capabilities returns the cached capability matrix, detecting it on first
// use or when refresh is set.
func (c *Console) Capabilities(ctx context.Context, refresh bool) chroma.Capabilities {
	if !refresh {
		if caps, ok := c.detector.Cached(); ok {
			return caps
		}
	}
	return c.detector.Detect(ctx)
}

// record writes an audit entry. Audit failures are logged, never returned:
// the audited operation already happened.
func (c *Console) record(ctx context.Context, action, collection, detail string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.Record(ctx, &storage.AuditEntry{
		Action:     action,
		Collection: collection,
		Detail:     detail,
	}); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to write audit entry",
			"action", action, "collection", collection, "error", err)
	}
}
