package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/config"
	"vectoradmin/internal/embedder"
	"vectoradmin/internal/filestore"
	"vectoradmin/internal/mirror"
	"vectoradmin/internal/preview"
	"vectoradmin/internal/service"
	"vectoradmin/internal/storage"
	"vectoradmin/internal/vectorstore"
)

// app is everything a command needs, built from the environment.
type app struct {
	cfg       *config.Config
	client    *chroma.Client
	console   *service.Console
	snapshots storage.SnapshotStore

	db     *sql.DB
	qdrant *vectorstore.QdrantStore
}

// newApp loads configuration, opens the database and wires the console.
// When profile is set, the stored profile replaces the configured
// connection.
func newApp(ctx context.Context, profile string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	slog.Debug("logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{cfg: cfg, db: db}
	if err := storage.Migrate(db); err != nil {
		a.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("database initialized", "path", cfg.DBPath)

	profiles := storage.NewProfileRepo(db)
	conn := cfg.Connection()
	if profile != "" {
		p, err := profiles.Get(ctx, profile)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load profile %q: %w", profile, err)
		}
		conn = p.Connection
		slog.Info("using saved profile", "profile", profile, "base_url", conn.BaseURL)
	}

	a.client = chroma.NewClient(conn, chroma.NewSession(),
		chroma.WithTimeout(cfg.RequestTimeout),
		chroma.WithLogger(logger),
	)
	// Versioned paths are only valid once the session is pinned.
	a.client.DetectAPIVersion(ctx)

	files, err := filestore.New(ctx, cfg.FileStore())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init export store: %w", err)
	}

	deps := service.Deps{
		Client:   a.client,
		Preview:  preview.NewRenderer(cfg.PreviewCacheSize, preview.DefaultCacheTTL),
		Files:    files,
		Profiles: profiles,
		Audit:    storage.NewAuditRepo(db),
	}
	a.snapshots = storage.NewSnapshotRepo(db)
	deps.Snapshots = a.snapshots

	if cfg.EmbeddingBaseURL != "" {
		deps.Embedder = embedder.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
		slog.Debug("query embedder enabled", "base_url", cfg.EmbeddingBaseURL, "model", cfg.EmbeddingModel)
	}
	if cfg.QdrantURL != "" {
		a.qdrant, err = vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create Qdrant client: %w", err)
		}
		deps.Mirror = mirror.New(a.qdrant)
		slog.Debug("qdrant mirror enabled", "url", cfg.QdrantURL)
	}

	a.console = service.NewConsole(deps)
	return a, nil
}

// Close releases the database and the Qdrant connection.
func (a *app) Close() {
	if a.qdrant != nil {
		if err := a.qdrant.Close(); err != nil {
			slog.Warn("failed to close Qdrant client", "error", err)
		}
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// resolveID turns a collection name or id into the collection id the
// record operations address.
func (a *app) resolveID(ctx context.Context, nameOrID string) (string, error) {
	col, err := a.console.GetCollection(ctx, nameOrID)
	if err != nil {
		return "", err
	}
	return col.ID, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
