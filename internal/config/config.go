package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/filestore"
)

// Config holds all configuration for the application.
type Config struct {
	// Connection to the vector database.
	ChromaURL      string
	ConnectionMode chroma.ConnectionMode
	ProxyOrigin    string
	AuthType       chroma.AuthType
	AuthToken      string
	AuthUsername   string
	AuthPassword   string
	AuthHeader     string
	RequestTimeout time.Duration

	APIPort   string
	DBPath    string
	LogLevel  slog.Level
	LogFormat string

	QdrantURL string

	EmbeddingBaseURL string
	EmbeddingAPIKey  string
	EmbeddingModel   string

	ExportStore string
	ExportDir   string
	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string

	SnapshotSchedule string
	PreviewCacheSize int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or one of its parents, it is
// loaded first; variables already set in the environment take precedence.
func Load() (*Config, error) {
	loadDotEnv()

	apiPort := getEnv("API_PORT", "9000")
	cfg := &Config{
		ChromaURL:        strings.TrimRight(getEnv("CHROMA_URL", "http://localhost:8000"), "/"),
		ConnectionMode:   chroma.ConnectionMode(strings.ToLower(getEnv("CONNECTION_MODE", string(chroma.ModeDirect)))),
		ProxyOrigin:      getEnv("PROXY_ORIGIN", "http://localhost:"+apiPort),
		AuthType:         chroma.AuthType(strings.ToLower(getEnv("AUTH_TYPE", string(chroma.AuthNone)))),
		AuthToken:        getEnv("AUTH_TOKEN", ""),
		AuthUsername:     getEnv("AUTH_USERNAME", ""),
		AuthPassword:     getEnv("AUTH_PASSWORD", ""),
		AuthHeader:       getEnv("AUTH_HEADER", chroma.DefaultTokenHeader),
		APIPort:          apiPort,
		DBPath:           getEnv("DB_PATH", "./data/vectoradmin.db"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
		QdrantURL:        getEnv("QDRANT_URL", ""),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingAPIKey:  getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ExportStore:      strings.ToLower(getEnv("EXPORT_STORE", "local")),
		ExportDir:        getEnv("EXPORT_DIR", "./data/exports"),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:      getEnv("S3_SECRET_KEY", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", ""),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	timeoutMs, err := positiveInt("REQUEST_TIMEOUT_MS", strconv.Itoa(int(chroma.DefaultTimeout/time.Millisecond)))
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = time.Duration(timeoutMs) * time.Millisecond

	cfg.PreviewCacheSize, err = positiveInt("PREVIEW_CACHE_SIZE", "256")
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks the combinations Load cannot express as defaults.
func (c *Config) Validate() error {
	switch c.ConnectionMode {
	case chroma.ModeDirect:
	case chroma.ModeProxy:
		if c.ProxyOrigin == "" {
			return fmt.Errorf("PROXY_ORIGIN is required when CONNECTION_MODE is proxy")
		}
	default:
		return fmt.Errorf("CONNECTION_MODE must be direct or proxy, got %q", c.ConnectionMode)
	}

	switch c.AuthType {
	case chroma.AuthNone:
	case chroma.AuthBearer, chroma.AuthCustomHeader:
		if c.AuthToken == "" {
			return fmt.Errorf("AUTH_TOKEN is required when AUTH_TYPE is %s", c.AuthType)
		}
	case chroma.AuthBasic:
		if c.AuthUsername == "" {
			return fmt.Errorf("AUTH_USERNAME is required when AUTH_TYPE is basic")
		}
	default:
		return fmt.Errorf("AUTH_TYPE must be none, bearer, basic or custom-header, got %q", c.AuthType)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	switch c.ExportStore {
	case "local":
		if c.ExportDir == "" {
			return fmt.Errorf("EXPORT_DIR is required when EXPORT_STORE is local")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when EXPORT_STORE is s3")
		}
	default:
		return fmt.Errorf("EXPORT_STORE must be local or s3, got %q", c.ExportStore)
	}

	return nil
}

// Connection returns the connection settings for the protocol client.
func (c *Config) Connection() chroma.ConnectionConfig {
	return chroma.ConnectionConfig{
		BaseURL:     c.ChromaURL,
		Mode:        c.ConnectionMode,
		ProxyOrigin: c.ProxyOrigin,
		AuthType:    c.AuthType,
		Credentials: chroma.Credentials{
			Token:      c.AuthToken,
			Username:   c.AuthUsername,
			Password:   c.AuthPassword,
			HeaderName: c.AuthHeader,
		},
	}
}

// FileStore returns the export sink settings.
func (c *Config) FileStore() filestore.Config {
	return filestore.Config{
		Type:      c.ExportStore,
		Dir:       c.ExportDir,
		Endpoint:  c.S3Endpoint,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Prefix:    c.S3Prefix,
		// Custom endpoints are S3-compatible stores, which rarely support
		// virtual-hosted buckets.
		PathStyle: c.S3Endpoint != "",
	}
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadDotEnv loads the nearest .env file, looking in the current
// directory and up to four parents.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func positiveInt(key, defaultValue string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
