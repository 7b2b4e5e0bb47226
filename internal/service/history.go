package service

import (
	"context"
	"errors"
	"strings"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/storage"
)

// Snapshots returns the growth history of a collection, oldest first.
func (c *Console) Snapshots(ctx context.Context, collectionID string) ([]storage.Snapshot, error) {
	if c.snapshots == nil {
		return nil, WrapError(ErrNotConfigured, "snapshot store")
	}
	return c.snapshots.ListByCollection(ctx, collectionID)
}

// AuditLog returns the newest audit entries.
func (c *Console) AuditLog(ctx context.Context, limit int) ([]storage.AuditEntry, error) {
	if c.audit == nil {
		return nil, WrapError(ErrNotConfigured, "audit store")
	}
	return c.audit.List(ctx, limit)
}

func (c *Console) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	if c.profiles == nil {
		return nil, WrapError(ErrNotConfigured, "profile store")
	}
	return c.profiles.List(ctx)
}

// SaveProfile validates and stores a connection profile.
func (c *Console) SaveProfile(ctx context.Context, p *storage.Profile) error {
	if c.profiles == nil {
		return WrapError(ErrNotConfigured, "profile store")
	}
	if err := ValidateConnection(p.Name, p.Connection); err != nil {
		return err
	}
	return c.profiles.Save(ctx, p)
}

func (c *Console) DeleteProfile(ctx context.Context, name string) error {
	if c.profiles == nil {
		return WrapError(ErrNotConfigured, "profile store")
	}
	err := c.profiles.Delete(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return WrapError(ErrNotFound, "profile "+name)
	}
	return err
}

// ValidateConnection checks a named connection the way configuration
// loading does.
func ValidateConnection(name string, conn chroma.ConnectionConfig) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if !strings.HasPrefix(conn.BaseURL, "http://") && !strings.HasPrefix(conn.BaseURL, "https://") {
		return &ValidationError{Field: "base_url", Message: "must be an http(s) URL"}
	}
	switch conn.Mode {
	case chroma.ModeDirect:
	case chroma.ModeProxy:
		if conn.ProxyOrigin == "" {
			return &ValidationError{Field: "proxy_origin", Message: "required in proxy mode"}
		}
	default:
		return &ValidationError{Field: "mode", Message: "must be direct or proxy"}
	}
	switch conn.AuthType {
	case chroma.AuthNone:
	case chroma.AuthBearer, chroma.AuthCustomHeader:
		if conn.Credentials.Token == "" {
			return &ValidationError{Field: "token", Message: "required for " + string(conn.AuthType)}
		}
	case chroma.AuthBasic:
		if conn.Credentials.Username == "" {
			return &ValidationError{Field: "username", Message: "required for basic"}
		}
	default:
		return &ValidationError{Field: "auth_type", Message: "unsupported"}
	}
	return nil
}
