package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_profile_store.go -package=mocks vectoradmin/internal/storage ProfileStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vectoradmin/internal/chroma"
)

// ProfileStore defines the interface for saved connection profiles.
type ProfileStore interface {
	// Save inserts or replaces the profile with p.Name.
	Save(ctx context.Context, p *Profile) error
	// Get returns ErrNotFound if no profile has the name.
	Get(ctx context.Context, name string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Delete(ctx context.Context, name string) error
}

// ProfileRepo implements ProfileStore on SQLite.
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Save inserts or replaces a profile and stamps UpdatedAt.
func (r *ProfileRepo) Save(ctx context.Context, p *Profile) error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	p.UpdatedAt = time.Now().UTC()
	c := p.Connection

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO connection_profiles (name, base_url, mode, proxy_origin, auth_type, token, username, password, header_name, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			base_url = excluded.base_url,
			mode = excluded.mode,
			proxy_origin = excluded.proxy_origin,
			auth_type = excluded.auth_type,
			token = excluded.token,
			username = excluded.username,
			password = excluded.password,
			header_name = excluded.header_name,
			updated_at = excluded.updated_at`,
		p.Name, c.BaseURL, string(c.Mode), c.ProxyOrigin, string(c.AuthType),
		c.Credentials.Token, c.Credentials.Username, c.Credentials.Password, c.Credentials.HeaderName,
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Get returns the profile with the given name.
func (r *ProfileRepo) Get(ctx context.Context, name string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, base_url, mode, proxy_origin, auth_type, token, username, password, header_name, updated_at
		 FROM connection_profiles WHERE name = ?`, name)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

// List returns all profiles ordered by name.
func (r *ProfileRepo) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, base_url, mode, proxy_origin, auth_type, token, username, password, header_name, updated_at
		 FROM connection_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes a profile. Returns ErrNotFound if it did not exist.
func (r *ProfileRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM connection_profiles WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(s rowScanner) (*Profile, error) {
	var (
		p              Profile
		mode, authType string
		updatedAtStr   string
	)
	c := &p.Connection
	if err := s.Scan(&p.Name, &c.BaseURL, &mode, &c.ProxyOrigin, &authType,
		&c.Credentials.Token, &c.Credentials.Username, &c.Credentials.Password, &c.Credentials.HeaderName,
		&updatedAtStr); err != nil {
		return nil, err
	}
	c.Mode = chroma.ConnectionMode(mode)
	c.AuthType = chroma.AuthType(authType)

	var err error
	p.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}
	return &p, nil
}
