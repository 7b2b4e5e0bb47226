package chroma

import (
	"net/url"
	"sync"
)

// APIVersion identifies one of the two incompatible path conventions.
type APIVersion string

const (
	VersionUnknown APIVersion = ""
	VersionV2      APIVersion = "v2"
	VersionV1      APIVersion = "v1"
)

const (
	DefaultTenant   = "default_tenant"
	DefaultDatabase = "default_database"
)

// PathStrategy builds operation paths for one API generation.
type PathStrategy interface {
	Version() APIVersion
	// Prefix is the path every operation path starts with.
	Prefix() string
	Heartbeat() string
	ServerVersion() string
}

type v2Paths struct{}

func (v2Paths) Version() APIVersion { return VersionV2 }

func (v2Paths) Prefix() string {
	return "/api/v2/tenants/" + DefaultTenant + "/databases/" + DefaultDatabase
}

// Heartbeat and version on v2 live outside the tenant/database tree.
func (v2Paths) Heartbeat() string     { return "/api/v2/heartbeat" }
func (v2Paths) ServerVersion() string { return "/api/v2/version" }

type v1Paths struct{}

func (v1Paths) Version() APIVersion   { return VersionV1 }
func (v1Paths) Prefix() string        { return "/api/v1" }
func (v1Paths) Heartbeat() string     { return "/api/v1/heartbeat" }
func (v1Paths) ServerVersion() string { return "/api/v1/version" }

// PathsFor returns the path strategy of v. Unknown resolves to v2.
func PathsFor(v APIVersion) PathStrategy {
	if v == VersionV1 {
		return v1Paths{}
	}
	return v2Paths{}
}

// Session holds the state learned while connecting: the detected API
// version and the capability snapshot. Both start unknown, are written
// only by detection, and live until the process exits or Reset is called.
type Session struct {
	mu           sync.RWMutex
	version      APIVersion
	capabilities *Capabilities
}

// NewSession returns a session with nothing detected yet.
func NewSession() *Session {
	return &Session{}
}

// Version returns the detected API version, or VersionUnknown.
func (s *Session) Version() APIVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// SetVersion pins the session to v.
func (s *Session) SetVersion(v APIVersion) {
	s.mu.Lock()
	s.version = v
	s.mu.Unlock()
}

// Paths returns the path strategy for the current version.
func (s *Session) Paths() PathStrategy {
	return PathsFor(s.Version())
}

// Capabilities returns the cached capability snapshot, if any.
func (s *Session) Capabilities() (Capabilities, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.capabilities == nil {
		return Capabilities{}, false
	}
	return *s.capabilities, true
}

// SetCapabilities caches caps for the rest of the session.
func (s *Session) SetCapabilities(caps Capabilities) {
	s.mu.Lock()
	s.capabilities = &caps
	s.mu.Unlock()
}

// Reset forgets everything detected so far.
func (s *Session) Reset() {
	s.mu.Lock()
	s.version = VersionUnknown
	s.capabilities = nil
	s.mu.Unlock()
}

func collectionPath(p PathStrategy, nameOrID string) string {
	return p.Prefix() + "/collections/" + url.PathEscape(nameOrID)
}
