package chroma

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrorKind classifies a protocol failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindHTTP
	KindValidation
	KindNetwork
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CORSGuidance is attached to network errors that look like a cross-origin rejection.
const CORSGuidance = "the server rejected a cross-origin request: switch the connection to proxy mode, " +
	"or allow this origin on the server (CHROMA_SERVER_CORS_ALLOW_ORIGINS)"

// corsSignatures are transport error fragments produced when a fetch-based
// transport (js/wasm builds) is blocked by the browser's cross-origin policy.
var corsSignatures = []string{
	"failed to fetch",
	"networkerror when attempting to fetch resource",
	"load failed",
	"cors",
	"cross-origin",
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: bad status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// ValidationError is returned when a response body does not match the expected shape.
type ValidationError struct {
	Path   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response shape from %s: %s", e.Path, e.Detail)
}

// NetworkError is returned for transport failures.
type NetworkError struct {
	Path     string
	IsCORS   bool
	Guidance string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.IsCORS {
		return fmt.Sprintf("request to %s blocked (likely CORS): %v; %s", e.Path, e.Err, e.Guidance)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when no response arrived within the request timeout.
type TimeoutError struct {
	Path    string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out after %dms", e.Path, e.ElapsedMs())
}

// ElapsedMs returns the elapsed time in milliseconds.
func (e *TimeoutError) ElapsedMs() int64 {
	return e.Elapsed.Milliseconds()
}

// KindOf returns the kind of a protocol error, or KindUnknown.
func KindOf(err error) ErrorKind {
	var httpErr *HTTPError
	var validationErr *ValidationError
	var networkErr *NetworkError
	var timeoutErr *TimeoutError
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &networkErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// IsCORS reports whether err is a network error flagged as a cross-origin rejection.
func IsCORS(err error) bool {
	var networkErr *NetworkError
	return errors.As(err, &networkErr) && networkErr.IsCORS
}

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == 404
}

func looksLikeCORS(err error) bool {
	// url.Error repeats the request URL, which must not take part in matching.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range corsSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

func newNetworkError(path string, err error) *NetworkError {
	ne := &NetworkError{Path: path, Err: err}
	if looksLikeCORS(err) {
		ne.IsCORS = true
		ne.Guidance = CORSGuidance
	}
	return ne
}
