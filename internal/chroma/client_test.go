package chroma

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, conn ConnectionConfig) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	if conn.BaseURL == "" {
		conn.BaseURL = server.URL
	}
	if conn.Mode == "" {
		conn.Mode = ModeDirect
	}
	return NewClient(conn, NewSession()), server
}

func TestClient_BasePath(t *testing.T) {
	tests := []struct {
		name    string
		version APIVersion
		want    string
	}{
		{name: "unknown uses v2", version: VersionUnknown, want: "/api/v2/tenants/default_tenant/databases/default_database"},
		{name: "v2", version: VersionV2, want: "/api/v2/tenants/default_tenant/databases/default_database"},
		{name: "v1", version: VersionV1, want: "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewSession()
			session.SetVersion(tt.version)
			client := NewClient(ConnectionConfig{BaseURL: "http://chroma:8000"}, session)
			if got := client.BasePath(); got != tt.want {
				t.Errorf("BasePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_BasePath_FollowsSession(t *testing.T) {
	session := NewSession()
	client := NewClient(ConnectionConfig{BaseURL: "http://chroma:8000"}, session)

	session.SetVersion(VersionV1)
	if got := client.BasePath(); got != "/api/v1" {
		t.Errorf("BasePath() after v1 = %v", got)
	}
	session.SetVersion(VersionV2)
	if got := client.BasePath(); !strings.HasPrefix(got, "/api/v2/tenants/") {
		t.Errorf("BasePath() after v2 = %v", got)
	}
}

func TestClient_ResolveRequestURL(t *testing.T) {
	tests := []struct {
		name string
		conn ConnectionConfig
		path string
		want string
	}{
		{
			name: "direct",
			conn: ConnectionConfig{BaseURL: "http://chroma:8000", Mode: ModeDirect},
			path: "/api/v1/collections",
			want: "http://chroma:8000/api/v1/collections",
		},
		{
			name: "direct with trailing slash",
			conn: ConnectionConfig{BaseURL: "http://chroma:8000/", Mode: ModeDirect},
			path: "/api/v1/heartbeat",
			want: "http://chroma:8000/api/v1/heartbeat",
		},
		{
			name: "proxy ignores base url",
			conn: ConnectionConfig{BaseURL: "http://remote:8000", Mode: ModeProxy, ProxyOrigin: "http://localhost:9000"},
			path: "/api/v1/collections",
			want: "http://localhost:9000/proxy/api/v1/collections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.conn, nil)
			if got := client.ResolveRequestURL(tt.path); got != tt.want {
				t.Errorf("ResolveRequestURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIssue_AuthHeaders(t *testing.T) {
	tests := []struct {
		name   string
		conn   ConnectionConfig
		header string
		want   string
	}{
		{
			name:   "none",
			conn:   ConnectionConfig{AuthType: AuthNone, Credentials: Credentials{Token: "ignored"}},
			header: "Authorization",
			want:   "",
		},
		{
			name:   "bearer",
			conn:   ConnectionConfig{AuthType: AuthBearer, Credentials: Credentials{Token: "secret"}},
			header: "Authorization",
			want:   "Bearer secret",
		},
		{
			name:   "basic",
			conn:   ConnectionConfig{AuthType: AuthBasic, Credentials: Credentials{Username: "admin", Password: "pw"}},
			header: "Authorization",
			want:   "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:pw")),
		},
		{
			name:   "custom header default name",
			conn:   ConnectionConfig{AuthType: AuthCustomHeader, Credentials: Credentials{Token: "tok"}},
			header: "X-Chroma-Token",
			want:   "tok",
		},
		{
			name:   "custom header explicit name",
			conn:   ConnectionConfig{AuthType: AuthCustomHeader, Credentials: Credentials{Token: "tok", HeaderName: "X-Api-Key"}},
			header: "X-Api-Key",
			want:   "tok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get(tt.header)
				_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
			}, tt.conn)

			if _, err := client.Heartbeat(context.Background()); err != nil {
				t.Fatalf("Heartbeat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestIssue_HTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Collection missing does not exist."}`))
	}, ConnectionConfig{})

	_, err := client.GetCollection(context.Background(), "missing")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("GetCollection() error = %v, want *HTTPError", err)
	}
	if httpErr.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", httpErr.Status)
	}
	if !strings.Contains(err.Error(), "Collection missing does not exist.") {
		t.Errorf("error message %q does not include body", err.Error())
	}
	if KindOf(err) != KindHTTP {
		t.Errorf("KindOf() = %v, want http", KindOf(err))
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestIssue_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(*Client) error
	}{
		{
			name: "not json",
			body: `<html>oops</html>`,
			call: func(c *Client) error { _, err := c.ListCollections(context.Background()); return err },
		},
		{
			name: "collection without id",
			body: `[{"name":"docs"}]`,
			call: func(c *Client) error { _, err := c.ListCollections(context.Background()); return err },
		},
		{
			name: "count is not an integer",
			body: `"many"`,
			call: func(c *Client) error { _, err := c.CountRecords(context.Background(), "c1"); return err },
		},
		{
			name: "misaligned documents",
			body: `{"ids":["a","b"],"documents":["only one"]}`,
			call: func(c *Client) error {
				_, err := c.GetItems(context.Background(), "c1", GetRequest{Limit: 2})
				return err
			},
		},
		{
			name: "missing ids",
			body: `{"documents":[]}`,
			call: func(c *Client) error {
				_, err := c.GetItems(context.Background(), "c1", GetRequest{Limit: 2})
				return err
			},
		},
		{
			name: "query distances misaligned",
			body: `{"ids":[["a","b"]],"distances":[[0.1]]}`,
			call: func(c *Client) error {
				_, err := c.Query(context.Background(), "c1", QueryRequest{QueryEmbeddings: [][]float64{{1}}, NResults: 2})
				return err
			},
		},
		{
			name: "empty body",
			body: ``,
			call: func(c *Client) error { _, err := c.ServerVersion(context.Background()); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}, ConnectionConfig{})

			err := tt.call(client)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("KindOf() = %v, want validation", KindOf(err))
			}
		})
	}
}

func TestIssue_CORSClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCORS bool
	}{
		{name: "failed to fetch", err: errors.New("TypeError: Failed to fetch"), wantCORS: true},
		{name: "firefox signature", err: errors.New("NetworkError when attempting to fetch resource."), wantCORS: true},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), wantCORS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
				return nil, tt.err
			})}
			client := NewClient(ConnectionConfig{BaseURL: "http://chroma:8000"}, nil, WithHTTPClient(hc))

			_, err := client.ListCollections(context.Background())
			var networkErr *NetworkError
			if !errors.As(err, &networkErr) {
				t.Fatalf("error = %v, want *NetworkError", err)
			}
			if networkErr.IsCORS != tt.wantCORS {
				t.Errorf("IsCORS = %v, want %v", networkErr.IsCORS, tt.wantCORS)
			}
			if tt.wantCORS && networkErr.Guidance == "" {
				t.Error("Guidance is empty for a CORS failure")
			}
		})
	}
}

func TestIssue_Timeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, ConnectionConfig{})
	defer close(release)

	_, err := Issue[json.RawMessage](context.Background(), client, "/api/v1/heartbeat", RequestOptions{Timeout: 50 * time.Millisecond})
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
	if timeoutErr.ElapsedMs() < 50 {
		t.Errorf("ElapsedMs() = %d, want >= 50", timeoutErr.ElapsedMs())
	}
	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf() = %v, want timeout", KindOf(err))
	}
}

func TestClient_DetectAPIVersion(t *testing.T) {
	tests := []struct {
		name        string
		v2Status    int
		wantVersion APIVersion
		wantPrefix  string
	}{
		{name: "v2 heartbeat answers", v2Status: http.StatusOK, wantVersion: VersionV2, wantPrefix: "/api/v2/tenants/default_tenant/databases/default_database"},
		{name: "v2 heartbeat missing", v2Status: http.StatusNotFound, wantVersion: VersionV1, wantPrefix: "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/v2/heartbeat":
					w.WriteHeader(tt.v2Status)
					_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
				case "/api/v1/heartbeat":
					_, _ = w.Write([]byte(`{"nanosecond heartbeat": 1}`))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}, ConnectionConfig{})

			for i := 0; i < 2; i++ {
				if got := client.DetectAPIVersion(context.Background()); got != tt.wantVersion {
					t.Errorf("DetectAPIVersion() call %d = %v, want %v", i, got, tt.wantVersion)
				}
			}
			if got := client.Session().Version(); got != tt.wantVersion {
				t.Errorf("Session().Version() = %v, want %v", got, tt.wantVersion)
			}
			if got := client.BasePath(); got != tt.wantPrefix {
				t.Errorf("BasePath() = %v, want %v", got, tt.wantPrefix)
			}
		})
	}
}

func TestClient_Operations_Paths(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   map[string]any
	}
	var requests []seen

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&s.body)
		}
		requests = append(requests, s)

		switch {
		case strings.HasSuffix(r.URL.Path, "/count"):
			_, _ = w.Write([]byte(`3`))
		case strings.HasSuffix(r.URL.Path, "/get"):
			_, _ = w.Write([]byte(`{"ids":["a"],"documents":[null],"embeddings":[[1,2]]}`))
		case strings.HasSuffix(r.URL.Path, "/query"):
			_, _ = w.Write([]byte(`{"ids":[["a"]],"distances":[[0.25]]}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		case strings.HasSuffix(r.URL.Path, "/add"), strings.HasSuffix(r.URL.Path, "/delete"):
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		default:
			_, _ = w.Write([]byte(`{"id":"c1","name":"docs"}`))
		}
	}, ConnectionConfig{})
	client.Session().SetVersion(VersionV1)
	ctx := context.Background()

	count, err := client.CountRecords(ctx, "c1")
	if err != nil || count != 3 {
		t.Fatalf("CountRecords() = %d, %v", count, err)
	}
	batch, err := client.GetItems(ctx, "c1", GetRequest{Limit: 10, Offset: 5, Include: []string{IncludeDocuments}})
	if err != nil {
		t.Fatalf("GetItems() error = %v", err)
	}
	if _, ok := batch.Document(0); ok {
		t.Error("Document(0) present, want absent")
	}
	result, err := client.Query(ctx, "c1", QueryRequest{QueryEmbeddings: [][]float64{{1, 2}}, NResults: 1})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if d := result.Distances[0][0]; d == nil || *d != 0.25 {
		t.Errorf("Distances[0][0] = %v, want 0.25", d)
	}
	if err := client.DeleteCollection(ctx, "docs"); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}
	if err := client.AddItems(ctx, "c1", AddRequest{IDs: []string{"x"}}); err != nil {
		t.Fatalf("AddItems() error = %v", err)
	}
	if err := client.DeleteItems(ctx, "c1", DeleteRequest{IDs: []string{"x"}}); err != nil {
		t.Fatalf("DeleteItems() error = %v", err)
	}

	want := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/collections/c1/count"},
		{http.MethodPost, "/api/v1/collections/c1/get"},
		{http.MethodPost, "/api/v1/collections/c1/query"},
		{http.MethodDelete, "/api/v1/collections/docs"},
		{http.MethodPost, "/api/v1/collections/c1/add"},
		{http.MethodPost, "/api/v1/collections/c1/delete"},
	}
	if len(requests) != len(want) {
		t.Fatalf("got %d requests, want %d", len(requests), len(want))
	}
	for i, w := range want {
		if requests[i].method != w.method || requests[i].path != w.path {
			t.Errorf("request %d = %s %s, want %s %s", i, requests[i].method, requests[i].path, w.method, w.path)
		}
	}
	if got := requests[1].body["offset"]; got != float64(5) {
		t.Errorf("get offset = %v, want 5", got)
	}
}
