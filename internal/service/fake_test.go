package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"vectoradmin/internal/chroma"
)

// fakeChroma is an in-memory v1 server.
type fakeChroma struct {
	mu          sync.Mutex
	collections []*fakeCollection
	gets        []chroma.GetRequest
	queries     []chroma.QueryRequest
	deletes     []chroma.DeleteRequest
	dropped     []string
}

type fakeCollection struct {
	col     chroma.Collection
	records chroma.ItemBatch
}

func newFakeChroma() *fakeChroma {
	return &fakeChroma{}
}

// addCollection creates a collection with n records. Record i has the
// document "doc i" and, unless embed returns nil, an embedding.
func (f *fakeChroma) addCollection(name string, n int, embed func(i int) []float64) *fakeCollection {
	c := &fakeCollection{col: chroma.Collection{ID: name + "-id", Name: name}}
	c.records = chroma.ItemBatch{IDs: []string{}, Documents: []*string{}, Metadatas: []map[string]any{}, Embeddings: [][]float64{}}
	for i := range n {
		doc := fmt.Sprintf("doc %d", i)
		c.records.IDs = append(c.records.IDs, fmt.Sprintf("r%d", i))
		c.records.Documents = append(c.records.Documents, &doc)
		c.records.Metadatas = append(c.records.Metadatas, map[string]any{"i": float64(i)})
		var e []float64
		if embed != nil {
			e = embed(i)
		}
		c.records.Embeddings = append(c.records.Embeddings, e)
	}
	f.collections = append(f.collections, c)
	return c
}

func (f *fakeChroma) find(nameOrID string) *fakeCollection {
	for _, c := range f.collections {
		if c.col.Name == nameOrID || c.col.ID == nameOrID {
			return c
		}
	}
	return nil
}

func (f *fakeChroma) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/heartbeat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int64{"nanosecond heartbeat": 1})
	})
	mux.HandleFunc("GET /api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []chroma.Collection{}
		for _, c := range f.collections {
			out = append(out, c.col)
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("POST /api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var req chroma.CreateCollectionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		c := f.find(req.Name)
		if c == nil {
			c = f.addCollection(req.Name, 0, nil)
			c.col.Metadata = req.Metadata
		}
		writeJSON(w, c.col)
	})
	mux.HandleFunc("GET /api/v1/collections/{name}", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		writeJSON(w, c.col)
	}))
	mux.HandleFunc("DELETE /api/v1/collections/{name}", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		f.dropped = append(f.dropped, c.col.Name)
		f.collections = slices.DeleteFunc(f.collections, func(x *fakeCollection) bool { return x == c })
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("GET /api/v1/collections/{name}/count", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		writeJSON(w, c.records.Len())
	}))
	mux.HandleFunc("POST /api/v1/collections/{name}/get", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		var req chroma.GetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.gets = append(f.gets, req)
		writeJSON(w, f.page(c, req))
	}))
	mux.HandleFunc("POST /api/v1/collections/{name}/query", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		var req chroma.QueryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.queries = append(f.queries, req)
		n := min(req.NResults, c.records.Len())
		ids := c.records.IDs[:n]
		distances := make([]*float64, n)
		for i := range distances {
			d := float64(i) / 10
			distances[i] = &d
		}
		writeJSON(w, chroma.QueryResult{
			IDs:       [][]string{ids},
			Documents: [][]*string{c.records.Documents[:n]},
			Metadatas: [][]map[string]any{c.records.Metadatas[:n]},
			Distances: [][]*float64{distances},
		})
	}))
	mux.HandleFunc("POST /api/v1/collections/{name}/add", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		var req chroma.AddRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for i, id := range req.IDs {
			c.records.IDs = append(c.records.IDs, id)
			var doc *string
			if req.Documents != nil {
				doc = req.Documents[i]
			}
			c.records.Documents = append(c.records.Documents, doc)
			var meta map[string]any
			if req.Metadatas != nil {
				meta = req.Metadatas[i]
			}
			c.records.Metadatas = append(c.records.Metadatas, meta)
			var emb []float64
			if req.Embeddings != nil {
				emb = req.Embeddings[i]
			}
			c.records.Embeddings = append(c.records.Embeddings, emb)
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, true)
	}))
	mux.HandleFunc("POST /api/v1/collections/{name}/delete", f.withCollection(func(w http.ResponseWriter, r *http.Request, c *fakeCollection) {
		var req chroma.DeleteRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.deletes = append(f.deletes, req)
		writeJSON(w, req.IDs)
	}))
	return mux
}

func (f *fakeChroma) withCollection(fn func(http.ResponseWriter, *http.Request, *fakeCollection)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c := f.find(r.PathValue("name"))
		if c == nil {
			http.Error(w, `{"error":"collection not found"}`, http.StatusNotFound)
			return
		}
		fn(w, r, c)
	}
}

// page applies ids, offset and limit. Where filters are ignored.
func (f *fakeChroma) page(c *fakeCollection, req chroma.GetRequest) chroma.ItemBatch {
	var rows []int
	for i, id := range c.records.IDs {
		if len(req.IDs) == 0 || slices.Contains(req.IDs, id) {
			rows = append(rows, i)
		}
	}
	start := min(req.Offset, len(rows))
	end := len(rows)
	if req.Limit > 0 {
		end = min(start+req.Limit, len(rows))
	}
	rows = rows[start:end]

	out := chroma.ItemBatch{IDs: []string{}}
	for _, inc := range req.Include {
		switch inc {
		case chroma.IncludeDocuments:
			out.Documents = []*string{}
		case chroma.IncludeMetadatas:
			out.Metadatas = []map[string]any{}
		case chroma.IncludeEmbeddings:
			out.Embeddings = [][]float64{}
		}
	}
	for _, i := range rows {
		out.IDs = append(out.IDs, c.records.IDs[i])
		if out.Documents != nil {
			out.Documents = append(out.Documents, c.records.Documents[i])
		}
		if out.Metadatas != nil {
			out.Metadatas = append(out.Metadatas, c.records.Metadatas[i])
		}
		if out.Embeddings != nil {
			out.Embeddings = append(out.Embeddings, c.records.Embeddings[i])
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newTestConsole serves fake over httptest and returns a Console pinned
// to v1 paths. deps.Client is overwritten.
func newTestConsole(t *testing.T, fake *fakeChroma, deps Deps) *Console {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	session := chroma.NewSession()
	session.SetVersion(chroma.VersionV1)
	deps.Client = chroma.NewClient(chroma.ConnectionConfig{
		BaseURL:  server.URL,
		Mode:     chroma.ModeDirect,
		AuthType: chroma.AuthNone,
	}, session)
	return NewConsole(deps)
}
