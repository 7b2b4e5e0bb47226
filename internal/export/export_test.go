package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"vectoradmin/internal/chroma"
)

// pagedServer serves GetItems from an in-memory collection.
type pagedServer struct {
	total     int
	requests  []chroma.GetRequest
	failAfter int
	noEmbedAt int
}

func (s *pagedServer) GetItems(ctx context.Context, collectionID string, req chroma.GetRequest) (chroma.ItemBatch, error) {
	s.requests = append(s.requests, req)
	if s.failAfter > 0 && len(s.requests) > s.failAfter {
		return chroma.ItemBatch{}, &chroma.HTTPError{Status: 500, Body: "boom"}
	}

	end := min(req.Offset+req.Limit, s.total)
	var b chroma.ItemBatch
	b.IDs = []string{}
	withEmbeddings := s.noEmbedAt == 0 || req.Offset != s.noEmbedAt
	if withEmbeddings {
		b.Embeddings = [][]float64{}
	}
	b.Metadatas = []map[string]any{}
	for i := req.Offset; i < end; i++ {
		b.IDs = append(b.IDs, fmt.Sprintf("id-%d", i))
		b.Metadatas = append(b.Metadatas, nil)
		if withEmbeddings {
			b.Embeddings = append(b.Embeddings, []float64{float64(i), 1})
		}
	}
	return b, nil
}

func (s *pagedServer) GetCollection(ctx context.Context, nameOrID string) (chroma.Collection, error) {
	return chroma.Collection{ID: "c1", Name: nameOrID, Metadata: map[string]any{"hnsw:space": "cosine"}}, nil
}

func (s *pagedServer) CountRecords(ctx context.Context, collectionID string) (int, error) {
	return s.total, nil
}

func TestFetchAllRecords_Pages(t *testing.T) {
	server := &pagedServer{total: 1200}
	var progress []int

	batch, err := FetchAllRecords(context.Background(), server, "c1", 1200, func(n int) {
		progress = append(progress, n)
	})
	if err != nil {
		t.Fatalf("FetchAllRecords() error = %v", err)
	}

	if len(server.requests) != 3 {
		t.Errorf("issued %d page requests, want 3", len(server.requests))
	}
	for i, req := range server.requests {
		if req.Limit != PageSize || req.Offset != i*PageSize {
			t.Errorf("request %d limit/offset = %d/%d", i, req.Limit, req.Offset)
		}
		if len(req.Include) != 3 {
			t.Errorf("request %d include = %v", i, req.Include)
		}
	}
	if batch.Len() != 1200 {
		t.Fatalf("Len() = %d, want 1200", batch.Len())
	}
	if err := batch.Validate(); err != nil {
		t.Errorf("result misaligned: %v", err)
	}
	if batch.IDs[1199] != "id-1199" || batch.Embeddings[1199][0] != 1199 {
		t.Errorf("last record = %s %v", batch.IDs[1199], batch.Embeddings[1199])
	}
	if batch.Metadatas != nil {
		t.Error("Metadatas emitted although every page returned only empty values")
	}
	if batch.Documents != nil {
		t.Error("Documents emitted although no page returned the field")
	}
	want := []int{500, 1000, 1200}
	if fmt.Sprint(progress) != fmt.Sprint(want) {
		t.Errorf("progress = %v, want %v", progress, want)
	}
}

func TestFetchAllRecords_SparseField(t *testing.T) {
	server := &pagedServer{total: 1100, noEmbedAt: 500}

	batch, err := FetchAllRecords(context.Background(), server, "c1", 1100, nil)
	if err != nil {
		t.Fatalf("FetchAllRecords() error = %v", err)
	}
	if len(batch.Embeddings) != 1100 {
		t.Fatalf("len(Embeddings) = %d, want 1100", len(batch.Embeddings))
	}
	if batch.Embeddings[600] != nil {
		t.Errorf("Embeddings[600] = %v, want absent", batch.Embeddings[600])
	}
	if batch.Embeddings[1050][0] != 1050 {
		t.Errorf("Embeddings[1050] = %v, want aligned with id-1050", batch.Embeddings[1050])
	}
}

func TestFetchAllRecords_ShrinkingCollection(t *testing.T) {
	server := &pagedServer{total: 700}

	batch, err := FetchAllRecords(context.Background(), server, "c1", 1200, nil)
	if err != nil {
		t.Fatalf("FetchAllRecords() error = %v", err)
	}
	if batch.Len() != 700 {
		t.Errorf("Len() = %d, want 700", batch.Len())
	}
	if len(server.requests) != 3 {
		t.Errorf("issued %d requests, want 3 (two pages and one empty)", len(server.requests))
	}
}

func TestFetchAllRecords_PageErrorDiscardsPartial(t *testing.T) {
	server := &pagedServer{total: 1200, failAfter: 1}

	batch, err := FetchAllRecords(context.Background(), server, "c1", 1200, nil)
	if err == nil {
		t.Fatal("FetchAllRecords() error = nil, want page error")
	}
	if chroma.KindOf(err) != chroma.KindHTTP {
		t.Errorf("KindOf() = %v, want http", chroma.KindOf(err))
	}
	if batch.Len() != 0 {
		t.Errorf("partial result returned with %d records", batch.Len())
	}
}

func TestFetchAllRecords_EmptyCollection(t *testing.T) {
	server := &pagedServer{}
	batch, err := FetchAllRecords(context.Background(), server, "c1", 0, nil)
	if err != nil {
		t.Fatalf("FetchAllRecords() error = %v", err)
	}
	if batch.IDs == nil || batch.Len() != 0 {
		t.Errorf("IDs = %v, want empty non-nil", batch.IDs)
	}
	if len(server.requests) != 0 {
		t.Errorf("issued %d requests for an empty collection", len(server.requests))
	}
}

func TestExport_RoundTrip(t *testing.T) {
	server := &pagedServer{total: 3}
	doc, err := Export(context.Background(), server, "docs", nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if doc.Name != "docs" || doc.Metadata["hnsw:space"] != "cosine" {
		t.Errorf("Export() header = %s %v", doc.Name, doc.Metadata)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	for _, key := range []string{`"name"`, `"metadata"`, `"data"`, `"exportedAt"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("encoded document missing %s", key)
		}
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Name != doc.Name || got.Data.Len() != 3 || !got.ExportedAt.Equal(doc.ExportedAt) {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `nope`},
		{name: "missing name", body: `{"metadata":null,"data":{"ids":[]},"exportedAt":"2024-01-01T00:00:00Z"}`},
		{name: "unknown field", body: `{"name":"a","data":{"ids":[]},"exportedAt":"2024-01-01T00:00:00Z","extra":1}`},
		{name: "misaligned", body: `{"name":"a","data":{"ids":["x"],"documents":[]},"exportedAt":"2024-01-01T00:00:00Z"}`},
		{name: "missing timestamp", body: `{"name":"a","data":{"ids":[]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.body)); !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Decode() error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

type recordingSink struct {
	created chroma.CreateCollectionRequest
	adds    []chroma.AddRequest
}

func (s *recordingSink) CreateCollection(ctx context.Context, req chroma.CreateCollectionRequest) (chroma.Collection, error) {
	s.created = req
	return chroma.Collection{ID: "new-id", Name: req.Name}, nil
}

func (s *recordingSink) AddItems(ctx context.Context, collectionID string, req chroma.AddRequest) error {
	if collectionID != "new-id" {
		return fmt.Errorf("unexpected collection %s", collectionID)
	}
	s.adds = append(s.adds, req)
	return nil
}

func TestImport(t *testing.T) {
	server := &pagedServer{total: 1001}
	batch, err := FetchAllRecords(context.Background(), server, "c1", 1001, nil)
	if err != nil {
		t.Fatalf("FetchAllRecords() error = %v", err)
	}
	doc := Document{Name: "docs", Data: batch, ExportedAt: time.Now()}

	sink := &recordingSink{}
	res, err := Import(context.Background(), sink, doc, ImportOptions{Name: "docs-copy"})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Collection.Name != "docs-copy" || !sink.created.GetOrCreate {
		t.Errorf("created = %+v", sink.created)
	}
	if len(sink.adds) != 3 {
		t.Fatalf("issued %d adds, want 3", len(sink.adds))
	}
	if len(sink.adds[2].IDs) != 1 || sink.adds[2].IDs[0] != "id-1000" {
		t.Errorf("last add ids = %v", sink.adds[2].IDs)
	}
	if len(sink.adds[0].Embeddings) != PageSize {
		t.Errorf("first add embeddings = %d, want %d", len(sink.adds[0].Embeddings), PageSize)
	}
	if sink.adds[0].Metadatas != nil {
		t.Errorf("first add metadatas = %v, want omitted", sink.adds[0].Metadatas)
	}
	if res.Imported != 1001 || res.Skipped != 0 {
		t.Errorf("Import() result = %d imported, %d skipped", res.Imported, res.Skipped)
	}
}

func TestImport_SplitsPartialRecords(t *testing.T) {
	text := func(s string) *string { return &s }
	doc := Document{Name: "docs", Data: chroma.ItemBatch{
		IDs:        []string{"full", "text-only", "bare", "vec-only"},
		Documents:  []*string{text("a"), text("b"), nil, nil},
		Metadatas:  []map[string]any{{"k": "v"}, nil, nil, {}},
		Embeddings: [][]float64{{1, 0}, nil, nil, {0, 1}},
	}}

	sink := &recordingSink{}
	res, err := Import(context.Background(), sink, doc, ImportOptions{})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Imported != 3 || res.Skipped != 1 {
		t.Errorf("Import() result = %d imported, %d skipped, want 3 and 1", res.Imported, res.Skipped)
	}

	tests := []struct {
		name    string
		id      string
		wantEmb bool
		wantDoc bool
		wantMD  bool
	}{
		{name: "complete record", id: "full", wantEmb: true, wantDoc: true, wantMD: true},
		{name: "document only is embedded server side", id: "text-only", wantDoc: true},
		{name: "embedding only with empty metadata", id: "vec-only", wantEmb: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *chroma.AddRequest
			for i := range sink.adds {
				if len(sink.adds[i].IDs) == 1 && sink.adds[i].IDs[0] == tt.id {
					req = &sink.adds[i]
				}
			}
			if req == nil {
				t.Fatalf("no add request for %s in %+v", tt.id, sink.adds)
			}
			if got := req.Embeddings != nil; got != tt.wantEmb {
				t.Errorf("embeddings sent = %v, want %v", got, tt.wantEmb)
			}
			if got := req.Documents != nil; got != tt.wantDoc {
				t.Errorf("documents sent = %v, want %v", got, tt.wantDoc)
			}
			if got := req.Metadatas != nil; got != tt.wantMD {
				t.Errorf("metadatas sent = %v, want %v", got, tt.wantMD)
			}
			for _, d := range req.Documents {
				if d == nil {
					t.Error("add request carries a null document")
				}
			}
		})
	}

	for _, add := range sink.adds {
		for _, id := range add.IDs {
			if id == "bare" {
				t.Error("record without embedding or document was sent")
			}
		}
	}
}
