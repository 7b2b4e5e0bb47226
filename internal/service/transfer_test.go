package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/mock/gomock"

	"vectoradmin/internal/analysis"
	"vectoradmin/internal/export"
	"vectoradmin/internal/filestore"
	"vectoradmin/internal/mirror"
	"vectoradmin/internal/storage"
	storage_mocks "vectoradmin/internal/storage/mocks"
	"vectoradmin/internal/vectorstore"
	vectorstore_mocks "vectoradmin/internal/vectorstore/mocks"
)

func embed2D(i int) []float64 {
	return []float64{float64(i), float64(i % 3)}
}

func TestConsole_ExportImport(t *testing.T) {
	ctrl := gomock.NewController(t)
	audit := storage_mocks.NewMockAuditStore(ctrl)
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *storage.AuditEntry) error {
		if e.Action != "import" || e.Collection != "copy" {
			t.Errorf("audit entry = %+v", e)
		}
		return nil
	})

	fake := newFakeChroma()
	fake.addCollection("docs", 3, embed2D)
	console := newTestConsole(t, fake, Deps{Audit: audit})
	ctx := context.Background()

	var progress []int
	doc, err := console.Export(ctx, "docs", func(n int) { progress = append(progress, n) })
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if doc.Name != "docs" || doc.Data.Len() != 3 || doc.ExportedAt.IsZero() {
		t.Errorf("Export() = %+v", doc)
	}
	if len(progress) != 1 || progress[0] != 3 {
		t.Errorf("progress = %v, want [3]", progress)
	}

	col, err := console.Import(ctx, doc, "copy")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if col.Name != "copy" {
		t.Errorf("Import() collection = %+v", col)
	}
	imported := fake.find("copy")
	if imported == nil || imported.records.Len() != 3 {
		t.Fatalf("imported collection = %+v", imported)
	}
	if e := imported.records.Embedding(2); len(e) != 2 || e[0] != 2 {
		t.Errorf("imported embedding = %v", e)
	}

	if _, err := console.Export(ctx, "", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Export(\"\") error = %v, want ErrInvalidInput", err)
	}
}

func TestConsole_SaveExport(t *testing.T) {
	ctx := context.Background()
	files, err := filestore.New(ctx, filestore.Config{Type: "local", Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("filestore.New() error = %v", err)
	}

	fake := newFakeChroma()
	fake.addCollection("docs", 4, embed2D)
	console := newTestConsole(t, fake, Deps{Files: files})

	doc, err := console.Export(ctx, "docs", nil)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	key, err := console.SaveExport(ctx, doc)
	if err != nil {
		t.Fatalf("SaveExport() error = %v", err)
	}
	if key != doc.FileName() {
		t.Errorf("key = %q, want %q", key, doc.FileName())
	}

	r, err := files.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() {
		_ = r.Close()
	}()
	saved, err := export.Decode(r)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if saved.Name != "docs" || saved.Data.Len() != 4 {
		t.Errorf("saved document = %+v", saved)
	}

	unconfigured := newTestConsole(t, fake, Deps{})
	if _, err := unconfigured.SaveExport(ctx, doc); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("SaveExport() without store error = %v, want ErrNotConfigured", err)
	}
}

func TestConsole_Mirror(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	audit := storage_mocks.NewMockAuditStore(ctrl)

	gomock.InOrder(
		store.EXPECT().EnsureCollection(gomock.Any(), vectorstore.CollectionSpec{
			Name: "docs-mirror", VectorSize: 2, Distance: vectorstore.DistanceCosine,
		}).Return(nil),
		store.EXPECT().Upsert(gomock.Any(), "docs-mirror", gomock.Len(5)).Return(nil),
		store.EXPECT().PointsCount(gomock.Any(), "docs-mirror").Return(5, nil),
	)
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *storage.AuditEntry) error {
		if e.Action != "mirror" || e.Detail != "5 points to docs-mirror" {
			t.Errorf("audit entry = %+v", e)
		}
		return nil
	})

	fake := newFakeChroma()
	fake.addCollection("docs", 6, func(i int) []float64 {
		if i == 2 {
			return nil
		}
		return embed2D(i)
	})
	console := newTestConsole(t, fake, Deps{Mirror: mirror.New(store), Audit: audit})

	report, err := console.Mirror(context.Background(), "docs", "docs-mirror")
	if err != nil {
		t.Fatalf("Mirror() error = %v", err)
	}
	if report.Mirrored != 5 || report.Skipped != 1 || report.PointsCount != 5 {
		t.Errorf("report = %+v", report)
	}

	if _, err := console.Mirror(context.Background(), "docs", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Mirror() without target error = %v, want ErrInvalidInput", err)
	}
}

func TestConsole_Visualize(t *testing.T) {
	fake := newFakeChroma()
	fake.addCollection("docs", 30, func(i int) []float64 {
		if i == 7 {
			return nil
		}
		if i%2 == 0 {
			return []float64{10 + float64(i)/100, 10, 0}
		}
		return []float64{-10, -10 - float64(i)/100, 0}
	})
	fake.addCollection("empty", 0, nil)
	console := newTestConsole(t, fake, Deps{
		NewEngine: func() *analysis.Engine { return analysis.NewSeededEngine(7) },
	})
	ctx := context.Background()

	vis, err := console.Visualize(ctx, "docs-id", VisualizeRequest{K: 2})
	if err != nil {
		t.Fatalf("Visualize() error = %v", err)
	}
	if len(vis.Points) != 29 || vis.Skipped != 1 {
		t.Fatalf("points = %d, skipped = %d; want 29, 1", len(vis.Points), vis.Skipped)
	}
	if len(vis.Centroids) != 2 {
		t.Errorf("centroids = %d, want 2", len(vis.Centroids))
	}
	byID := map[string]int{}
	for _, p := range vis.Points {
		if p.Cluster == nil {
			t.Fatalf("point %s has no cluster", p.ID)
		}
		byID[p.ID] = *p.Cluster
	}
	if byID["r0"] == byID["r1"] || byID["r0"] != byID["r2"] || byID["r1"] != byID["r3"] {
		t.Errorf("clusters do not separate the two groups: %v", byID)
	}

	empty, err := console.Visualize(ctx, "empty-id", VisualizeRequest{K: 3})
	if err != nil || len(empty.Points) != 0 || len(empty.Centroids) != 0 {
		t.Errorf("Visualize(empty) = %+v, %v; want no points", empty, err)
	}
	if _, err := console.Visualize(ctx, "docs-id", VisualizeRequest{K: 51}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Visualize(k=51) error = %v, want ErrInvalidInput", err)
	}
}

func TestConsole_Sample_Pages(t *testing.T) {
	fake := newFakeChroma()
	fake.addCollection("big", 1200, embed2D)
	console := newTestConsole(t, fake, Deps{})

	batch, err := console.sample(context.Background(), "big-id", 1100, nil, "embeddings")
	if err != nil {
		t.Fatalf("sample() error = %v", err)
	}
	if batch.Len() != 1100 || len(batch.Embeddings) != 1100 || batch.Documents != nil {
		t.Errorf("sample() len = %d, embeddings = %d, documents = %v", batch.Len(), len(batch.Embeddings), batch.Documents != nil)
	}
	wantLimits := []int{500, 500, 100}
	if len(fake.gets) != len(wantLimits) {
		t.Fatalf("issued %d get requests, want %d", len(fake.gets), len(wantLimits))
	}
	for i, req := range fake.gets {
		if req.Limit != wantLimits[i] || req.Offset != i*500 {
			t.Errorf("request %d limit/offset = %d/%d", i, req.Limit, req.Offset)
		}
	}
	if batch.IDs[1099] != "r1099" {
		t.Errorf("last id = %s, want r1099", batch.IDs[1099])
	}
}

func TestConsole_Similarity(t *testing.T) {
	fake := newFakeChroma()
	fake.addCollection("docs", 10, func(i int) []float64 {
		switch i {
		case 0, 3:
			return nil
		case 1:
			return []float64{1, 0}
		case 2:
			return []float64{0, 1}
		default:
			return []float64{1, 1}
		}
	})
	console := newTestConsole(t, fake, Deps{})

	got, err := console.Similarity(context.Background(), "docs-id", SimilarityRequest{SampleCap: 4})
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	wantIDs := []string{"r1", "r2", "r4", "r5"}
	if len(got.IDs) != len(wantIDs) {
		t.Fatalf("IDs = %v, want %v", got.IDs, wantIDs)
	}
	for i, id := range wantIDs {
		if got.IDs[i] != id {
			t.Errorf("IDs[%d] = %s, want %s", i, got.IDs[i], id)
		}
		if got.Values[i][i] != 1 {
			t.Errorf("diagonal[%d] = %v, want 1", i, got.Values[i][i])
		}
	}
	if got.Values[0][1] != 0 {
		t.Errorf("orthogonal similarity = %v, want 0", got.Values[0][1])
	}
	if v := got.Values[0][2]; math.Abs(v-math.Sqrt2/2) > 1e-9 {
		t.Errorf("45 degree similarity = %v, want %v", v, math.Sqrt2/2)
	}
	if len(fake.gets) != 1 || fake.gets[0].Limit != 8 {
		t.Errorf("get requests = %+v, want one over-fetch of 8", fake.gets)
	}
}

func TestConsole_Similarity_MixedDimensions(t *testing.T) {
	fake := newFakeChroma()
	fake.addCollection("docs", 3, func(i int) []float64 {
		if i == 1 {
			return []float64{1, 0, 0}
		}
		return []float64{1, 0}
	})
	console := newTestConsole(t, fake, Deps{})

	_, err := console.Similarity(context.Background(), "docs-id", SimilarityRequest{SampleCap: 3})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Similarity() error = %v, want a validation error", err)
	}
}
