// Package export moves whole collections in and out of a server using the
// JSON backup format {name, metadata, data, exportedAt}.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
)

// ErrInvalidDocument is returned when an export file does not have the expected shape.
var ErrInvalidDocument = errors.New("invalid export document")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Document is the export file format.
type Document struct {
	Name       string           `json:"name" validate:"required"`
	Metadata   map[string]any   `json:"metadata"`
	Data       chroma.ItemBatch `json:"data"`
	ExportedAt time.Time        `json:"exportedAt" validate:"required"`
}

// FileName returns the conventional file name for d.
func (d Document) FileName() string {
	return fmt.Sprintf("%s-%s.json", d.Name, d.ExportedAt.UTC().Format("20060102T150405Z"))
}

// Encode writes d as indented JSON.
func Encode(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// Decode reads an export document, rejecting unknown fields and
// misaligned record arrays.
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var d Document
	if err := dec.Decode(&d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := validate.Struct(d); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := d.Data.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return d, nil
}

// Source is the protocol surface Export reads from.
type Source interface {
	ItemGetter
	GetCollection(ctx context.Context, nameOrID string) (chroma.Collection, error)
	CountRecords(ctx context.Context, collectionID string) (int, error)
}

// Export fetches a whole collection into a Document.
func Export(ctx context.Context, src Source, nameOrID string, onProgress ProgressFunc) (Document, error) {
	col, err := src.GetCollection(ctx, nameOrID)
	if err != nil {
		return Document{}, fmt.Errorf("get collection %s: %w", nameOrID, err)
	}
	total, err := src.CountRecords(ctx, col.ID)
	if err != nil {
		return Document{}, fmt.Errorf("count collection %s: %w", col.Name, err)
	}
	data, err := FetchAllRecords(ctx, src, col.ID, total, onProgress)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Name:       col.Name,
		Metadata:   col.Metadata,
		Data:       data,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// Sink is the protocol surface Import writes to.
type Sink interface {
	CreateCollection(ctx context.Context, req chroma.CreateCollectionRequest) (chroma.Collection, error)
	AddItems(ctx context.Context, collectionID string, req chroma.AddRequest) error
}

// ImportOptions tune Import.
type ImportOptions struct {
	// Name overrides the collection name stored in the document.
	Name string
	// OnProgress receives the cumulative number of written records.
	OnProgress ProgressFunc
}

// ImportResult reports what Import wrote.
type ImportResult struct {
	Collection chroma.Collection
	Imported   int
	// Skipped counts records with neither an embedding nor a document.
	// The server has nothing to index them by.
	Skipped int
}

// Record fields an add request carries; a request never mixes present and
// null entries for a field, which the server rejects.
const (
	fieldEmbedding = 1 << iota
	fieldDocument
	fieldMetadata
)

// Import creates (or reuses) the collection named in d and adds its records
// in pages of PageSize. Each page is split by the fields its records carry.
// Records without an embedding are sent with their document so the server
// embeds them.
func Import(ctx context.Context, sink Sink, d Document, opts ImportOptions) (ImportResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	name := d.Name
	if opts.Name != "" {
		name = opts.Name
	}
	col, err := sink.CreateCollection(ctx, chroma.CreateCollectionRequest{
		Name:        name,
		Metadata:    d.Metadata,
		GetOrCreate: true,
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("create collection %s: %w", name, err)
	}

	res := ImportResult{Collection: col}
	total := d.Data.Len()
	for start := 0; start < total; start += PageSize {
		end := min(start+PageSize, total)
		reqs, skipped := splitPage(d.Data, start, end)
		res.Skipped += skipped
		for _, req := range reqs {
			if err := sink.AddItems(ctx, col.ID, req); err != nil {
				return res, fmt.Errorf("add records %d-%d: %w", start, end, err)
			}
			res.Imported += len(req.IDs)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(end)
		}
	}

	if res.Skipped > 0 {
		logger.WarnContext(ctx, "skipped records without embedding or document",
			"collection", col.Name, "skipped", res.Skipped)
	}
	logger.InfoContext(ctx, "imported collection", "collection", col.Name, "records", res.Imported)
	return res, nil
}

// splitPage groups records [start, end) into add requests keyed by the
// fields present, keeping record order within each request.
func splitPage(b chroma.ItemBatch, start, end int) ([]chroma.AddRequest, int) {
	groups := map[int]*chroma.AddRequest{}
	var order []int
	skipped := 0
	for i := start; i < end; i++ {
		var mask int
		emb := b.Embedding(i)
		if len(emb) > 0 {
			mask |= fieldEmbedding
		}
		doc, hasDoc := b.Document(i)
		if hasDoc {
			mask |= fieldDocument
		}
		meta := b.Metadata(i)
		if len(meta) > 0 {
			mask |= fieldMetadata
		}
		if mask&(fieldEmbedding|fieldDocument) == 0 {
			skipped++
			continue
		}

		req, ok := groups[mask]
		if !ok {
			req = &chroma.AddRequest{}
			groups[mask] = req
			order = append(order, mask)
		}
		req.IDs = append(req.IDs, b.IDs[i])
		if mask&fieldEmbedding != 0 {
			req.Embeddings = append(req.Embeddings, emb)
		}
		if mask&fieldDocument != 0 {
			req.Documents = append(req.Documents, &doc)
		}
		if mask&fieldMetadata != 0 {
			req.Metadatas = append(req.Metadatas, meta)
		}
	}

	reqs := make([]chroma.AddRequest, 0, len(order))
	for _, mask := range order {
		reqs = append(reqs, *groups[mask])
	}
	return reqs, skipped
}
