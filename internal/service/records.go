package service

import (
	"context"
	"fmt"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
)

// DefaultRecordsLimit is the page size of the record browser.
const DefaultRecordsLimit = 50

// RecordsRequest selects one page of records.
type RecordsRequest struct {
	IDs               []string       `json:"ids,omitempty"`
	Where             map[string]any `json:"where,omitempty"`
	WhereDocument     map[string]any `json:"where_document,omitempty"`
	Limit             int            `json:"limit" validate:"min=0,max=500"`
	Offset            int            `json:"offset" validate:"min=0"`
	IncludeEmbeddings bool           `json:"include_embeddings,omitempty"`
}

// RecordsPage is one page of the record browser. Total is only set for
// unfiltered pages, where the collection count is the total.
type RecordsPage struct {
	Records chroma.ItemBatch `json:"records"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Total   *int             `json:"total,omitempty"`
}

// DeleteRecordsRequest names the records to delete, by id or filter.
type DeleteRecordsRequest struct {
	IDs   []string       `json:"ids,omitempty"`
	Where map[string]any `json:"where,omitempty"`
}

// QueryRequest is a similarity search by embedding or by text.
type QueryRequest struct {
	Embedding []float64      `json:"embedding,omitempty"`
	Text      string         `json:"text,omitempty"`
	NResults  int            `json:"n_results" validate:"min=0,max=100"`
	Where     map[string]any `json:"where,omitempty"`
}

// QueryMatch is one ranked result.
type QueryMatch struct {
	ID       string         `json:"id"`
	Distance *float64       `json:"distance,omitempty"`
	Document *string        `json:"document,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RecordPreview is a record document rendered for display.
type RecordPreview struct {
	ID       string  `json:"id"`
	Document *string `json:"document,omitempty"`
	HTML     string  `json:"html"`
}

// GetRecords returns one page of records.
func (c *Console) GetRecords(ctx context.Context, collectionID string, req RecordsRequest) (RecordsPage, error) {
	if err := validateRequest(req); err != nil {
		return RecordsPage{}, err
	}
	if req.Limit == 0 {
		req.Limit = DefaultRecordsLimit
	}

	include := []string{chroma.IncludeDocuments, chroma.IncludeMetadatas}
	if req.IncludeEmbeddings {
		include = append(include, chroma.IncludeEmbeddings)
	}
	batch, err := c.client.GetItems(ctx, collectionID, chroma.GetRequest{
		IDs:           req.IDs,
		Where:         req.Where,
		WhereDocument: req.WhereDocument,
		Limit:         req.Limit,
		Offset:        req.Offset,
		Include:       include,
	})
	if err != nil {
		return RecordsPage{}, WrapError(err, "get records")
	}

	page := RecordsPage{Records: batch, Limit: req.Limit, Offset: req.Offset}
	if len(req.IDs) == 0 && len(req.Where) == 0 && len(req.WhereDocument) == 0 {
		if n, err := c.client.CountRecords(ctx, collectionID); err == nil {
			page.Total = &n
		}
	}
	return page, nil
}

// DeleteRecords removes records and audits the deletion.
func (c *Console) DeleteRecords(ctx context.Context, collectionID string, req DeleteRecordsRequest) error {
	if len(req.IDs) == 0 && len(req.Where) == 0 {
		return &ValidationError{Field: "ids", Message: "ids or where is required"}
	}
	if err := c.client.DeleteItems(ctx, collectionID, chroma.DeleteRequest{IDs: req.IDs, Where: req.Where}); err != nil {
		return WrapError(err, "delete records")
	}

	detail := fmt.Sprintf("%d ids", len(req.IDs))
	if len(req.IDs) == 0 {
		detail = fmt.Sprintf("where %v", req.Where)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "records deleted", "collection", collectionID, "detail", detail)
	c.record(ctx, "delete_records", collectionID, detail)
	return nil
}

// Query runs a similarity search. Text queries are embedded locally when
// an embedder is configured and sent as query_texts otherwise.
func (c *Console) Query(ctx context.Context, collectionID string, req QueryRequest) ([]QueryMatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if (len(req.Embedding) == 0) == (req.Text == "") {
		return nil, &ValidationError{Field: "embedding", Message: "exactly one of embedding or text is required"}
	}
	if req.NResults == 0 {
		req.NResults = 10
	}

	q := chroma.QueryRequest{
		NResults: req.NResults,
		Where:    req.Where,
		Include:  []string{chroma.IncludeDocuments, chroma.IncludeMetadatas, chroma.IncludeDistances},
	}
	switch {
	case len(req.Embedding) > 0:
		q.QueryEmbeddings = [][]float64{req.Embedding}
	case c.embedder != nil:
		vectors, err := c.embedder.EmbedTexts(ctx, []string{req.Text})
		if err != nil {
			return nil, WrapError(err, "embed query text")
		}
		q.QueryEmbeddings = vectors
	default:
		q.QueryTexts = []string{req.Text}
	}

	res, err := c.client.Query(ctx, collectionID, q)
	if err != nil {
		return nil, WrapError(err, "query")
	}
	if len(res.IDs) == 0 {
		return []QueryMatch{}, nil
	}

	batch := res.Batch(0)
	matches := make([]QueryMatch, batch.Len())
	for i, id := range batch.IDs {
		m := QueryMatch{ID: id, Metadata: batch.Metadata(i)}
		if doc, ok := batch.Document(i); ok {
			m.Document = &doc
		}
		if len(res.Distances) > 0 && i < len(res.Distances[0]) {
			m.Distance = res.Distances[0][i]
		}
		matches[i] = m
	}
	return matches, nil
}

// Preview renders a record's document as HTML.
func (c *Console) Preview(ctx context.Context, collectionID, recordID string) (RecordPreview, error) {
	batch, err := c.client.GetItems(ctx, collectionID, chroma.GetRequest{
		IDs:     []string{recordID},
		Include: []string{chroma.IncludeDocuments},
	})
	if err != nil {
		return RecordPreview{}, WrapError(err, "get record")
	}
	if batch.Len() == 0 {
		return RecordPreview{}, WrapError(ErrNotFound, fmt.Sprintf("record %s", recordID))
	}

	out := RecordPreview{ID: recordID}
	doc, ok := batch.Document(0)
	if !ok {
		return out, nil
	}
	out.Document = &doc
	out.HTML, err = c.preview.Render(ctx, collectionID, recordID, doc)
	if err != nil {
		return RecordPreview{}, err
	}
	return out, nil
}
