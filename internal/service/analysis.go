package service

import (
	"context"
	"errors"

	"vectoradmin/internal/analysis"
	"vectoradmin/internal/chroma"
	"vectoradmin/internal/export"
)

// DefaultVisualizeLimit is the number of records projected when no limit is given.
const DefaultVisualizeLimit = 500

// VisualizeRequest selects the records to project and the cluster count.
// K = 0 skips clustering.
type VisualizeRequest struct {
	Limit int            `json:"limit" validate:"min=0,max=5000"`
	K     int            `json:"k" validate:"min=0,max=50"`
	Where map[string]any `json:"where,omitempty"`
}

// SimilarityRequest selects the sample for the similarity matrix.
type SimilarityRequest struct {
	SampleCap int            `json:"sample_cap" validate:"min=0,max=200"`
	Where     map[string]any `json:"where,omitempty"`
}

// SimilarityResult is the cosine matrix labelled by record id.
type SimilarityResult struct {
	IDs    []string    `json:"ids"`
	Values [][]float64 `json:"values"`
}

// Visualize projects up to req.Limit embedded records to 2D.
func (c *Console) Visualize(ctx context.Context, collectionID string, req VisualizeRequest) (analysis.Visualization, error) {
	if err := validateRequest(req); err != nil {
		return analysis.Visualization{}, err
	}
	if req.Limit == 0 {
		req.Limit = DefaultVisualizeLimit
	}

	batch, err := c.sample(ctx, collectionID, req.Limit, req.Where,
		chroma.IncludeDocuments, chroma.IncludeMetadatas, chroma.IncludeEmbeddings)
	if err != nil {
		return analysis.Visualization{}, err
	}

	vis, err := c.newEngine().Visualize(batch, req.K)
	if err != nil {
		return analysis.Visualization{}, analysisError(err)
	}
	return vis, nil
}

// Similarity returns pairwise cosine similarities of the first sampled
// records that carry an embedding.
func (c *Console) Similarity(ctx context.Context, collectionID string, req SimilarityRequest) (SimilarityResult, error) {
	if err := validateRequest(req); err != nil {
		return SimilarityResult{}, err
	}
	if req.SampleCap == 0 {
		req.SampleCap = analysis.DefaultSampleCap
	}

	// Over-fetch so records without embeddings do not shrink the sample.
	batch, err := c.sample(ctx, collectionID, req.SampleCap*2, req.Where, chroma.IncludeEmbeddings)
	if err != nil {
		return SimilarityResult{}, err
	}

	vectors := make([][]float64, batch.Len())
	for i := range vectors {
		if e := batch.Embedding(i); len(e) > 0 {
			vectors[i] = e
		}
	}
	m, err := analysis.Similarity(vectors, req.SampleCap)
	if err != nil {
		return SimilarityResult{}, analysisError(err)
	}
	ids := make([]string, len(m.Indices))
	for i, idx := range m.Indices {
		ids[i] = batch.IDs[idx]
	}
	return SimilarityResult{IDs: ids, Values: m.Values}, nil
}

// sample fetches up to limit records in pages.
func (c *Console) sample(ctx context.Context, collectionID string, limit int, where map[string]any, include ...string) (chroma.ItemBatch, error) {
	out := chroma.ItemBatch{IDs: []string{}}
	for out.Len() < limit {
		page, err := c.client.GetItems(ctx, collectionID, chroma.GetRequest{
			Where:   where,
			Limit:   min(export.PageSize, limit-out.Len()),
			Offset:  out.Len(),
			Include: include,
		})
		if err != nil {
			return chroma.ItemBatch{}, WrapError(err, "sample records")
		}
		if page.Len() == 0 {
			break
		}
		appendPage(&out, page)
	}
	return out, nil
}

// appendPage concatenates page onto dst, keeping optional fields aligned.
func appendPage(dst *chroma.ItemBatch, page chroma.ItemBatch) {
	before, n := dst.Len(), page.Len()
	dst.IDs = append(dst.IDs, page.IDs...)
	dst.Documents = appendField(dst.Documents, page.Documents, before, n)
	dst.Metadatas = appendField(dst.Metadatas, page.Metadatas, before, n)
	dst.Embeddings = appendField(dst.Embeddings, page.Embeddings, before, n)
}

func appendField[T any](dst, src []T, before, n int) []T {
	switch {
	case src == nil && dst == nil:
		return nil
	case dst == nil:
		dst = make([]T, before, before+n)
	case src == nil:
		return append(dst, make([]T, n)...)
	}
	return append(dst, src...)
}

// analysisError turns input problems of the analysis engine into validation errors.
func analysisError(err error) error {
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return &ValidationError{Field: "collection", Message: "no records with embeddings"}
	case errors.Is(err, analysis.ErrDimensionMismatch):
		return &ValidationError{Field: "collection", Message: "embeddings have different dimensions"}
	default:
		return err
	}
}
