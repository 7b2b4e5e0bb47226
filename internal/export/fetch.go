package export

import (
	"context"
	"fmt"

	"vectoradmin/internal/chroma"
	"vectoradmin/internal/contextutil"
)

// PageSize is the number of records requested per page.
const PageSize = 500

// ItemGetter is the slice of the protocol client bulk retrieval needs.
type ItemGetter interface {
	GetItems(ctx context.Context, collectionID string, req chroma.GetRequest) (chroma.ItemBatch, error)
}

// ProgressFunc receives the cumulative number of fetched records after each page.
type ProgressFunc func(fetched int)

// FetchAllRecords pages through a collection in offset order, requesting
// documents, metadatas and embeddings, until totalCount records are
// accumulated or the server returns an empty page. A field is only present
// in the result if at least one page returned a value for it; pages that
// omit a field contribute absent entries so indexes stay aligned.
//
// The count is not re-checked while paging: a collection that shrinks
// mid-fetch yields a short result and a logged warning. Any page error
// aborts the fetch and the partial result is discarded.
func FetchAllRecords(ctx context.Context, getter ItemGetter, collectionID string, totalCount int, onProgress ProgressFunc) (chroma.ItemBatch, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var (
		acc           accumulator
		offset, pages int
	)
	for acc.len() < totalCount {
		page, err := getter.GetItems(ctx, collectionID, chroma.GetRequest{
			Limit:   PageSize,
			Offset:  offset,
			Include: []string{chroma.IncludeDocuments, chroma.IncludeMetadatas, chroma.IncludeEmbeddings},
		})
		if err != nil {
			return chroma.ItemBatch{}, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		pages++
		if page.Len() == 0 {
			break
		}

		acc.add(page)
		offset += page.Len()
		if onProgress != nil {
			onProgress(acc.len())
		}
	}

	if acc.len() < totalCount {
		logger.WarnContext(ctx, "collection returned fewer records than counted",
			"collection", collectionID, "expected", totalCount, "fetched", acc.len())
	}
	logger.InfoContext(ctx, "fetched collection records", "collection", collectionID, "records", acc.len(), "pages", pages)
	return acc.batch(), nil
}

// accumulator concatenates pages field by field.
type accumulator struct {
	ids        []string
	documents  []*string
	metadatas  []map[string]any
	embeddings [][]float64

	hasDocuments, hasMetadatas, hasEmbeddings bool
}

func (a *accumulator) len() int {
	return len(a.ids)
}

func (a *accumulator) add(page chroma.ItemBatch) {
	n := page.Len()
	a.ids = append(a.ids, page.IDs...)

	if page.Documents != nil {
		a.documents = append(a.documents, page.Documents...)
		for _, d := range page.Documents {
			if d != nil {
				a.hasDocuments = true
				break
			}
		}
	} else {
		a.documents = append(a.documents, make([]*string, n)...)
	}

	if page.Metadatas != nil {
		a.metadatas = append(a.metadatas, page.Metadatas...)
		for _, m := range page.Metadatas {
			if len(m) > 0 {
				a.hasMetadatas = true
				break
			}
		}
	} else {
		a.metadatas = append(a.metadatas, make([]map[string]any, n)...)
	}

	if page.Embeddings != nil {
		a.embeddings = append(a.embeddings, page.Embeddings...)
		for _, e := range page.Embeddings {
			if len(e) > 0 {
				a.hasEmbeddings = true
				break
			}
		}
	} else {
		a.embeddings = append(a.embeddings, make([][]float64, n)...)
	}
}

func (a *accumulator) batch() chroma.ItemBatch {
	b := chroma.ItemBatch{IDs: a.ids}
	if b.IDs == nil {
		b.IDs = []string{}
	}
	if a.hasDocuments {
		b.Documents = a.documents
	}
	if a.hasMetadatas {
		b.Metadatas = a.metadatas
	}
	if a.hasEmbeddings {
		b.Embeddings = a.embeddings
	}
	return b
}
