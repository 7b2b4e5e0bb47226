package chroma

import "fmt"

// Include values accepted by the get and query endpoints.
const (
	IncludeDocuments  = "documents"
	IncludeMetadatas  = "metadatas"
	IncludeEmbeddings = "embeddings"
	IncludeDistances  = "distances"
)

// Collection is a named set of embedded records on the server.
type Collection struct {
	ID       string         `json:"id" validate:"required"`
	Name     string         `json:"name" validate:"required"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ItemBatch holds records as parallel arrays aligned by index to IDs.
// A nil slice means the field was not returned; a nil element means the
// record has no value for that field.
type ItemBatch struct {
	IDs        []string         `json:"ids" validate:"required"`
	Documents  []*string        `json:"documents,omitempty"`
	Metadatas  []map[string]any `json:"metadatas,omitempty"`
	Embeddings [][]float64      `json:"embeddings,omitempty"`
}

// Len returns the number of records in the batch.
func (b ItemBatch) Len() int {
	return len(b.IDs)
}

// Validate checks that every present array is aligned with IDs.
func (b ItemBatch) Validate() error {
	n := len(b.IDs)
	if b.Documents != nil && len(b.Documents) != n {
		return fmt.Errorf("documents has %d entries, ids has %d", len(b.Documents), n)
	}
	if b.Metadatas != nil && len(b.Metadatas) != n {
		return fmt.Errorf("metadatas has %d entries, ids has %d", len(b.Metadatas), n)
	}
	if b.Embeddings != nil && len(b.Embeddings) != n {
		return fmt.Errorf("embeddings has %d entries, ids has %d", len(b.Embeddings), n)
	}
	return nil
}

// Document returns the document of record i, or "" and false when absent.
func (b ItemBatch) Document(i int) (string, bool) {
	if i >= len(b.Documents) || b.Documents[i] == nil {
		return "", false
	}
	return *b.Documents[i], true
}

// Metadata returns the metadata of record i, or nil when absent.
func (b ItemBatch) Metadata(i int) map[string]any {
	if i >= len(b.Metadatas) {
		return nil
	}
	return b.Metadatas[i]
}

// Embedding returns the embedding of record i, or nil when absent.
func (b ItemBatch) Embedding(i int) []float64 {
	if i >= len(b.Embeddings) {
		return nil
	}
	return b.Embeddings[i]
}

// QueryResult is the ranked response of a query: one outer entry per
// query embedding or text, each holding parallel ranked arrays.
type QueryResult struct {
	IDs        [][]string         `json:"ids" validate:"required"`
	Documents  [][]*string        `json:"documents,omitempty"`
	Metadatas  [][]map[string]any `json:"metadatas,omitempty"`
	Embeddings [][][]float64      `json:"embeddings,omitempty"`
	Distances  [][]*float64       `json:"distances,omitempty"`
}

// Validate checks that every present array matches the shape of IDs.
func (r QueryResult) Validate() error {
	n := len(r.IDs)
	check := func(field string, outer int, inner func(q int) int) error {
		if outer != n {
			return fmt.Errorf("%s has %d query entries, ids has %d", field, outer, n)
		}
		for q := 0; q < n; q++ {
			if got := inner(q); got != len(r.IDs[q]) {
				return fmt.Errorf("%s[%d] has %d entries, ids[%d] has %d", field, q, got, q, len(r.IDs[q]))
			}
		}
		return nil
	}
	if r.Documents != nil {
		if err := check("documents", len(r.Documents), func(q int) int { return len(r.Documents[q]) }); err != nil {
			return err
		}
	}
	if r.Metadatas != nil {
		if err := check("metadatas", len(r.Metadatas), func(q int) int { return len(r.Metadatas[q]) }); err != nil {
			return err
		}
	}
	if r.Embeddings != nil {
		if err := check("embeddings", len(r.Embeddings), func(q int) int { return len(r.Embeddings[q]) }); err != nil {
			return err
		}
	}
	if r.Distances != nil {
		if err := check("distances", len(r.Distances), func(q int) int { return len(r.Distances[q]) }); err != nil {
			return err
		}
	}
	return nil
}

// Batch returns the ranked results of query q as an ItemBatch.
func (r QueryResult) Batch(q int) ItemBatch {
	b := ItemBatch{IDs: r.IDs[q]}
	if r.Documents != nil {
		b.Documents = r.Documents[q]
	}
	if r.Metadatas != nil {
		b.Metadatas = r.Metadatas[q]
	}
	if r.Embeddings != nil {
		b.Embeddings = r.Embeddings[q]
	}
	return b
}

// GetRequest is the body of a paginated get.
type GetRequest struct {
	IDs           []string       `json:"ids,omitempty"`
	Where         map[string]any `json:"where,omitempty"`
	WhereDocument map[string]any `json:"where_document,omitempty"`
	Limit         int            `json:"limit,omitempty"`
	Offset        int            `json:"offset,omitempty"`
	Include       []string       `json:"include,omitempty"`
}

// QueryRequest is the body of a similarity query.
type QueryRequest struct {
	QueryEmbeddings [][]float64    `json:"query_embeddings,omitempty"`
	QueryTexts      []string       `json:"query_texts,omitempty"`
	NResults        int            `json:"n_results"`
	Where           map[string]any `json:"where,omitempty"`
	Include         []string       `json:"include,omitempty"`
}

// AddRequest is the body of an add call.
type AddRequest struct {
	IDs        []string         `json:"ids"`
	Documents  []*string        `json:"documents,omitempty"`
	Metadatas  []map[string]any `json:"metadatas,omitempty"`
	Embeddings [][]float64      `json:"embeddings,omitempty"`
}

// DeleteRequest is the body of a record delete call.
type DeleteRequest struct {
	IDs   []string       `json:"ids,omitempty"`
	Where map[string]any `json:"where,omitempty"`
}

// CreateCollectionRequest is the body of a collection create call.
type CreateCollectionRequest struct {
	Name        string         `json:"name"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	GetOrCreate bool           `json:"get_or_create,omitempty"`
}

// Capabilities records which operations the connected server answers.
type Capabilities struct {
	Heartbeat       bool   `json:"heartbeat"`
	Version         bool   `json:"version"`
	ListCollections bool   `json:"list_collections"`
	GetCollection   bool   `json:"get_collection"`
	CountCollection bool   `json:"count_collection"`
	GetItems        bool   `json:"get_items"`
	Query           bool   `json:"query"`
	APIVersion      string `json:"api_version"`
	ServerVersion   string `json:"server_version,omitempty"`
}
