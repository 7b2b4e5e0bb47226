package analysis

import "vectoradmin/internal/chroma"

// EmbeddingPoint is one record placed on the 2D projection.
type EmbeddingPoint struct {
	ID       string         `json:"id"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Document *string        `json:"document,omitempty"`
	Cluster  *int           `json:"cluster,omitempty"`
}

// Visualization is the projected and optionally clustered view of a batch.
type Visualization struct {
	Points    []EmbeddingPoint `json:"points"`
	Centroids []Point          `json:"centroids,omitempty"`
	// Skipped counts records without an embedding.
	Skipped int `json:"skipped"`
}

// Visualize projects every embedded record in batch to 2D and, when k > 0,
// labels each point with its k-means cluster. k is capped at the number of
// embedded records.
func (e *Engine) Visualize(batch chroma.ItemBatch, k int) (Visualization, error) {
	var (
		vectors [][]float64
		rows    []int
	)
	for i := range batch.IDs {
		if emb := batch.Embedding(i); len(emb) > 0 {
			vectors = append(vectors, emb)
			rows = append(rows, i)
		}
	}

	coords, err := e.Project(vectors)
	if err != nil {
		return Visualization{}, err
	}

	vis := Visualization{
		Points:  make([]EmbeddingPoint, len(coords)),
		Skipped: batch.Len() - len(rows),
	}
	for i, c := range coords {
		row := rows[i]
		p := EmbeddingPoint{
			ID:       batch.IDs[row],
			X:        c.X,
			Y:        c.Y,
			Metadata: batch.Metadata(row),
		}
		if doc, ok := batch.Document(row); ok {
			p.Document = &doc
		}
		vis.Points[i] = p
	}

	if k <= 0 || len(coords) == 0 {
		return vis, nil
	}
	clustering, err := e.ClusterDefault(coords, min(k, len(coords)))
	if err != nil {
		return Visualization{}, err
	}
	for i := range vis.Points {
		label := clustering.Labels[i]
		vis.Points[i].Cluster = &label
	}
	vis.Centroids = clustering.Centroids
	return vis, nil
}
