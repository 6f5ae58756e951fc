package vector

import "context"

// Point is one indexed item: id, embedding and optional payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Hit is a search match with its cosine similarity score.
type Hit struct {
	ID    string
	Score float64
}

// Index port (interface untuk vector search engine)
type Index interface {
	Ensure(ctx context.Context, collection string, dim int) error
	Upsert(ctx context.Context, collection string, points ...Point) error
	Search(ctx context.Context, collection string, vec []float32, limit int, threshold float64) ([]Hit, error)
	Delete(ctx context.Context, collection string, ids ...string) error
}
