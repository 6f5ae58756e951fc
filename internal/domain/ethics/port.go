package ethics

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, e *Evaluation) error
	Get(ctx context.Context, id EvaluationID) (*Evaluation, error)
	Latest(ctx context.Context, evaluator string, limit int) ([]*Evaluation, error)
}

// GuidelineRepository port for the current set of ethical standards
type GuidelineRepository interface {
	Save(ctx context.Context, g *Guideline) error
	Get(ctx context.Context, id string) (*Guideline, error)
	List(ctx context.Context) ([]*Guideline, error)
}

// ArtifactStore port (interface untuk penyimpanan raw evaluation exchanges)
type ArtifactStore interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}
