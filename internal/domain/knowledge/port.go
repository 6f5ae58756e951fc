package knowledge

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id EntryID) (*Entry, error)
	Delete(ctx context.Context, id EntryID) error
	Latest(ctx context.Context, limit, offset int) ([]*Entry, error)
}
