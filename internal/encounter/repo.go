package encounter

import "context"

// Repository is the persistence interface for clinical encounters.
// Update rewrites the mutable fields; lifecycle checks live in the
// service.
type Repository interface {
	Create(ctx context.Context, e *Encounter) error
	GetByID(ctx context.Context, id int64) (*Encounter, error)
	Update(ctx context.Context, e *Encounter) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Encounter, int, error)
}
