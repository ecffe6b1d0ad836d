package catalog

import "context"

// Repository is the persistence interface for the reference catalogs.
type Repository interface {
	CreateEntry(ctx context.Context, kind Kind, e *Entry) error
	GetEntry(ctx context.Context, kind Kind, id int64) (*Entry, error)
	UpdateEntry(ctx context.Context, kind Kind, e *Entry) error
	DeleteEntry(ctx context.Context, kind Kind, id int64) error
	ListEntries(ctx context.Context, kind Kind) ([]*Entry, error)
	CountEntries(ctx context.Context, kind Kind) (int64, error)

	CreateDisabilityType(ctx context.Context, d *DisabilityType) error
	GetDisabilityType(ctx context.Context, id int64) (*DisabilityType, error)
	UpdateDisabilityType(ctx context.Context, d *DisabilityType) error
	DeleteDisabilityType(ctx context.Context, id int64) error
	ListDisabilityTypes(ctx context.Context) ([]*DisabilityType, error)
	CountDisabilityTypes(ctx context.Context) (int64, error)
}
