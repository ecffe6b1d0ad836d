package directive

import "context"

// Repository is the persistence interface for advance directives.
//
// Create also points the patient record at the new document. Update
// rewrites the lifecycle fields only (status, amendment and revocation
// timestamps); the document content and signature are immutable once
// subscribed. State checks live in the service.
type Repository interface {
	Create(ctx context.Context, d *Directive) error
	GetByID(ctx context.Context, id int64) (*Directive, error)
	Update(ctx context.Context, d *Directive) error
	Delete(ctx context.Context, id int64) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Directive, error)
}
