package donation

import "context"

// Repository is the persistence interface for donation oppositions.
//
// Create also points the patient record at the new opposition.
type Repository interface {
	Create(ctx context.Context, o *Opposition) error
	GetByID(ctx context.Context, id int64) (*Opposition, error)
	Update(ctx context.Context, o *Opposition) error
	Delete(ctx context.Context, id int64) error
	ListByPatient(ctx context.Context, patientID int64) ([]*Opposition, error)
}
