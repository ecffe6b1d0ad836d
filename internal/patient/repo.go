package patient

import "context"

// Repository is the persistence interface for patients and their
// association rows.
//
// Create inserts the patient together with its initial nationality row in
// one transaction; the pair forms the required primary-nationality link.
// Update never touches CreatedAt and always refreshes UpdatedAt. Delete
// cascades to every dependent row (nationalities, disabilities, advance
// directives, donation oppositions, encounters).
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByDocument(ctx context.Context, documentNumber string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error)

	AddNationality(ctx context.Context, patientID, countryID int64) (*Nationality, error)
	RemoveNationality(ctx context.Context, id int64) error
	ListNationalities(ctx context.Context, patientID int64) ([]*Nationality, error)

	AddDisability(ctx context.Context, patientID, disabilityID int64) (*Disability, error)
	RemoveDisability(ctx context.Context, id int64) error
	ListDisabilities(ctx context.Context, patientID int64) ([]*Disability, error)
}
