package patient

import (
	"context"
	"strconv"

	"github.com/mesikahq/gestion-salud/internal/audit"
)

// Service wraps the patient store with validation and audit logging.
type Service struct {
	repo  Repository
	audit audit.Service
}

func NewService(repo Repository, auditService audit.Service) *Service {
	return &Service{repo: repo, audit: auditService}
}

// Register creates a patient. The country reference doubles as the primary
// nationality, so the caller never supplies a nationality row explicitly.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", "paciente", p.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventAccess, "READ", "paciente", id)
	return p, nil
}

func (s *Service) GetByDocument(ctx context.Context, documentNumber string) (*Patient, error) {
	p, err := s.repo.GetByDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventAccess, "READ", "paciente", p.ID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "UPDATE", "paciente", p.ID)
	return nil
}

// Delete removes the patient and every dependent record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", "paciente", id)
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) AddNationality(ctx context.Context, patientID, countryID int64) (*Nationality, error) {
	n, err := s.repo.AddNationality(ctx, patientID, countryID)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", "paciente_nacionalidad", n.ID)
	return n, nil
}

// RemoveNationality deletes a secondary nationality. The row the patient
// record points at as its primary link cannot be removed.
func (s *Service) RemoveNationality(ctx context.Context, id int64) error {
	if err := s.repo.RemoveNationality(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", "paciente_nacionalidad", id)
	return nil
}

func (s *Service) ListNationalities(ctx context.Context, patientID int64) ([]*Nationality, error) {
	return s.repo.ListNationalities(ctx, patientID)
}

func (s *Service) AddDisability(ctx context.Context, patientID, disabilityID int64) (*Disability, error) {
	d, err := s.repo.AddDisability(ctx, patientID, disabilityID)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", "paciente_discapacidad", d.ID)
	return d, nil
}

func (s *Service) RemoveDisability(ctx context.Context, id int64) error {
	if err := s.repo.RemoveDisability(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", "paciente_discapacidad", id)
	return nil
}

func (s *Service) ListDisabilities(ctx context.Context, patientID int64) ([]*Disability, error) {
	return s.repo.ListDisabilities(ctx, patientID)
}

func (s *Service) logWrite(ctx context.Context, et audit.EventType, action, resource string, id int64) {
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  et,
		UserID:     audit.UserID(ctx),
		Action:     action,
		Resource:   resource,
		ResourceID: strconv.FormatInt(id, 10),
		Status:     "success",
	})
}
