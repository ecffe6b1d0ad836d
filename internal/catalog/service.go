package catalog

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mesikahq/gestion-salud/internal/audit"
)

// Service exposes the reference catalogs to the admin surface. Validation
// happens here, before any write reaches the repository.
type Service struct {
	repo  Repository
	audit audit.Service
}

func NewService(repo Repository, auditService audit.Service) *Service {
	return &Service{repo: repo, audit: auditService}
}

func (s *Service) CreateEntry(ctx context.Context, kind Kind, e *Entry) error {
	if err := Validate(kind, e); err != nil {
		return err
	}
	if err := s.repo.CreateEntry(ctx, kind, e); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", kind, e.ID)
	return nil
}

func (s *Service) GetEntry(ctx context.Context, kind Kind, id int64) (*Entry, error) {
	return s.repo.GetEntry(ctx, kind, id)
}

func (s *Service) UpdateEntry(ctx context.Context, kind Kind, e *Entry) error {
	if err := Validate(kind, e); err != nil {
		return err
	}
	if err := s.repo.UpdateEntry(ctx, kind, e); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "UPDATE", kind, e.ID)
	return nil
}

func (s *Service) DeleteEntry(ctx context.Context, kind Kind, id int64) error {
	if err := s.repo.DeleteEntry(ctx, kind, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", kind, id)
	return nil
}

func (s *Service) ListEntries(ctx context.Context, kind Kind) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, kind)
}

func (s *Service) CreateDisabilityType(ctx context.Context, d *DisabilityType) error {
	if err := ValidateDisabilityType(d); err != nil {
		return err
	}
	if err := s.repo.CreateDisabilityType(ctx, d); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", "discapacidad", d.ID)
	return nil
}

func (s *Service) GetDisabilityType(ctx context.Context, id int64) (*DisabilityType, error) {
	return s.repo.GetDisabilityType(ctx, id)
}

func (s *Service) UpdateDisabilityType(ctx context.Context, d *DisabilityType) error {
	if err := ValidateDisabilityType(d); err != nil {
		return err
	}
	if err := s.repo.UpdateDisabilityType(ctx, d); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "UPDATE", "discapacidad", d.ID)
	return nil
}

func (s *Service) DeleteDisabilityType(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDisabilityType(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", "discapacidad", id)
	return nil
}

func (s *Service) ListDisabilityTypes(ctx context.Context) ([]*DisabilityType, error) {
	return s.repo.ListDisabilityTypes(ctx)
}

func (s *Service) logWrite(ctx context.Context, et audit.EventType, action string, resource Kind, id int64) {
	details, _ := json.Marshal(map[string]interface{}{"catalog": string(resource)})
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  et,
		UserID:     audit.UserID(ctx),
		Action:     action,
		Resource:   string(resource),
		ResourceID: strconv.FormatInt(id, 10),
		Status:     "success",
		Details:    json.RawMessage(details),
	})
}
