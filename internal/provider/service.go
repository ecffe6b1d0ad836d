package provider

import (
	"context"
	"strconv"

	"github.com/mesikahq/gestion-salud/internal/audit"
)

// Service wraps the registry with validation and audit logging.
type Service struct {
	repo  Repository
	audit audit.Service
}

func NewService(repo Repository, auditService audit.Service) *Service {
	return &Service{repo: repo, audit: auditService}
}

func (s *Service) Create(ctx context.Context, p *Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", p.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Provider) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "UPDATE", p.ID)
	return nil
}

// Delete removes a provider. It fails with ErrInUse while any patient,
// advance directive or encounter still references the provider.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", id)
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) logWrite(ctx context.Context, et audit.EventType, action string, id int64) {
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  et,
		UserID:     audit.UserID(ctx),
		Action:     action,
		Resource:   "prestadora_salud",
		ResourceID: strconv.FormatInt(id, 10),
		Status:     "success",
	})
}
