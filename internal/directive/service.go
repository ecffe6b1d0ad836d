package directive

import (
	"context"
	"strconv"
	"time"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/encryption"
)

// Service applies the directive lifecycle rules. Patient signatures are
// sealed with the encryption service before they touch storage and opened
// again on every read.
type Service struct {
	repo   Repository
	crypto encryption.Service
	audit  audit.Service
	now    func() time.Time
}

func NewService(repo Repository, crypto encryption.Service, auditService audit.Service) *Service {
	return &Service{repo: repo, crypto: crypto, audit: auditService, now: time.Now}
}

// Subscribe registers a new directive in the ACTIVA state.
func (s *Service) Subscribe(ctx context.Context, d *Directive) error {
	d.Status = StatusActive
	d.AmendedAt = nil
	d.RevokedAt = nil
	if d.SubscribedAt.IsZero() {
		d.SubscribedAt = s.now()
	}
	if err := d.Validate(); err != nil {
		return err
	}

	sealed, err := s.crypto.Encrypt([]byte(d.Signature))
	if err != nil {
		return err
	}
	plain := d.Signature
	d.Signature = sealed
	if err := s.repo.Create(ctx, d); err != nil {
		return err
	}
	d.Signature = plain

	s.logWrite(ctx, audit.EventModify, "CREATE", d.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Directive, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.openSignature(d); err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventAccess, "READ", id)
	return d, nil
}

// Amend moves the directive to MODIFICADA and records the amendment
// timestamp. The subscribed document text stays untouched. A revoked
// directive cannot be amended.
func (s *Service) Amend(ctx context.Context, id int64) (*Directive, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == StatusRevoked {
		return nil, ErrBadTransition
	}

	now := s.now()
	d.Status = StatusAmended
	d.AmendedAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	if err := s.openSignature(d); err != nil {
		return nil, err
	}

	s.logWrite(ctx, audit.EventModify, "AMEND", id)
	return d, nil
}

// Revoke moves the directive to its terminal REVOCADA state.
func (s *Service) Revoke(ctx context.Context, id int64) (*Directive, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == StatusRevoked {
		return nil, ErrBadTransition
	}

	now := s.now()
	d.Status = StatusRevoked
	d.RevokedAt = &now
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	if err := s.openSignature(d); err != nil {
		return nil, err
	}

	s.logWrite(ctx, audit.EventModify, "REVOKE", id)
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", id)
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Directive, error) {
	list, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		if err := s.openSignature(d); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *Service) openSignature(d *Directive) error {
	plain, err := s.crypto.Decrypt(d.Signature)
	if err != nil {
		return err
	}
	d.Signature = string(plain)
	return nil
}

func (s *Service) logWrite(ctx context.Context, et audit.EventType, action string, id int64) {
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  et,
		UserID:     audit.UserID(ctx),
		Action:     action,
		Resource:   "voluntad_anticipada",
		ResourceID: strconv.FormatInt(id, 10),
		Status:     "success",
	})
}
