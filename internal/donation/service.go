package donation

import (
	"context"
	"strconv"
	"time"

	"github.com/mesikahq/gestion-salud/internal/audit"
)

// Service manages donation oppositions and their supporting documents.
// The vault is optional: without one, document operations return
// ErrNoDocument.
type Service struct {
	repo  Repository
	vault Vault
	audit audit.Service
	now   func() time.Time
}

func NewService(repo Repository, vault Vault, auditService audit.Service) *Service {
	return &Service{repo: repo, vault: vault, audit: auditService, now: time.Now}
}

// Declare records a patient's donation stance.
func (s *Service) Declare(ctx context.Context, o *Opposition) error {
	if o.DeclaredAt.IsZero() {
		o.DeclaredAt = s.now()
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", o.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Opposition, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventAccess, "READ", id)
	return o, nil
}

func (s *Service) Update(ctx context.Context, o *Opposition) error {
	if err := o.Validate(); err != nil {
		return err
	}
	// The document reference is managed through AttachDocument and
	// DetachDocument, never through a plain update.
	current, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	o.DocumentRef = current.DocumentRef
	if err := s.repo.Update(ctx, o); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "UPDATE", o.ID)
	return nil
}

// Delete removes the opposition and its vaulted document, if any.
func (s *Service) Delete(ctx context.Context, id int64) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if o.DocumentRef != nil && s.vault != nil {
		// Best effort: the relational record is already gone.
		_ = s.vault.Remove(ctx, *o.DocumentRef)
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", id)
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Opposition, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// AttachDocument stores the scan in the vault and records its reference.
// An existing document is replaced.
func (s *Service) AttachDocument(ctx context.Context, id int64, filename string, data []byte) (string, error) {
	if s.vault == nil {
		return "", ErrNoDocument
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	ref, err := s.vault.Put(ctx, filename, data)
	if err != nil {
		return "", err
	}
	old := o.DocumentRef
	o.DocumentRef = &ref
	if err := s.repo.Update(ctx, o); err != nil {
		_ = s.vault.Remove(ctx, ref)
		return "", err
	}
	if old != nil {
		_ = s.vault.Remove(ctx, *old)
	}

	s.logWrite(ctx, audit.EventModify, "ATTACH_DOCUMENT", id)
	return ref, nil
}

// Document retrieves the supporting document for an opposition.
func (s *Service) Document(ctx context.Context, id int64) ([]byte, string, error) {
	if s.vault == nil {
		return nil, "", ErrNoDocument
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if o.DocumentRef == nil {
		return nil, "", ErrNoDocument
	}
	data, filename, err := s.vault.Get(ctx, *o.DocumentRef)
	if err != nil {
		return nil, "", err
	}
	s.logWrite(ctx, audit.EventAccess, "READ_DOCUMENT", id)
	return data, filename, nil
}

// DetachDocument removes the vaulted scan and clears the reference.
func (s *Service) DetachDocument(ctx context.Context, id int64) error {
	if s.vault == nil {
		return ErrNoDocument
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.DocumentRef == nil {
		return ErrNoDocument
	}

	ref := *o.DocumentRef
	o.DocumentRef = nil
	if err := s.repo.Update(ctx, o); err != nil {
		return err
	}
	_ = s.vault.Remove(ctx, ref)

	s.logWrite(ctx, audit.EventDelete, "DETACH_DOCUMENT", id)
	return nil
}

func (s *Service) logWrite(ctx context.Context, et audit.EventType, action string, id int64) {
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  et,
		UserID:     audit.UserID(ctx),
		Action:     action,
		Resource:   "oposicion_donacion",
		ResourceID: strconv.FormatInt(id, 10),
		Status:     "success",
	})
}
