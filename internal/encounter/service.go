package encounter

import (
	"context"
	"strconv"
	"time"

	"github.com/mesikahq/gestion-salud/internal/audit"
)

// Service applies the encounter lifecycle rules.
type Service struct {
	repo  Repository
	audit audit.Service
	now   func() time.Time
}

func NewService(repo Repository, auditService audit.Service) *Service {
	return &Service{repo: repo, audit: auditService, now: time.Now}
}

// Schedule registers a new encounter in the PROGRAMADA state.
func (s *Service) Schedule(ctx context.Context, e *Encounter) error {
	e.Status = StatusScheduled
	e.DischargedAt = nil
	e.DischargeDiagnosis = nil
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "CREATE", e.ID)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Encounter, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventAccess, "READ", id)
	return e, nil
}

// Update rewrites the clinical fields of a scheduled encounter. Lifecycle
// fields go through the transition methods.
func (s *Service) Update(ctx context.Context, e *Encounter) error {
	current, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	if current.Status != StatusScheduled {
		return ErrBadTransition
	}
	e.Status = current.Status
	e.DischargedAt = current.DischargedAt
	e.DischargeDiagnosis = current.DischargeDiagnosis
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventModify, "UPDATE", e.ID)
	return nil
}

// MarkAttended records that the scheduled encounter took place.
func (s *Service) MarkAttended(ctx context.Context, id int64) (*Encounter, error) {
	return s.transition(ctx, id, StatusAttended, "ATTEND")
}

// Cancel aborts a scheduled encounter.
func (s *Service) Cancel(ctx context.Context, id int64) (*Encounter, error) {
	return s.transition(ctx, id, StatusCancelled, "CANCEL")
}

// MarkNoShow records that the patient did not arrive.
func (s *Service) MarkNoShow(ctx context.Context, id int64) (*Encounter, error) {
	return s.transition(ctx, id, StatusNoShow, "NO_SHOW")
}

func (s *Service) transition(ctx context.Context, id int64, to, action string) (*Encounter, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusScheduled {
		return nil, ErrBadTransition
	}
	e.Status = to
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventModify, action, id)
	return e, nil
}

// Discharge closes an attended encounter with its egress data. Only an
// ATENDIDA encounter can be discharged, and only once.
func (s *Service) Discharge(ctx context.Context, id int64, diagnosis string) (*Encounter, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusAttended || e.DischargedAt != nil {
		return nil, ErrBadTransition
	}
	if diagnosis == "" || len(diagnosis) > 500 {
		return nil, ErrInvalid
	}

	now := s.now()
	e.DischargedAt = &now
	e.DischargeDiagnosis = &diagnosis
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.logWrite(ctx, audit.EventModify, "DISCHARGE", id)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logWrite(ctx, audit.EventDelete, "DELETE", id)
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Encounter, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, f, limit, offset)
}

func (s *Service) logWrite(ctx context.Context, et audit.EventType, action string, id int64) {
	s.audit.LogEvent(ctx, &audit.AuditEvent{
		EventType:  et,
		UserID:     audit.UserID(ctx),
		Action:     action,
		Resource:   "servicio_salud",
		ResourceID: strconv.FormatInt(id, 10),
		Status:     "success",
	})
}
