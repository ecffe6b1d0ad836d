package memory

import (
	"context"
	"sort"

	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/donation"
	"github.com/mesikahq/gestion-salud/internal/encounter"
)

type directiveRepo struct {
	s *Store
}

// Directives returns the advance-directive view of the store.
func (s *Store) Directives() directive.Repository {
	return &directiveRepo{s: s}
}

var _ directive.Repository = (*directiveRepo)(nil)

func (r *directiveRepo) Create(_ context.Context, d *directive.Directive) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.patients[d.PatientID]
	if !ok {
		return directive.ErrInvalidReference
	}
	if _, ok := r.s.providers[d.ProviderID]; !ok {
		return directive.ErrInvalidReference
	}

	d.ID = r.s.nextSeq()
	r.s.directives[d.ID] = *d

	p.DirectiveID = &d.ID
	r.s.patients[p.ID] = p
	return nil
}

func (r *directiveRepo) GetByID(_ context.Context, id int64) (*directive.Directive, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.directives[id]
	if !ok {
		return nil, directive.ErrNotFound
	}
	return &d, nil
}

func (r *directiveRepo) Update(_ context.Context, d *directive.Directive) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.directives[d.ID]
	if !ok {
		return directive.ErrNotFound
	}
	d.PatientID = current.PatientID
	d.ProviderID = current.ProviderID
	d.SubscribedAt = current.SubscribedAt
	d.Content = current.Content
	d.Signature = current.Signature
	r.s.directives[d.ID] = *d
	return nil
}

func (r *directiveRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.directives[id]
	if !ok {
		return directive.ErrNotFound
	}
	if p, ok := r.s.patients[d.PatientID]; ok {
		if p.DirectiveID != nil && *p.DirectiveID == id {
			p.DirectiveID = nil
			r.s.patients[p.ID] = p
		}
	}
	delete(r.s.directives, id)
	return nil
}

func (r *directiveRepo) ListByPatient(_ context.Context, patientID int64) ([]*directive.Directive, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*directive.Directive
	for id := range r.s.directives {
		d := r.s.directives[id]
		if d.PatientID == patientID {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscribedAt.After(out[j].SubscribedAt) })
	return out, nil
}

type oppositionRepo struct {
	s *Store
}

// Oppositions returns the donation-opposition view of the store.
func (s *Store) Oppositions() donation.Repository {
	return &oppositionRepo{s: s}
}

var _ donation.Repository = (*oppositionRepo)(nil)

func (r *oppositionRepo) Create(_ context.Context, o *donation.Opposition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.patients[o.PatientID]
	if !ok {
		return donation.ErrPatientNotFound
	}

	o.ID = r.s.nextSeq()
	r.s.oppositions[o.ID] = *o

	p.OppositionID = &o.ID
	r.s.patients[p.ID] = p
	return nil
}

func (r *oppositionRepo) GetByID(_ context.Context, id int64) (*donation.Opposition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.oppositions[id]
	if !ok {
		return nil, donation.ErrNotFound
	}
	return &o, nil
}

func (r *oppositionRepo) Update(_ context.Context, o *donation.Opposition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.oppositions[o.ID]
	if !ok {
		return donation.ErrNotFound
	}
	o.PatientID = current.PatientID
	r.s.oppositions[o.ID] = *o
	return nil
}

func (r *oppositionRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.oppositions[id]
	if !ok {
		return donation.ErrNotFound
	}
	if p, ok := r.s.patients[o.PatientID]; ok {
		if p.OppositionID != nil && *p.OppositionID == id {
			p.OppositionID = nil
			r.s.patients[p.ID] = p
		}
	}
	delete(r.s.oppositions, id)
	return nil
}

func (r *oppositionRepo) ListByPatient(_ context.Context, patientID int64) ([]*donation.Opposition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*donation.Opposition
	for id := range r.s.oppositions {
		o := r.s.oppositions[id]
		if o.PatientID == patientID {
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeclaredAt.After(out[j].DeclaredAt) })
	return out, nil
}

type encounterRepo struct {
	s *Store
}

// Encounters returns the clinical-encounter view of the store.
func (s *Store) Encounters() encounter.Repository {
	return &encounterRepo{s: s}
}

var _ encounter.Repository = (*encounterRepo)(nil)

func (r *encounterRepo) Create(_ context.Context, e *encounter.Encounter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkReferences(e); err != nil {
		return err
	}
	e.ID = r.s.nextSeq()
	r.s.encounters[e.ID] = *e
	return nil
}

func (r *encounterRepo) checkReferences(e *encounter.Encounter) error {
	if _, ok := r.s.patients[e.PatientID]; !ok {
		return encounter.ErrInvalidReference
	}
	if _, ok := r.s.providers[e.ProviderID]; !ok {
		return encounter.ErrInvalidReference
	}
	refs := []struct {
		kind catalog.Kind
		id   int64
	}{
		{catalog.KindCauseOfVisit, e.CauseID},
		{catalog.KindAdmissionRoute, e.AdmissionRoute},
		{catalog.KindServiceModality, e.ModalityID},
		{catalog.KindDiagnosis, e.DiagnosisCodeID},
	}
	for _, ref := range refs {
		if _, ok := r.s.entries[ref.kind][ref.id]; !ok {
			return encounter.ErrInvalidReference
		}
	}
	if e.OrphanDiseaseID != nil {
		if _, ok := r.s.entries[catalog.KindRareDisease][*e.OrphanDiseaseID]; !ok {
			return encounter.ErrInvalidReference
		}
	}
	return nil
}

func (r *encounterRepo) GetByID(_ context.Context, id int64) (*encounter.Encounter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.encounters[id]
	if !ok {
		return nil, encounter.ErrNotFound
	}
	return &e, nil
}

func (r *encounterRepo) Update(_ context.Context, e *encounter.Encounter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.encounters[e.ID]
	if !ok {
		return encounter.ErrNotFound
	}
	if err := r.checkReferences(e); err != nil {
		return err
	}
	e.PatientID = current.PatientID
	e.ProviderID = current.ProviderID
	r.s.encounters[e.ID] = *e
	return nil
}

func (r *encounterRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.encounters[id]; !ok {
		return encounter.ErrNotFound
	}
	delete(r.s.encounters, id)
	return nil
}

func (r *encounterRepo) List(_ context.Context, f encounter.Filter, limit, offset int) ([]*encounter.Encounter, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*encounter.Encounter
	for id := range r.s.encounters {
		e := r.s.encounters[id]
		if f.PatientID != 0 && e.PatientID != f.PatientID {
			continue
		}
		if f.ProviderID != 0 && e.ProviderID != f.ProviderID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		all = append(all, &e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AdmittedAt.After(all[j].AdmittedAt) })
	return paginate(all, limit, offset), len(all), nil
}
