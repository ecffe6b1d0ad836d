package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/patient"
)

type patientRepo struct {
	s *Store
}

// Patients returns the patient view of the store.
func (s *Store) Patients() patient.Repository {
	return &patientRepo{s: s}
}

var _ patient.Repository = (*patientRepo)(nil)

func (r *patientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.patients {
		if existing.DocumentNumber == p.DocumentNumber {
			return patient.ErrDuplicateDocument
		}
	}
	if err := r.checkReferences(p); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.ID = r.s.nextSeq()
	p.CreatedAt = now
	p.UpdatedAt = now

	n := patient.Nationality{ID: r.s.nextSeq(), PatientID: p.ID, CountryID: p.CountryID}
	r.s.nationalities[n.ID] = n
	p.NationalityID = &n.ID

	r.s.patients[p.ID] = *p
	return nil
}

func (r *patientRepo) checkReferences(p *patient.Patient) error {
	if _, ok := r.s.providers[p.ProviderID]; !ok {
		return patient.ErrInvalidReference
	}
	refs := []struct {
		kind catalog.Kind
		id   int64
	}{
		{catalog.KindCountry, p.CountryID},
		{catalog.KindCity, p.CityID},
		{catalog.KindOccupation, p.OccupationID},
		{catalog.KindEthnicCommunity, p.EthnicCommunityID},
		{catalog.KindEthnicity, p.EthnicityID},
	}
	for _, ref := range refs {
		if _, ok := r.s.entries[ref.kind][ref.id]; !ok {
			return patient.ErrInvalidReference
		}
	}
	return nil
}

func (r *patientRepo) GetByID(_ context.Context, id int64) (*patient.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return &p, nil
}

func (r *patientRepo) GetByDocument(_ context.Context, documentNumber string) (*patient.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id := range r.s.patients {
		if r.s.patients[id].DocumentNumber == documentNumber {
			p := r.s.patients[id]
			return &p, nil
		}
	}
	return nil, patient.ErrNotFound
}

func (r *patientRepo) Update(_ context.Context, p *patient.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.patients[p.ID]
	if !ok {
		return patient.ErrNotFound
	}
	for id, existing := range r.s.patients {
		if id != p.ID && existing.DocumentNumber == p.DocumentNumber {
			return patient.ErrDuplicateDocument
		}
	}
	if err := r.checkReferences(p); err != nil {
		return err
	}

	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	p.NationalityID = current.NationalityID
	p.DirectiveID = current.DirectiveID
	p.OppositionID = current.OppositionID
	p.DisabilityLinkID = current.DisabilityLinkID
	r.s.patients[p.ID] = *p
	return nil
}

// Delete removes the patient and cascades to every dependent record.
func (r *patientRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[id]; !ok {
		return patient.ErrNotFound
	}

	for nid, n := range r.s.nationalities {
		if n.PatientID == id {
			delete(r.s.nationalities, nid)
		}
	}
	for did, d := range r.s.patientDisabilities {
		if d.PatientID == id {
			delete(r.s.patientDisabilities, did)
		}
	}
	for vid, v := range r.s.directives {
		if v.PatientID == id {
			delete(r.s.directives, vid)
		}
	}
	for oid, o := range r.s.oppositions {
		if o.PatientID == id {
			delete(r.s.oppositions, oid)
		}
	}
	for eid, e := range r.s.encounters {
		if e.PatientID == id {
			delete(r.s.encounters, eid)
		}
	}
	delete(r.s.patients, id)
	return nil
}

func (r *patientRepo) List(_ context.Context, f patient.Filter, limit, offset int) ([]*patient.Patient, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []*patient.Patient
	for id := range r.s.patients {
		p := r.s.patients[id]
		if f.DocumentNumber != "" && p.DocumentNumber != f.DocumentNumber {
			continue
		}
		if f.NameQuery != "" {
			q := strings.ToLower(f.NameQuery)
			if !strings.HasPrefix(strings.ToLower(p.GivenName), q) &&
				!strings.HasPrefix(strings.ToLower(p.FamilyName), q) {
				continue
			}
		}
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].FamilyName != all[j].FamilyName {
			return all[i].FamilyName < all[j].FamilyName
		}
		return all[i].GivenName < all[j].GivenName
	})
	return paginate(all, limit, offset), len(all), nil
}

func (r *patientRepo) AddNationality(_ context.Context, patientID, countryID int64) (*patient.Nationality, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[patientID]; !ok {
		return nil, patient.ErrNotFound
	}
	for _, n := range r.s.nationalities {
		if n.PatientID == patientID && n.CountryID == countryID {
			return nil, patient.ErrDuplicateNationality
		}
	}

	n := patient.Nationality{ID: r.s.nextSeq(), PatientID: patientID, CountryID: countryID}
	r.s.nationalities[n.ID] = n
	return &n, nil
}

func (r *patientRepo) RemoveNationality(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.nationalities[id]; !ok {
		return patient.ErrNationalityNotFound
	}
	for _, p := range r.s.patients {
		if p.NationalityID != nil && *p.NationalityID == id {
			return patient.ErrNationalityInUse
		}
	}
	delete(r.s.nationalities, id)
	return nil
}

func (r *patientRepo) ListNationalities(_ context.Context, patientID int64) ([]*patient.Nationality, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*patient.Nationality
	for id := range r.s.nationalities {
		n := r.s.nationalities[id]
		if n.PatientID == patientID {
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *patientRepo) AddDisability(_ context.Context, patientID, disabilityID int64) (*patient.Disability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[patientID]; !ok {
		return nil, patient.ErrNotFound
	}
	if _, ok := r.s.disabilities[disabilityID]; !ok {
		return nil, patient.ErrNotFound
	}
	for _, d := range r.s.patientDisabilities {
		if d.PatientID == patientID && d.DisabilityID == disabilityID {
			return nil, patient.ErrDuplicateDisability
		}
	}

	d := patient.Disability{ID: r.s.nextSeq(), PatientID: patientID, DisabilityID: disabilityID}
	r.s.patientDisabilities[d.ID] = d
	return &d, nil
}

func (r *patientRepo) RemoveDisability(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.patientDisabilities[id]
	if !ok {
		return patient.ErrDisabilityNotFound
	}
	// Optional link on the patient record clears itself.
	if p, ok := r.s.patients[d.PatientID]; ok {
		if p.DisabilityLinkID != nil && *p.DisabilityLinkID == id {
			p.DisabilityLinkID = nil
			r.s.patients[p.ID] = p
		}
	}
	delete(r.s.patientDisabilities, id)
	return nil
}

func (r *patientRepo) ListDisabilities(_ context.Context, patientID int64) ([]*patient.Disability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*patient.Disability
	for id := range r.s.patientDisabilities {
		d := r.s.patientDisabilities[id]
		if d.PatientID == patientID {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
