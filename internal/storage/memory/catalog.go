package memory

import (
	"context"
	"sort"

	"github.com/mesikahq/gestion-salud/internal/catalog"
)

var _ catalog.Repository = (*Store)(nil)

// Catalogs returns the reference-catalog view of the store.
func (s *Store) Catalogs() catalog.Repository {
	return s
}

func (s *Store) CreateEntry(_ context.Context, kind catalog.Kind, e *catalog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[kind]
	if !ok {
		return catalog.ErrUnknownKind
	}
	e.ID = s.nextSeq()
	m[e.ID] = *e
	return nil
}

func (s *Store) GetEntry(_ context.Context, kind catalog.Kind, id int64) (*catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[kind]
	if !ok {
		return nil, catalog.ErrUnknownKind
	}
	e, ok := m[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &e, nil
}

func (s *Store) UpdateEntry(_ context.Context, kind catalog.Kind, e *catalog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[kind]
	if !ok {
		return catalog.ErrUnknownKind
	}
	if _, ok := m[e.ID]; !ok {
		return catalog.ErrNotFound
	}
	m[e.ID] = *e
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, kind catalog.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[kind]
	if !ok {
		return catalog.ErrUnknownKind
	}
	if _, ok := m[id]; !ok {
		return catalog.ErrNotFound
	}
	if s.entryInUse(kind, id) {
		return catalog.ErrInUse
	}
	if kind == catalog.KindRareDisease {
		// Optional reference: encounters keep working without it.
		for eid, e := range s.encounters {
			if e.OrphanDiseaseID != nil && *e.OrphanDiseaseID == id {
				e.OrphanDiseaseID = nil
				s.encounters[eid] = e
			}
		}
	}
	delete(m, id)
	return nil
}

func (s *Store) entryInUse(kind catalog.Kind, id int64) bool {
	switch kind {
	case catalog.KindCountry:
		for _, p := range s.patients {
			if p.CountryID == id {
				return true
			}
		}
		for _, n := range s.nationalities {
			if n.CountryID == id {
				return true
			}
		}
	case catalog.KindCity:
		for _, p := range s.patients {
			if p.CityID == id {
				return true
			}
		}
	case catalog.KindOccupation:
		for _, p := range s.patients {
			if p.OccupationID == id {
				return true
			}
		}
	case catalog.KindEthnicCommunity:
		for _, p := range s.patients {
			if p.EthnicCommunityID == id {
				return true
			}
		}
	case catalog.KindEthnicity:
		for _, p := range s.patients {
			if p.EthnicityID == id {
				return true
			}
		}
	case catalog.KindCauseOfVisit:
		for _, e := range s.encounters {
			if e.CauseID == id {
				return true
			}
		}
	case catalog.KindAdmissionRoute:
		for _, e := range s.encounters {
			if e.AdmissionRoute == id {
				return true
			}
		}
	case catalog.KindServiceModality:
		for _, e := range s.encounters {
			if e.ModalityID == id {
				return true
			}
		}
	case catalog.KindDiagnosis:
		for _, e := range s.encounters {
			if e.DiagnosisCodeID == id {
				return true
			}
		}
	case catalog.KindRareDisease:
		// Cleared, not restricted.
	}
	return false
}

func (s *Store) ListEntries(_ context.Context, kind catalog.Kind) ([]*catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[kind]
	if !ok {
		return nil, catalog.ErrUnknownKind
	}
	return sortedEntries(m), nil
}

func (s *Store) CountEntries(_ context.Context, kind catalog.Kind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.entries[kind]
	if !ok {
		return 0, catalog.ErrUnknownKind
	}
	return int64(len(m)), nil
}

func (s *Store) CreateDisabilityType(_ context.Context, d *catalog.DisabilityType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = s.nextSeq()
	s.disabilities[d.ID] = *d
	return nil
}

func (s *Store) GetDisabilityType(_ context.Context, id int64) (*catalog.DisabilityType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disabilities[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &d, nil
}

func (s *Store) UpdateDisabilityType(_ context.Context, d *catalog.DisabilityType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.disabilities[d.ID]; !ok {
		return catalog.ErrNotFound
	}
	s.disabilities[d.ID] = *d
	return nil
}

func (s *Store) DeleteDisabilityType(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.disabilities[id]; !ok {
		return catalog.ErrNotFound
	}
	for _, pd := range s.patientDisabilities {
		if pd.DisabilityID == id {
			return catalog.ErrInUse
		}
	}
	delete(s.disabilities, id)
	return nil
}

func (s *Store) ListDisabilityTypes(_ context.Context) ([]*catalog.DisabilityType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*catalog.DisabilityType, 0, len(s.disabilities))
	for id := range s.disabilities {
		d := s.disabilities[id]
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryCode < out[j].CategoryCode })
	return out, nil
}

func (s *Store) CountDisabilityTypes(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.disabilities)), nil
}
