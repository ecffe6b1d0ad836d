// Package memory provides an in-process implementation of every
// repository interface, with the same uniqueness and referential rules the
// PostgreSQL schema enforces. It backs unit tests and throwaway
// environments.
package memory

import (
	"sort"
	"sync"

	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/donation"
	"github.com/mesikahq/gestion-salud/internal/encounter"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
)

// Store holds every collection behind one mutex. Cross-collection rules
// (cascades, restrics, link clearing) run inside a single critical
// section, mirroring what the database does in one transaction.
type Store struct {
	mu     sync.Mutex
	nextID int64

	entries      map[catalog.Kind]map[int64]catalog.Entry
	disabilities map[int64]catalog.DisabilityType

	providers map[int64]provider.Provider

	patients            map[int64]patient.Patient
	nationalities       map[int64]patient.Nationality
	patientDisabilities map[int64]patient.Disability

	directives  map[int64]directive.Directive
	oppositions map[int64]donation.Opposition
	encounters  map[int64]encounter.Encounter

	markers map[string]bool
	users   map[string]userAccount
	vault   map[string]vaultEntry
}

type userAccount struct {
	Username string
	Email    string
	Roles    []string
}

type vaultEntry struct {
	Filename string
	Data     []byte
}

func NewStore() *Store {
	s := &Store{
		entries:             make(map[catalog.Kind]map[int64]catalog.Entry),
		disabilities:        make(map[int64]catalog.DisabilityType),
		providers:           make(map[int64]provider.Provider),
		patients:            make(map[int64]patient.Patient),
		nationalities:       make(map[int64]patient.Nationality),
		patientDisabilities: make(map[int64]patient.Disability),
		directives:          make(map[int64]directive.Directive),
		oppositions:         make(map[int64]donation.Opposition),
		encounters:          make(map[int64]encounter.Encounter),
		markers:             make(map[string]bool),
		users:               make(map[string]userAccount),
		vault:               make(map[string]vaultEntry),
	}
	for _, kind := range catalog.Kinds() {
		s.entries[kind] = make(map[int64]catalog.Entry)
	}
	return s
}

func (s *Store) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedEntries(m map[int64]catalog.Entry) []*catalog.Entry {
	out := make([]*catalog.Entry, 0, len(m))
	for id := range m {
		e := m[id]
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return out
}
