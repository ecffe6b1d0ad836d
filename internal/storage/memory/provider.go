package memory

import (
	"context"
	"sort"

	"github.com/mesikahq/gestion-salud/internal/provider"
)

type providerRepo struct {
	s *Store
}

// Providers returns the provider registry view of the store.
func (s *Store) Providers() provider.Repository {
	return &providerRepo{s: s}
}

var _ provider.Repository = (*providerRepo)(nil)

func (r *providerRepo) Create(_ context.Context, p *provider.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.nextSeq()
	r.s.providers[p.ID] = *p
	return nil
}

func (r *providerRepo) GetByID(_ context.Context, id int64) (*provider.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.providers[id]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return &p, nil
}

func (r *providerRepo) Update(_ context.Context, p *provider.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[p.ID]; !ok {
		return provider.ErrNotFound
	}
	r.s.providers[p.ID] = *p
	return nil
}

func (r *providerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[id]; !ok {
		return provider.ErrNotFound
	}
	for _, p := range r.s.patients {
		if p.ProviderID == id {
			return provider.ErrInUse
		}
	}
	for _, d := range r.s.directives {
		if d.ProviderID == id {
			return provider.ErrInUse
		}
	}
	for _, e := range r.s.encounters {
		if e.ProviderID == id {
			return provider.ErrInUse
		}
	}
	delete(r.s.providers, id)
	return nil
}

func (r *providerRepo) List(_ context.Context, limit, offset int) ([]*provider.Provider, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := make([]*provider.Provider, 0, len(r.s.providers))
	for id := range r.s.providers {
		p := r.s.providers[id]
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, limit, offset), len(all), nil
}
