// SPDX-License-Identifier: MIT

// Package poi provides read-only POI lookup by city. Implementations must
// return candidates in a stable order so ranking stays deterministic across
// identical requests.
package poi

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tripstep/tripstep/internal/domain"
)

// Store is the read-only candidate source.
type Store interface {
	// ListInCity returns up to limit POIs for the city, in a stable order.
	ListInCity(ctx context.Context, city string, limit int) ([]domain.POI, error)
	// Find resolves a POI by exact id or name within the city.
	Find(ctx context.Context, city, idOrName string) (domain.POI, error)
}

// MemoryStore serves a fixed in-memory dataset. Safe for concurrent reads.
type MemoryStore struct {
	mu     sync.RWMutex
	byCity map[string][]domain.POI
}

// NewMemoryStore builds a store over the given POIs, grouped by city and
// sorted by id.
func NewMemoryStore(pois []domain.POI) *MemoryStore {
	s := &MemoryStore{byCity: make(map[string][]domain.POI)}
	for _, p := range pois {
		s.byCity[p.City] = append(s.byCity[p.City], p)
	}
	for city := range s.byCity {
		list := s.byCity[city]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return s
}

// Add inserts a POI, keeping city order stable.
func (s *MemoryStore) Add(p domain.POI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.byCity[p.City], p)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	s.byCity[p.City] = list
}

func (s *MemoryStore) ListInCity(_ context.Context, city string, limit int) ([]domain.POI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byCity[city]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]domain.POI, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Find(_ context.Context, city, idOrName string) (domain.POI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byCity[city] {
		if p.ID == idOrName || p.Name == idOrName {
			return p, nil
		}
	}
	return domain.POI{}, domain.NewReasonError(domain.RInvalidInput, "unknown POI "+idOrName+" in "+city, nil)
}

// CollapsingStore wraps a Store and collapses concurrent identical city
// fetches into one upstream call.
type CollapsingStore struct {
	inner Store
	group singleflight.Group
}

// NewCollapsingStore wraps inner with per-city request coalescing.
func NewCollapsingStore(inner Store) *CollapsingStore {
	return &CollapsingStore{inner: inner}
}

func (s *CollapsingStore) ListInCity(ctx context.Context, city string, limit int) ([]domain.POI, error) {
	v, err, _ := s.group.Do(city, func() (any, error) {
		return s.inner.ListInCity(ctx, city, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.POI), nil
}

func (s *CollapsingStore) Find(ctx context.Context, city, idOrName string) (domain.POI, error) {
	return s.inner.Find(ctx, city, idOrName)
}
