package catalog

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Store persists catalogs. *Repository satisfies it.
type Store interface {
	GetByName(ctx context.Context, name string) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Replace(ctx context.Context, company *Company) error
}

// ReplaceListener is told when a company's catalog has been replaced.
type ReplaceListener func(ctx context.Context, company string)

type Service struct {
	store Store
	cache SnapshotCache

	mu        sync.RWMutex
	listeners []ReplaceListener
}

func NewService(store Store, cache SnapshotCache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{store: store, cache: cache}
}

func (s *Service) OnReplace(fn ReplaceListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current catalog of a company, cache first.
func (s *Service) Snapshot(ctx context.Context, company string) (*Catalog, error) {
	if payload, ok, err := s.cache.Get(ctx, company); err != nil {
		log.Printf("catalog cache get failed company=%q err=%v", company, err)
	} else if ok {
		cat, err := BuildJSON(payload)
		if err == nil {
			return cat, nil
		}
		log.Printf("catalog cache entry unusable company=%q err=%v", company, err)
	}

	rec, err := s.store.GetByName(ctx, company)
	if err != nil {
		return nil, err
	}

	cat, err := Build([]Company{*rec})
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal([]Company{cat.Record()}); err == nil {
		if err := s.cache.Set(ctx, company, payload); err != nil {
			log.Printf("catalog cache set failed company=%q err=%v", company, err)
		}
	}
	return cat, nil
}

// Import validates a raw catalog document and replaces the stored one.
func (s *Service) Import(ctx context.Context, payload []byte) (*Catalog, error) {
	cat, err := BuildJSON(payload)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, cat)
}

func (s *Service) ImportRecords(ctx context.Context, records []Company) (*Catalog, error) {
	cat, err := Build(records)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, cat)
}

func (s *Service) save(ctx context.Context, cat *Catalog) (*Catalog, error) {
	rec := cat.Record()
	if err := s.store.Replace(ctx, &rec); err != nil {
		return nil, err
	}

	name := rec.Name
	if err := s.cache.Delete(ctx, name); err != nil {
		log.Printf("catalog cache delete failed company=%q err=%v", name, err)
	}
	log.Printf("catalog imported company=%q halls=%d", name, len(rec.Halls))

	s.mu.RLock()
	listeners := append([]ReplaceListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, name)
	}
	return cat, nil
}

func (s *Service) List(ctx context.Context) ([]CompanySummary, error) {
	companies, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CompanySummary, 0, len(companies))
	for _, c := range companies {
		sum := CompanySummary{ID: c.ID, Name: c.Name, Address: c.Address, HallNames: []string{}}
		for _, h := range c.Halls {
			sum.HallNames = append(sum.HallNames, h.Name)
		}
		out = append(out, sum)
	}
	return out, nil
}
