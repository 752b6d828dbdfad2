package quote

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/pricing"
)

// CatalogSource hands out immutable catalog snapshots. *catalog.Service
// satisfies it.
type CatalogSource interface {
	Snapshot(ctx context.Context, company string) (*catalog.Catalog, error)
}

type Service struct {
	catalogs CatalogSource
	store    *Store
	hub      *Hub
	policy   pricing.MealPolicy
}

func NewService(catalogs CatalogSource, store *Store, hub *Hub, policy pricing.MealPolicy) *Service {
	return &Service{
		catalogs: catalogs,
		store:    store,
		hub:      hub,
		policy:   policy,
	}
}

// Open starts a quote for a company with default selections.
func (s *Service) Open(ctx context.Context, company string) (View, error) {
	cat, err := s.catalogs.Snapshot(ctx, company)
	if err != nil {
		return View{}, err
	}
	sess := NewSession(cat, s.policy)
	s.store.Put(sess)
	log.Printf("quote session opened id=%s company=%q", sess.ID, company)
	return sess.View(), nil
}

func (s *Service) Get(_ context.Context, id uuid.UUID) (View, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	return sess.View(), nil
}

// Apply runs a command on a live session and pushes the new view to its
// websocket clients.
func (s *Service) Apply(_ context.Context, id uuid.UUID, cmd Command) (View, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	view, err := sess.ApplyAll(cmd)
	if err != nil {
		return View{}, err
	}
	s.publish(id, view)
	return view, nil
}

func (s *Service) Close(_ context.Context, id uuid.UUID) error {
	if !s.store.Delete(id) {
		return ErrSessionNotFound
	}
	s.hub.CloseSession(id)
	log.Printf("quote session closed id=%s", id)
	return nil
}

// CalculateRequest describes a whole quote at once.
type CalculateRequest struct {
	Company    string               `json:"company" binding:"required"`
	Hall       string               `json:"hall,omitempty"`
	Date       string               `json:"date,omitempty"`
	Tier       string               `json:"tier,omitempty"`
	MealCounts map[int64]CountInput `json:"meal_counts,omitempty"`
	OptionIDs  []int64              `json:"option_ids,omitempty"`
}

// Calculate prices a quote without keeping a session.
func (s *Service) Calculate(ctx context.Context, req CalculateRequest) (View, error) {
	cat, err := s.catalogs.Snapshot(ctx, req.Company)
	if err != nil {
		return View{}, err
	}
	view, err := NewSession(cat, s.policy).ApplyAll(req.Commands()...)
	if err != nil {
		return View{}, err
	}
	view.SessionID = ""
	return view, nil
}

// Commands replays the request as filter changes first, then meal counts in
// id order, then option toggles. Duplicate option ids count once.
func (r CalculateRequest) Commands() []Command {
	var cmds []Command
	if r.Hall != "" {
		cmds = append(cmds, Command{Op: OpSetHall, Value: r.Hall})
	}
	if r.Date != "" {
		cmds = append(cmds, Command{Op: OpSetDate, Value: r.Date})
	}
	if r.Tier != "" {
		cmds = append(cmds, Command{Op: OpSetTier, Value: r.Tier})
	}

	mealIDs := make([]int64, 0, len(r.MealCounts))
	for id := range r.MealCounts {
		mealIDs = append(mealIDs, id)
	}
	sort.Slice(mealIDs, func(i, j int) bool { return mealIDs[i] < mealIDs[j] })
	for _, id := range mealIDs {
		cmds = append(cmds, Command{Op: OpSetMealCount, MealID: id, Count: r.MealCounts[id]})
	}

	seen := make(map[int64]bool, len(r.OptionIDs))
	for _, id := range r.OptionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		cmds = append(cmds, Command{Op: OpToggleOption, OptionID: id})
	}
	return cmds
}

// RefreshCompany resets every live session of a company onto its newly
// stored catalog. Registered as a catalog replace listener.
func (s *Service) RefreshCompany(ctx context.Context, company string) {
	sessions := s.store.ByCompany(company)
	if len(sessions) == 0 {
		return
	}
	cat, err := s.catalogs.Snapshot(ctx, company)
	if err != nil {
		log.Printf("quote refresh failed company=%q err=%v", company, err)
		return
	}
	for _, sess := range sessions {
		sess.ReplaceCatalog(cat)
		s.publish(sess.ID, sess.View())
	}
	log.Printf("quote sessions refreshed company=%q count=%d", company, len(sessions))
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Println("Quote session janitor is disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Quote session janitor started with interval %v", interval)
	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-ctx.Done():
			log.Println("Quote session janitor stopped")
			return
		}
	}
}

func (s *Service) evictExpired() int {
	ids := s.store.Evict()
	for _, id := range ids {
		s.hub.CloseSession(id)
	}
	if len(ids) > 0 {
		log.Printf("quote sessions evicted count=%d", len(ids))
	}
	return len(ids)
}

// Subscribe attaches a websocket client to a live session.
func (s *Service) Subscribe(ctx context.Context, id uuid.UUID, conn *websocket.Conn) error {
	view, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	initial := &Event{Type: EventQuoteView, SessionID: id.String(), Payload: view}
	s.hub.ServeWS(conn, id, initial, func(cmd Command) error {
		_, err := s.Apply(ctx, id, cmd)
		return err
	})
	return nil
}

func (s *Service) publish(id uuid.UUID, view View) {
	s.hub.Broadcast(id, &Event{Type: EventQuoteView, SessionID: id.String(), Payload: view})
}
