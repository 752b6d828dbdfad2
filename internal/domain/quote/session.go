package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/filter"
	"weddinghall/internal/domain/pricing"
)

type Op string

const (
	OpSetHall      Op = "set_hall"
	OpSetDate      Op = "set_date"
	OpSetTier      Op = "set_tier"
	OpSetMealCount Op = "set_meal_count"
	OpToggleOption Op = "toggle_option"
)

// Command is one user interaction with a quote.
type Command struct {
	Op       Op         `json:"op"`
	Value    string     `json:"value,omitempty"`
	MealID   int64      `json:"meal_id,omitempty"`
	OptionID int64      `json:"option_id,omitempty"`
	Count    CountInput `json:"count,omitempty"`
}

// CountInput accepts a head count sent either as a JSON number or as the
// raw text of an input field.
type CountInput string

func (c *CountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CountInput(s)
	default:
		*c = CountInput(data)
	}
	return nil
}

// Session is one user's quote: filter state plus pricing input, always
// consistent with each other. Methods are safe for concurrent use.
type Session struct {
	ID      uuid.UUID
	company string

	mu       sync.Mutex
	catalog  *catalog.Catalog
	resolver *filter.Resolver
	engine   *pricing.Engine

	// hall the engine input belongs to
	pricedHall string
}

func NewSession(cat *catalog.Catalog, policy pricing.MealPolicy) *Session {
	s := &Session{
		ID:       uuid.New(),
		catalog:  cat,
		resolver: filter.NewResolver(cat),
		engine:   pricing.NewEngine(policy),
	}
	if cat != nil {
		s.company = cat.Company().Name
	}
	s.sync(true)
	return s
}

func (s *Session) Company() string {
	return s.company
}

// Apply runs a command and reports whether it was accepted as given.
// Unknown halls, dates and tiers fall back to defaults and report false.
func (s *Session) Apply(cmd Command) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(cmd)
}

// ApplyAll runs commands in order and returns the resulting view. It stops
// at the first unknown operation.
func (s *Session) ApplyAll(cmds ...Command) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cmd := range cmds {
		if _, err := s.apply(cmd); err != nil {
			return View{}, err
		}
	}
	return s.view(), nil
}

func (s *Session) apply(cmd Command) (bool, error) {
	switch cmd.Op {
	case OpSetHall:
		ok := s.resolver.SetHall(strings.TrimSpace(cmd.Value))
		s.sync(false)
		return ok, nil
	case OpSetDate:
		ok := s.resolver.SetDate(strings.TrimSpace(cmd.Value))
		s.sync(false)
		return ok, nil
	case OpSetTier:
		ok := s.resolver.SetTier(catalog.Tier(strings.ToLower(strings.TrimSpace(cmd.Value))))
		s.sync(false)
		return ok, nil
	case OpSetMealCount:
		return s.engine.SetMealCountInput(cmd.MealID, string(cmd.Count)), nil
	case OpToggleOption:
		return s.engine.ToggleOption(cmd.OptionID), nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

func (s *Session) SetHall(name string) bool {
	ok, _ := s.Apply(Command{Op: OpSetHall, Value: name})
	return ok
}

func (s *Session) SetDate(date string) bool {
	ok, _ := s.Apply(Command{Op: OpSetDate, Value: date})
	return ok
}

func (s *Session) SetTier(t catalog.Tier) bool {
	ok, _ := s.Apply(Command{Op: OpSetTier, Value: string(t)})
	return ok
}

func (s *Session) SetMealCount(mealID int64, count int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetMealCount(mealID, count)
}

func (s *Session) ToggleOption(optionID int64) bool {
	ok, _ := s.Apply(Command{Op: OpToggleOption, OptionID: optionID})
	return ok
}

// ReplaceCatalog swaps in a freshly loaded catalog. All selections and
// pricing input are dropped and defaults resolved from scratch.
func (s *Session) ReplaceCatalog(cat *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = cat
	s.resolver.Reset(cat)
	s.sync(true)
}

// sync resets pricing input when the hall or the displayed estimate moved.
func (s *Session) sync(force bool) {
	sel := s.resolver.Selection()
	if force || sel.Hall != s.pricedHall || sel.Display != s.engine.Display() {
		s.engine.Reset(sel.Display, sel.Baseline)
		s.pricedHall = sel.Hall
	}
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}
