package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"weddinghall/internal/pkg/validator"
)

// Catalog is the immutable read model over one company's raw records.
// Callers must not mutate the halls or estimates it hands out.
type Catalog struct {
	company Company
	halls   []Hall
	names   []string
}

// BuildJSON decodes a raw catalog document and builds it.
func BuildJSON(data []byte) (*Catalog, error) {
	var records []Company
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, malformed("", "root must be an array of company records: %v", err)
	}
	return Build(records)
}

// Build validates records and merges them into one catalog. Company identity
// comes from the first record; halls are taken from every record in order.
func Build(records []Company) (*Catalog, error) {
	if len(records) == 0 {
		return nil, malformed("", "catalog must contain at least one company record")
	}

	for i := range records {
		if err := checkRecord(i, &records[i]); err != nil {
			return nil, err
		}
	}

	c := &Catalog{company: records[0]}
	c.company.Halls = nil

	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, h := range rec.Halls {
			c.halls = append(c.halls, positioned(h, len(c.halls)))
			if _, ok := seen[h.Name]; ok {
				continue
			}
			seen[h.Name] = struct{}{}
			c.names = append(c.names, h.Name)
		}
	}
	return c, nil
}

// positioned copies h with every child stamped with its index, so the
// stored catalog reloads in document order whatever its ids are.
func positioned(h Hall, pos int) Hall {
	h.Position = pos
	h.Includes = slices.Clone(h.Includes)
	for i := range h.Includes {
		h.Includes[i].Position = i
	}
	h.Estimates = slices.Clone(h.Estimates)
	for i := range h.Estimates {
		e := &h.Estimates[i]
		e.Position = i
		e.MealPrices = slices.Clone(e.MealPrices)
		for j := range e.MealPrices {
			e.MealPrices[j].Position = j
		}
		e.Options = slices.Clone(e.Options)
		for j := range e.Options {
			e.Options[j].Position = j
		}
		e.Etcs = slices.Clone(e.Etcs)
		for j := range e.Etcs {
			e.Etcs[j].Position = j
		}
	}
	return h
}

func checkRecord(i int, rec *Company) error {
	if errs := validator.Validate(rec); len(errs) > 0 {
		field, tag := validator.First(errs)
		return malformed(fmt.Sprintf("[%d].%s", i, field), "failed %q check", tag)
	}

	for hi, h := range rec.Halls {
		adminDates := make(map[string]struct{})
		for ei, e := range h.Estimates {
			if e.Type != TierAdmin {
				continue
			}
			path := fmt.Sprintf("[%d].halls[%d].estimates[%d].date", i, hi, ei)
			if e.Date == "" {
				return malformed(path, "admin estimate requires a date")
			}
			if _, dup := adminDates[e.Date]; dup {
				return malformed(path, "duplicate admin estimate for %s", e.Date)
			}
			adminDates[e.Date] = struct{}{}
		}
	}
	return nil
}

// Company returns the company identity without halls.
func (c *Catalog) Company() Company {
	return c.company
}

// Record returns the merged company with all halls, as persisted.
func (c *Catalog) Record() Company {
	rec := c.company
	rec.Halls = append([]Hall(nil), c.halls...)
	return rec
}

// HallNames lists hall names, first occurrence wins.
func (c *Catalog) HallNames() []string {
	return append([]string(nil), c.names...)
}

// Hall returns the first hall with the given name.
func (c *Catalog) Hall(name string) (*Hall, error) {
	for i := range c.halls {
		if c.halls[i].Name == name {
			return &c.halls[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrHallNotFound, name)
}

// FirstHall returns nil for a catalog without halls.
func (c *Catalog) FirstHall() *Hall {
	if len(c.halls) == 0 {
		return nil
	}
	return &c.halls[0]
}

func (c *Catalog) EstimatesOfType(hall string, t Tier) ([]*Estimate, error) {
	h, err := c.Hall(hall)
	if err != nil {
		return nil, err
	}
	return h.EstimatesOfType(t), nil
}

func (c *Catalog) DatesOfHall(hall string) ([]string, error) {
	h, err := c.Hall(hall)
	if err != nil {
		return nil, err
	}
	return h.Dates(), nil
}

func (h *Hall) EstimatesOfType(t Tier) []*Estimate {
	var out []*Estimate
	for i := range h.Estimates {
		if h.Estimates[i].Type == t {
			out = append(out, &h.Estimates[i])
		}
	}
	return out
}

// Dates returns distinct non-empty estimate dates of every tier, ascending.
func (h *Hall) Dates() []string {
	seen := make(map[string]struct{})
	var dates []string
	for _, e := range h.Estimates {
		if e.Date == "" {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		dates = append(dates, e.Date)
	}
	sort.Strings(dates)
	return dates
}

// StandardEstimate returns the first standard estimate, or nil.
func (h *Hall) StandardEstimate() *Estimate {
	for i := range h.Estimates {
		if h.Estimates[i].Type == TierStandard {
			return &h.Estimates[i]
		}
	}
	return nil
}

// AdminEstimate returns the first admin estimate on date, or nil.
func (h *Hall) AdminEstimate(date string) *Estimate {
	if date == "" {
		return nil
	}
	for i := range h.Estimates {
		e := &h.Estimates[i]
		if e.Type == TierAdmin && e.Date == date {
			return e
		}
	}
	return nil
}

func (h *Hall) HasAdminOn(date string) bool {
	return h.AdminEstimate(date) != nil
}

// SelectableTiers returns the tiers available on date, standard first.
func (h *Hall) SelectableTiers(date string) []Tier {
	var tiers []Tier
	for _, t := range ValidTiers() {
		switch t {
		case TierStandard:
			if h.StandardEstimate() != nil {
				tiers = append(tiers, t)
			}
		case TierAdmin:
			if h.HasAdminOn(date) {
				tiers = append(tiers, t)
			}
		}
	}
	return tiers
}

// TypeTags splits the comma separated hall type.
func (h *Hall) TypeTags() []string {
	var tags []string
	for _, part := range strings.Split(h.Type, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SortedIncludes orders included services by category.
func (h *Hall) SortedIncludes() []HallInclude {
	out := append([]HallInclude(nil), h.Includes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// FirstEtc returns the content of the first etc note, if any.
func (e *Estimate) FirstEtc() string {
	if e == nil || len(e.Etcs) == 0 {
		return ""
	}
	return e.Etcs[0].Content
}

// Option looks up an option of the estimate by id.
func (e *Estimate) Option(id int64) (*EstimateOption, bool) {
	for i := range e.Options {
		if e.Options[i].ID == id {
			return &e.Options[i], true
		}
	}
	return nil, false
}

// Meal looks up a meal line of the estimate by id.
func (e *Estimate) Meal(id int64) (*MealPrice, bool) {
	for i := range e.MealPrices {
		if e.MealPrices[i].ID == id {
			return &e.MealPrices[i], true
		}
	}
	return nil, false
}
