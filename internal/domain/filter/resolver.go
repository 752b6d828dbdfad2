// Package filter resolves the hall, date and tier a quote is shown for.
//
// Every setter re-runs the whole hall -> date -> tier cascade before it
// returns, so a Selection is never observed half updated. A selection keeps
// its value for as long as it stays valid, whether the user picked it or it
// was a default. Only an empty or invalidated value is replaced by the
// default, and doing so clears the dimension's override flag.
package filter

import (
	"slices"

	"weddinghall/internal/domain/catalog"
)

// Selection is a consistent snapshot of the resolver state.
type Selection struct {
	Hall string       `json:"hall"`
	Date string       `json:"date"`
	Tier catalog.Tier `json:"tier"`

	HallNames []string       `json:"hall_names"`
	Dates     []string       `json:"dates"`
	Tiers     []catalog.Tier `json:"tiers"`

	Overrides Overrides `json:"overrides"`

	// Standard and Admin are the candidates for the current hall and date.
	Standard *catalog.Estimate `json:"-"`
	Admin    *catalog.Estimate `json:"-"`
	Display  *catalog.Estimate `json:"-"`
	Baseline *catalog.Estimate `json:"-"`
}

// Overrides reports which dimensions hold an explicit user choice.
type Overrides struct {
	Hall bool `json:"hall"`
	Date bool `json:"date"`
	Tier bool `json:"tier"`
}

type Resolver struct {
	catalog *catalog.Catalog

	hall *catalog.Hall
	date string
	tier catalog.Tier

	dates []string
	tiers []catalog.Tier

	overrides Overrides
}

func NewResolver(c *catalog.Catalog) *Resolver {
	r := &Resolver{}
	r.Reset(c)
	return r
}

// Reset drops every selection and resolves defaults against c.
// A nil catalog leaves everything empty.
func (r *Resolver) Reset(c *catalog.Catalog) {
	*r = Resolver{catalog: c}
	r.cascade("", "", "")
}

func (r *Resolver) Catalog() *catalog.Catalog {
	return r.catalog
}

// SetHall selects a hall by name. An unknown name falls back to the first
// hall and reports false.
func (r *Resolver) SetHall(name string) bool {
	r.overrides.Hall = true
	r.cascade(name, r.date, r.tier)
	return r.overrides.Hall && r.hallName() == name
}

// SetDate selects a date of the current hall. A date the hall does not
// offer falls back to the default date and reports false.
func (r *Resolver) SetDate(date string) bool {
	r.overrides.Date = true
	r.cascade(r.hallName(), date, r.tier)
	return r.overrides.Date && r.date == date
}

// SetTier selects a tier. A tier not selectable on the current date falls
// back to the default tier and reports false.
func (r *Resolver) SetTier(t catalog.Tier) bool {
	r.overrides.Tier = true
	r.cascade(r.hallName(), r.date, t)
	return r.overrides.Tier && r.tier == t
}

func (r *Resolver) hallName() string {
	if r.hall == nil {
		return ""
	}
	return r.hall.Name
}

func (r *Resolver) cascade(hall, date string, tier catalog.Tier) {
	r.resolveHall(hall)
	r.resolveDate(date)
	r.resolveTier(tier)
}

func (r *Resolver) resolveHall(name string) {
	r.hall = nil
	if r.catalog == nil {
		r.overrides.Hall = false
		return
	}
	if name != "" {
		if h, err := r.catalog.Hall(name); err == nil {
			r.hall = h
			return
		}
	}
	r.overrides.Hall = false
	r.hall = r.catalog.FirstHall()
}

func (r *Resolver) resolveDate(date string) {
	if r.hall == nil {
		r.dates = nil
		r.date = ""
		r.overrides.Date = false
		return
	}

	r.dates = r.hall.Dates()
	if date != "" && slices.Contains(r.dates, date) {
		r.date = date
		return
	}
	r.overrides.Date = false
	r.date = defaultDate(r.hall, r.dates)
}

func (r *Resolver) resolveTier(tier catalog.Tier) {
	if r.hall == nil {
		r.tiers = nil
		r.tier = ""
		r.overrides.Tier = false
		return
	}

	r.tiers = r.hall.SelectableTiers(r.date)
	if tier != "" && slices.Contains(r.tiers, tier) {
		r.tier = tier
		return
	}
	r.overrides.Tier = false
	r.tier = defaultTier(r.tiers)
}

// defaultDate prefers the earliest date with an admin estimate, then the
// earliest date of any tier.
func defaultDate(h *catalog.Hall, dates []string) string {
	for _, d := range dates {
		if h.HasAdminOn(d) {
			return d
		}
	}
	if len(dates) > 0 {
		return dates[0]
	}
	return ""
}

func defaultTier(tiers []catalog.Tier) catalog.Tier {
	for _, preferred := range []catalog.Tier{catalog.TierAdmin, catalog.TierStandard} {
		if slices.Contains(tiers, preferred) {
			return preferred
		}
	}
	if len(tiers) > 0 {
		return tiers[0]
	}
	return ""
}

// Selection returns the resolved state with the display and baseline
// estimates picked for it.
func (r *Resolver) Selection() Selection {
	sel := Selection{
		Hall:      r.hallName(),
		Date:      r.date,
		Tier:      r.tier,
		HallNames: []string{},
		Dates:     append([]string{}, r.dates...),
		Tiers:     append([]catalog.Tier{}, r.tiers...),
		Overrides: r.overrides,
	}
	if r.catalog != nil {
		sel.HallNames = r.catalog.HallNames()
	}
	if r.hall == nil {
		return sel
	}

	sel.Standard = r.hall.StandardEstimate()
	sel.Admin = r.hall.AdminEstimate(r.date)
	sel.Display, sel.Baseline = pick(r.tier, sel.Standard, sel.Admin)
	return sel
}

// pick chooses what to show for a tier. A baseline exists only when a
// discounted admin estimate is shown and a standard one can be compared.
func pick(tier catalog.Tier, standard, admin *catalog.Estimate) (display, baseline *catalog.Estimate) {
	switch tier {
	case catalog.TierAdmin:
		if admin == nil {
			return standard, nil
		}
		return admin, standard
	case catalog.TierStandard:
		return standard, nil
	default:
		return standard, nil
	}
}
