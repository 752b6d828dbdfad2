package quote

import (
	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/filter"
	"weddinghall/internal/domain/pricing"
)

// View is everything a client needs to render a quote.
type View struct {
	SessionID string            `json:"session_id"`
	Company   CompanyView       `json:"company"`
	Hall      *HallView         `json:"hall"`
	Selection filter.Selection  `json:"selection"`
	Estimate  *EstimateView     `json:"estimate"`
	Meals     []MealView        `json:"meals"`
	Options   []OptionView      `json:"options"`
	Breakdown pricing.Breakdown `json:"breakdown"`

	// NoQuote is set when nothing can be priced for the selection.
	NoQuote bool `json:"no_quote"`
	// Discounted is set when prices are compared against the standard tier.
	Discounted bool `json:"discounted"`
}

type CompanyView struct {
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Homepage      string  `json:"homepage,omitempty"`
	Accessibility string  `json:"accessibility,omitempty"`
	Lat           float64 `json:"lat,omitempty"`
	Lng           float64 `json:"lng,omitempty"`
	CeremonyTimes string  `json:"ceremony_times,omitempty"`
}

type HallView struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	Mood            string                `json:"mood,omitempty"`
	TypeTags        []string              `json:"type_tags"`
	Guarantees      int                   `json:"guarantees"`
	IntervalMinutes int                   `json:"interval_minutes"`
	Parking         int                   `json:"parking"`
	Includes        []catalog.HallInclude `json:"includes"`
	Photos          []catalog.HallPhoto   `json:"photos"`
}

type EstimateView struct {
	ID            int64        `json:"id"`
	Tier          catalog.Tier `json:"tier"`
	Date          string       `json:"date,omitempty"`
	Time          string       `json:"time,omitempty"`
	HallPrice     int64        `json:"hall_price"`
	BaselineID    int64        `json:"baseline_id,omitempty"`
	PenaltyAmount int64        `json:"penalty_amount,omitempty"`
	PenaltyDetail string       `json:"penalty_detail,omitempty"`
	Etc           string       `json:"etc,omitempty"`
}

type MealView struct {
	ID            int64  `json:"id"`
	MealType      string `json:"meal_type"`
	Category      string `json:"category"`
	Price         int64  `json:"price"`
	BaselinePrice int64  `json:"baseline_price"`
	Extra         string `json:"extra,omitempty"`
	Billable      bool   `json:"billable"`
	Count         int    `json:"count"`
}

type OptionView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	BaselinePrice int64  `json:"baseline_price"`
	Required      bool   `json:"required"`
	Selected      bool   `json:"selected"`
	Description   string `json:"description,omitempty"`
	ReferenceURL  string `json:"reference_url,omitempty"`
}

// view must be called with s.mu held.
func (s *Session) view() View {
	sel := s.resolver.Selection()
	display, baseline := s.engine.Display(), s.engine.Baseline()
	policy := s.engine.Policy()

	v := View{
		SessionID:  s.ID.String(),
		Selection:  sel,
		Meals:      []MealView{},
		Options:    []OptionView{},
		Breakdown:  s.engine.Breakdown(),
		NoQuote:    display == nil,
		Discounted: display != nil && baseline != nil,
	}

	if s.catalog != nil {
		c := s.catalog.Company()
		v.Company = CompanyView{
			Name:          c.Name,
			Address:       c.Address,
			Phone:         c.Phone,
			Homepage:      c.Homepage,
			Accessibility: c.Accessibility,
			Lat:           c.Lat,
			Lng:           c.Lng,
			CeremonyTimes: c.CeremonyTimes,
		}
		if h, err := s.catalog.Hall(sel.Hall); err == nil {
			v.Hall = newHallView(h)
		}
	}

	if display == nil {
		return v
	}

	v.Estimate = &EstimateView{
		ID:            display.ID,
		Tier:          display.Type,
		Date:          display.Date,
		Time:          display.Time,
		HallPrice:     display.HallPrice,
		PenaltyAmount: display.PenaltyAmount,
		PenaltyDetail: display.PenaltyDetail,
		Etc:           display.FirstEtc(),
	}
	if baseline != nil {
		v.Estimate.BaselineID = baseline.ID
	}

	for _, m := range display.MealPrices {
		v.Meals = append(v.Meals, MealView{
			ID:            m.ID,
			MealType:      m.MealType,
			Category:      m.Category,
			Price:         m.Price,
			BaselinePrice: pricing.BaselineMealPrice(baseline, m),
			Extra:         m.Extra,
			Billable:      policy.Billable(m),
			Count:         s.engine.MealCount(m.ID),
		})
	}
	for _, o := range display.Options {
		v.Options = append(v.Options, OptionView{
			ID:            o.ID,
			Name:          o.Name,
			Price:         o.Price,
			BaselinePrice: pricing.BaselineOptionPrice(baseline, o),
			Required:      o.IsRequired,
			Selected:      o.IsRequired || s.engine.IsSelected(o.ID),
			Description:   o.Description,
			ReferenceURL:  o.ReferenceURL,
		})
	}
	return v
}

func newHallView(h *catalog.Hall) *HallView {
	photos := append([]catalog.HallPhoto{}, h.Photos...)
	return &HallView{
		ID:              h.ID,
		Name:            h.Name,
		Mood:            h.Mood,
		TypeTags:        append([]string{}, h.TypeTags()...),
		Guarantees:      h.Guarantees,
		IntervalMinutes: h.IntervalMinutes,
		Parking:         h.Parking,
		Includes:        append([]catalog.HallInclude{}, h.SortedIncludes()...),
		Photos:          photos,
	}
}
