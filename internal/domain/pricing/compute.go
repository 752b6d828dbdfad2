package pricing

import (
	"math"

	"weddinghall/internal/domain/catalog"
)

type LineKind string

const (
	LineHallFee LineKind = "hall_fee"
	LineMeal    LineKind = "meal"
	LineOption  LineKind = "option"
)

// Line is one priced row. Costs are in the smallest currency unit.
type Line struct {
	Kind     LineKind `json:"kind"`
	RefID    int64    `json:"ref_id,omitempty"`
	Label    string   `json:"label"`
	Category string   `json:"category,omitempty"`
	Required bool     `json:"required,omitempty"`

	Quantity          int   `json:"quantity"`
	UnitPriceDisplay  int64 `json:"unit_price_display"`
	UnitPriceBaseline int64 `json:"unit_price_baseline"`
	LineDisplayCost   int64 `json:"line_display_cost"`
	LineBaselineCost  int64 `json:"line_baseline_cost"`
	LineDiscount      int64 `json:"line_discount"`
	DiscountPercent   int   `json:"discount_percent"`
}

type Breakdown struct {
	HallFee *Line  `json:"hall_fee"`
	Meals   []Line `json:"meals"`
	Options []Line `json:"options"`

	TotalDisplayCost  int64 `json:"total_display_cost"`
	TotalBaselineCost int64 `json:"total_baseline_cost"`
	TotalDiscount     int64 `json:"total_discount"`
	DiscountPercent   int   `json:"discount_percent"`

	// HasBaseline is true when costs are compared against a standard estimate.
	HasBaseline bool `json:"has_baseline"`
	// Empty is true when there is no estimate to price.
	Empty bool `json:"empty"`
}

// Input is everything a breakdown depends on.
type Input struct {
	Display  *catalog.Estimate
	Baseline *catalog.Estimate

	MealCounts      map[int64]int
	SelectedOptions map[int64]bool
	Policy          MealPolicy
}

// Compute prices a quote. It never fails: without a display estimate the
// breakdown is empty and all totals are zero.
func Compute(in Input) Breakdown {
	b := Breakdown{Meals: []Line{}, Options: []Line{}}
	if in.Display == nil {
		b.Empty = true
		return b
	}
	b.HasBaseline = in.Baseline != nil

	hallBaseline := in.Display.HallPrice
	if in.Baseline != nil {
		hallBaseline = in.Baseline.HallPrice
	}
	fee := newLine(LineHallFee, 1, in.Display.HallPrice, hallBaseline)
	fee.Label = "Hall fee"
	b.HallFee = &fee

	for _, m := range in.Policy.BillableMeals(in.Display) {
		line := newLine(LineMeal, in.MealCounts[m.ID], m.Price, BaselineMealPrice(in.Baseline, m))
		line.RefID = m.ID
		line.Label = m.MealType
		line.Category = m.Category
		b.Meals = append(b.Meals, line)
	}

	for _, o := range in.Display.Options {
		if !o.IsRequired && !in.SelectedOptions[o.ID] {
			continue
		}
		line := newLine(LineOption, 1, o.Price, BaselineOptionPrice(in.Baseline, o))
		line.RefID = o.ID
		line.Label = o.Name
		line.Required = o.IsRequired
		b.Options = append(b.Options, line)
	}

	for _, l := range b.Lines() {
		b.TotalDisplayCost = addSat(b.TotalDisplayCost, l.LineDisplayCost)
		b.TotalBaselineCost = addSat(b.TotalBaselineCost, l.LineBaselineCost)
	}
	b.TotalDiscount = nonNegative(b.TotalBaselineCost - b.TotalDisplayCost)
	b.DiscountPercent = percent(b.TotalDiscount, b.TotalBaselineCost)
	return b
}

// Lines returns every charged line, hall fee first.
func (b Breakdown) Lines() []Line {
	var out []Line
	if b.HallFee != nil {
		out = append(out, *b.HallFee)
	}
	out = append(out, b.Meals...)
	return append(out, b.Options...)
}

// BaselineMealPrice finds the unit price to compare a meal line against.
// Meal ids are assigned per estimate, so lines are matched by category and
// the first baseline meal of that category wins. Without a baseline or a
// matching category the display price is its own baseline.
func BaselineMealPrice(baseline *catalog.Estimate, m catalog.MealPrice) int64 {
	if baseline == nil {
		return m.Price
	}
	for _, bm := range baseline.MealPrices {
		if bm.Category == m.Category {
			return bm.Price
		}
	}
	return m.Price
}

// BaselineOptionPrice matches an option on the baseline by id, then by
// exact name. Without a match the display price is its own baseline.
func BaselineOptionPrice(baseline *catalog.Estimate, o catalog.EstimateOption) int64 {
	if baseline == nil {
		return o.Price
	}
	if bo, ok := baseline.Option(o.ID); ok {
		return bo.Price
	}
	for _, bo := range baseline.Options {
		if bo.Name == o.Name {
			return bo.Price
		}
	}
	return o.Price
}

func newLine(kind LineKind, qty int, unitDisplay, unitBaseline int64) Line {
	if qty < 0 {
		qty = 0
	}
	display := mulSat(int64(qty), unitDisplay)
	baseline := mulSat(int64(qty), unitBaseline)
	discount := nonNegative(baseline - display)
	return Line{
		Kind:              kind,
		Quantity:          qty,
		UnitPriceDisplay:  unitDisplay,
		UnitPriceBaseline: unitBaseline,
		LineDisplayCost:   display,
		LineBaselineCost:  baseline,
		LineDiscount:      discount,
		DiscountPercent:   percent(discount, baseline),
	}
}

// mulSat and addSat clamp to the int64 range instead of wrapping.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b == a && !(a == -1 && b == math.MinInt64) && !(b == -1 && a == math.MinInt64) {
		return p
	}
	if (a < 0) != (b < 0) {
		return math.MinInt64
	}
	return math.MaxInt64
}

func addSat(a, b int64) int64 {
	s := a + b
	switch {
	case a > 0 && b > 0 && s < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && s >= 0:
		return math.MinInt64
	}
	return s
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// percent rounds half away from zero; 0 when whole is not positive.
func percent(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
