package pricing

import (
	"sort"
	"strings"

	"weddinghall/internal/domain/catalog"
)

// DefaultExcludedMealCategories are meal categories never billed per head:
// children and beverages, in the labels venues actually publish.
var DefaultExcludedMealCategories = []string{"소인", "음주류", "child", "beverage"}

// MealPolicy decides which meal lines are billable. The zero value bills
// every category.
type MealPolicy struct {
	excluded map[string]struct{}
}

func NewMealPolicy(excluded ...string) MealPolicy {
	p := MealPolicy{excluded: make(map[string]struct{}, len(excluded))}
	for _, c := range excluded {
		if key := normalizeCategory(c); key != "" {
			p.excluded[key] = struct{}{}
		}
	}
	return p
}

func DefaultMealPolicy() MealPolicy {
	return NewMealPolicy(DefaultExcludedMealCategories...)
}

func (p MealPolicy) Billable(m catalog.MealPrice) bool {
	_, skip := p.excluded[normalizeCategory(m.Category)]
	return !skip
}

// BillableMeals keeps estimate order.
func (p MealPolicy) BillableMeals(e *catalog.Estimate) []catalog.MealPrice {
	if e == nil {
		return nil
	}
	var out []catalog.MealPrice
	for _, m := range e.MealPrices {
		if p.Billable(m) {
			out = append(out, m)
		}
	}
	return out
}

// Excluded lists the excluded categories in normalized form, sorted.
func (p MealPolicy) Excluded() []string {
	out := make([]string, 0, len(p.excluded))
	for c := range p.excluded {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
