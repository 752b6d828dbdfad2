package pricing

import (
	"sort"
	"strconv"
	"strings"

	"weddinghall/internal/domain/catalog"
)

// MaxMealCount caps a head count so line costs cannot overflow.
const MaxMealCount = 1_000_000

// Engine holds the user input priced against one display estimate:
// head counts per billable meal and the optional add-ons picked.
// It is not safe for concurrent use.
type Engine struct {
	policy   MealPolicy
	display  *catalog.Estimate
	baseline *catalog.Estimate

	counts   map[int64]int
	selected map[int64]bool
}

func NewEngine(policy MealPolicy) *Engine {
	return &Engine{
		policy:   policy,
		counts:   map[int64]int{},
		selected: map[int64]bool{},
	}
}

// Reset points the engine at a new estimate pair and clears all input.
// Every billable meal starts at zero and no optional add-on is selected.
func (e *Engine) Reset(display, baseline *catalog.Estimate) {
	e.display = display
	e.baseline = baseline
	e.counts = map[int64]int{}
	e.selected = map[int64]bool{}
	for _, m := range e.policy.BillableMeals(display) {
		e.counts[m.ID] = 0
	}
}

func (e *Engine) Display() *catalog.Estimate  { return e.display }
func (e *Engine) Baseline() *catalog.Estimate { return e.baseline }
func (e *Engine) Policy() MealPolicy          { return e.policy }

// SetMealCount sets the head count of a billable meal of the display
// estimate. Counts clamp to [0, MaxMealCount]. Unknown or excluded meals are
// ignored. Reports whether the state changed.
func (e *Engine) SetMealCount(mealID int64, count int) bool {
	current, ok := e.counts[mealID]
	if !ok {
		return false
	}
	if count < 0 {
		count = 0
	}
	if count > MaxMealCount {
		count = MaxMealCount
	}
	if current == count {
		return false
	}
	e.counts[mealID] = count
	return true
}

// SetMealCountInput is SetMealCount for raw user text.
func (e *Engine) SetMealCountInput(mealID int64, raw string) bool {
	return e.SetMealCount(mealID, ParseCount(raw))
}

// ToggleOption flips an optional add-on. Required and unknown options are
// left alone. Reports whether the state changed.
func (e *Engine) ToggleOption(optionID int64) bool {
	if e.display == nil {
		return false
	}
	opt, ok := e.display.Option(optionID)
	if !ok || opt.IsRequired {
		return false
	}
	if e.selected[optionID] {
		delete(e.selected, optionID)
	} else {
		e.selected[optionID] = true
	}
	return true
}

func (e *Engine) MealCount(mealID int64) int {
	return e.counts[mealID]
}

func (e *Engine) MealCounts() map[int64]int {
	out := make(map[int64]int, len(e.counts))
	for id, n := range e.counts {
		out[id] = n
	}
	return out
}

func (e *Engine) IsSelected(optionID int64) bool {
	return e.selected[optionID]
}

// SelectedOptionIDs returns the optional add-ons picked, ascending.
func (e *Engine) SelectedOptionIDs() []int64 {
	ids := make([]int64, 0, len(e.selected))
	for id := range e.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (e *Engine) Breakdown() Breakdown {
	return Compute(Input{
		Display:         e.display,
		Baseline:        e.baseline,
		MealCounts:      e.counts,
		SelectedOptions: e.selected,
		Policy:          e.policy,
	})
}

// ParseCount reads a head count the way a number field does: surrounding
// space is ignored and the leading integer is used ("12 people" is 12).
// Anything without a leading integer, or negative, is 0.
func ParseCount(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
