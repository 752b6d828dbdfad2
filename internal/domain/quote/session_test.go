package quote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/catalog/catalogtest"
	"weddinghall/internal/domain/pricing"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(catalogtest.Build(t), pricing.DefaultMealPolicy())
}

func TestSession_DefaultView(t *testing.T) {
	s := newTestSession(t)
	v := s.View()

	assert.Equal(t, s.ID.String(), v.SessionID)
	assert.Equal(t, catalogtest.CompanyName, v.Company.Name)
	assert.Equal(t, "A", v.Selection.Hall)
	assert.Equal(t, "2025-06-01", v.Selection.Date)
	assert.Equal(t, catalog.TierAdmin, v.Selection.Tier)
	assert.False(t, v.NoQuote)
	assert.True(t, v.Discounted)

	require.NotNil(t, v.Hall)
	assert.Equal(t, []string{"채플", "단독홀"}, v.Hall.TypeTags)
	assert.Equal(t, "Flowers", v.Hall.Includes[0].Category)

	require.NotNil(t, v.Estimate)
	assert.Equal(t, int64(11), v.Estimate.ID)
	assert.Equal(t, int64(10), v.Estimate.BaselineID)

	require.Len(t, v.Meals, 2)
	assert.True(t, v.Meals[0].Billable)
	assert.Equal(t, int64(80000), v.Meals[0].BaselinePrice)
	assert.False(t, v.Meals[1].Billable, "child meals are shown but not billed")

	require.Len(t, v.Options, 3)
	assert.True(t, v.Options[0].Required)
	assert.True(t, v.Options[0].Selected)
	assert.False(t, v.Options[1].Selected)

	// hall fee 4.0M vs 5.0M plus required flowers 1.2M vs 1.5M
	assert.Equal(t, int64(5200000), v.Breakdown.TotalDisplayCost)
	assert.Equal(t, int64(1300000), v.Breakdown.TotalDiscount)
}

func TestSession_HallSwitchResetsInput(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.SetMealCount(111, 100))
	require.True(t, s.ToggleOption(213))

	require.True(t, s.SetHall("B"))
	v := s.View()
	assert.Equal(t, "B", v.Selection.Hall)
	assert.False(t, v.Discounted)
	assert.Zero(t, v.Breakdown.TotalDiscount)
	require.Len(t, v.Meals, 1)
	assert.Zero(t, v.Meals[0].Count)
	for _, o := range v.Options {
		assert.False(t, o.Selected)
	}

	require.True(t, s.SetHall("A"))
	v = s.View()
	assert.Zero(t, v.Meals[0].Count, "input does not come back after switching back")
}

func TestSession_SameHallKeepsInput(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.SetMealCount(111, 100))

	require.True(t, s.SetHall("A"))
	assert.Equal(t, 100, s.View().Meals[0].Count)
}

func TestSession_DisplayChangeResetsInput(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.SetMealCount(111, 100))

	require.True(t, s.SetTier(catalog.TierStandard))
	v := s.View()
	assert.Equal(t, int64(10), v.Estimate.ID)
	assert.Zero(t, v.Meals[0].Count)
	assert.False(t, v.Discounted)
}

func TestSession_DateChangeWithSameDisplayKeepsInput(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.SetTier(catalog.TierStandard))
	require.True(t, s.SetMealCount(101, 80))

	require.True(t, s.SetDate("2025-07-15"))
	v := s.View()
	assert.Equal(t, int64(10), v.Estimate.ID)
	assert.Equal(t, 80, v.Meals[0].Count)
}

func TestSession_NoQuote(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.SetHall("C"))

	v := s.View()
	assert.True(t, v.NoQuote)
	assert.Nil(t, v.Estimate)
	assert.Empty(t, v.Meals)
	assert.Empty(t, v.Options)
	assert.True(t, v.Breakdown.Empty)
	assert.Zero(t, v.Breakdown.TotalDisplayCost)
}

func TestSession_ApplyUnknownOp(t *testing.T) {
	s := newTestSession(t)
	_, err := s.Apply(Command{Op: "explode"})
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestSession_ApplyAllStringCounts(t *testing.T) {
	s := newTestSession(t)
	v, err := s.ApplyAll(
		Command{Op: OpSetMealCount, MealID: 111, Count: "100"},
		Command{Op: OpSetMealCount, MealID: 111, Count: "abc"},
		Command{Op: OpSetMealCount, MealID: 111, Count: "100"},
	)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Meals[0].Count)
	assert.Equal(t, int64(2000000), v.Breakdown.Meals[0].LineDiscount)
}

func TestSession_ReplaceCatalog(t *testing.T) {
	s := newTestSession(t)
	require.True(t, s.SetHall("B"))

	records := catalogtest.Records()
	records[0].Halls = records[0].Halls[1:]
	cat, err := catalog.Build(records)
	require.NoError(t, err)

	s.ReplaceCatalog(cat)
	v := s.View()
	assert.Equal(t, []string{"B", "C"}, v.Selection.HallNames)
	assert.Equal(t, "B", v.Selection.Hall)
	assert.False(t, v.Selection.Overrides.Hall)
}

func TestCountInput_UnmarshalJSON(t *testing.T) {
	cases := map[string]CountInput{
		`{"count": 120}`:   "120",
		`{"count": "12a"}`: "12a",
		`{"count": null}`:  "",
		`{}`:               "",
	}
	for raw, want := range cases {
		var req MealCountRequest
		require.NoError(t, json.Unmarshal([]byte(raw), &req), raw)
		assert.Equal(t, want, req.Count, raw)
	}
}
