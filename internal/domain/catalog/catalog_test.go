package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/domain/catalog/catalogtest"
)

func TestParseTier(t *testing.T) {
	tier, err := catalog.ParseTier(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, catalog.TierAdmin, tier)

	_, err = catalog.ParseTier("vip")
	assert.ErrorIs(t, err, catalog.ErrUnknownTier)
}

func TestBuild_Fixture(t *testing.T) {
	cat := catalogtest.Build(t)

	assert.Equal(t, catalogtest.CompanyName, cat.Company().Name)
	assert.Nil(t, cat.Company().Halls)
	assert.Equal(t, []string{"A", "B", "C"}, cat.HallNames())
	assert.Equal(t, "A", cat.FirstHall().Name)

	dates, err := cat.DatesOfHall("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-05-01", "2025-06-01", "2025-07-15"}, dates)

	admins, err := cat.EstimatesOfType("A", catalog.TierAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, int64(11), admins[0].ID)

	_, err = cat.Hall("Z")
	assert.ErrorIs(t, err, catalog.ErrHallNotFound)
	_, err = cat.DatesOfHall("Z")
	assert.ErrorIs(t, err, catalog.ErrHallNotFound)
}

func TestBuild_MergesRecords(t *testing.T) {
	records := []catalog.Company{
		{Name: "First", Address: "addr 1", Halls: []catalog.Hall{{Name: "Rose"}}},
		{Name: "Second", Address: "addr 2", Halls: []catalog.Hall{{Name: "Lily"}, {Name: "Rose", Mood: "dark"}}},
	}

	cat, err := catalog.Build(records)
	require.NoError(t, err)

	assert.Equal(t, "First", cat.Company().Name)
	assert.Equal(t, "addr 1", cat.Company().Address)
	assert.Equal(t, []string{"Rose", "Lily"}, cat.HallNames())
	assert.Len(t, cat.Record().Halls, 3)

	rose, err := cat.Hall("Rose")
	require.NoError(t, err)
	assert.Empty(t, rose.Mood, "first hall with a name wins")
}

func TestBuild_Malformed(t *testing.T) {
	valid := func() []catalog.Company { return catalogtest.Records() }

	cases := []struct {
		name   string
		mutate func([]catalog.Company) []catalog.Company
		path   string
	}{
		{
			name:   "empty root",
			mutate: func([]catalog.Company) []catalog.Company { return nil },
			path:   "",
		},
		{
			name: "company without name",
			mutate: func(r []catalog.Company) []catalog.Company {
				r[0].Name = ""
				return r
			},
			path: "[0].name",
		},
		{
			name: "hall without name",
			mutate: func(r []catalog.Company) []catalog.Company {
				r[0].Halls[1].Name = ""
				return r
			},
			path: "[0].halls[1].name",
		},
		{
			name: "unknown tier",
			mutate: func(r []catalog.Company) []catalog.Company {
				r[0].Halls[0].Estimates[1].Type = "vip"
				return r
			},
			path: "[0].halls[0].estimates[1].type",
		},
		{
			name: "negative meal price",
			mutate: func(r []catalog.Company) []catalog.Company {
				r[0].Halls[0].Estimates[0].MealPrices[0].Price = -1
				return r
			},
			path: "[0].halls[0].estimates[0].meal_prices[0].price",
		},
		{
			name: "bad date",
			mutate: func(r []catalog.Company) []catalog.Company {
				r[0].Halls[0].Estimates[1].Date = "2025-06-31"
				return r
			},
			path: "[0].halls[0].estimates[1].date",
		},
		{
			name: "admin without date",
			mutate: func(r []catalog.Company) []catalog.Company {
				r[0].Halls[0].Estimates[2].Date = ""
				return r
			},
			path: "[0].halls[0].estimates[2].date",
		},
		{
			name: "second admin estimate on the same date",
			mutate: func(r []catalog.Company) []catalog.Company {
				dup := r[0].Halls[0].Estimates[1]
				dup.ID = 13
				dup.MealPrices = nil
				dup.Options = nil
				r[0].Halls[0].Estimates = append(r[0].Halls[0].Estimates, dup)
				return r
			},
			path: "[0].halls[0].estimates[3].date",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.Build(tc.mutate(valid()))
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrMalformedCatalog)

			var mce *catalog.MalformedCatalogError
			require.True(t, errors.As(err, &mce))
			assert.Equal(t, tc.path, mce.Path)
		})
	}
}

func TestBuildJSON(t *testing.T) {
	cat, err := catalog.BuildJSON(catalogtest.JSON(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, cat.HallNames())

	for _, raw := range []string{`{}`, `"x"`, `[]`, `not json`, `[{"name":"x","halls":{}}]`} {
		_, err := catalog.BuildJSON([]byte(raw))
		assert.ErrorIs(t, err, catalog.ErrMalformedCatalog, raw)
	}
}

func TestHallHelpers(t *testing.T) {
	cat := catalogtest.Build(t)
	a, err := cat.Hall("A")
	require.NoError(t, err)

	std := a.StandardEstimate()
	require.NotNil(t, std)
	assert.Equal(t, int64(10), std.ID)

	assert.Equal(t, int64(11), a.AdminEstimate("2025-06-01").ID)
	assert.Nil(t, a.AdminEstimate("2025-05-01"))
	assert.Nil(t, a.AdminEstimate(""))
	assert.True(t, a.HasAdminOn("2025-07-15"))

	assert.Equal(t, []catalog.Tier{catalog.TierStandard, catalog.TierAdmin}, a.SelectableTiers("2025-06-01"))
	assert.Equal(t, []catalog.Tier{catalog.TierStandard}, a.SelectableTiers("2025-05-01"))

	assert.Equal(t, []string{"채플", "단독홀"}, a.TypeTags())

	includes := a.SortedIncludes()
	require.Len(t, includes, 2)
	assert.Equal(t, "Flowers", includes[0].Category)
	assert.Equal(t, "MC", a.Includes[0].Category, "hall includes are not reordered in place")

	assert.Equal(t, "Valet included", std.FirstEtc())
	assert.Empty(t, a.AdminEstimate("2025-06-01").FirstEtc())

	opt, ok := std.Option(202)
	require.True(t, ok)
	assert.Equal(t, "Live Band", opt.Name)
	_, ok = std.Meal(999)
	assert.False(t, ok)

	c, err := cat.Hall("C")
	require.NoError(t, err)
	assert.Empty(t, c.Dates())
	assert.Nil(t, c.StandardEstimate())
	assert.Empty(t, c.SelectableTiers(""))
}
