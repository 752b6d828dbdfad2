// Package catalogtest holds a small venue catalog shared by tests.
//
// Hall "A" has a standard estimate on 2025-05-01 and admin estimates on
// 2025-06-01 and 2025-07-15. Hall "B" has only a standard estimate.
// Hall "C" has no estimates.
package catalogtest

import (
	"encoding/json"
	"testing"

	"weddinghall/internal/domain/catalog"
)

const CompanyName = "Maison Blanche"

// Records returns a fresh copy of the fixture on every call.
func Records() []catalog.Company {
	return []catalog.Company{
		{
			ID:            1,
			Name:          CompanyName,
			Address:       "12 Riverside Rd",
			Phone:         "02-555-0100",
			CeremonyTimes: "11:00,13:00,15:00",
			Halls: []catalog.Hall{
				{
					ID:              1,
					CompanyID:       1,
					Name:            "A",
					Type:            "채플, 단독홀",
					Mood:            "bright",
					Guarantees:      200,
					IntervalMinutes: 90,
					Parking:         300,
					Includes: []catalog.HallInclude{
						{ID: 1, HallID: 1, Category: "MC", Subtitle: "professional host"},
						{ID: 2, HallID: 1, Category: "Flowers", Subtitle: "seasonal"},
					},
					Estimates: []catalog.Estimate{
						{
							ID: 10, HallID: 1, Type: catalog.TierStandard, Date: "2025-05-01",
							HallPrice: 5000000,
							MealPrices: []catalog.MealPrice{
								{ID: 101, EstimateID: 10, MealType: "Buffet", Category: "adult", Price: 80000},
								{ID: 102, EstimateID: 10, MealType: "Buffet", Category: "child", Price: 40000},
								{ID: 103, EstimateID: 10, MealType: "Drinks", Category: "beverage", Price: 15000},
							},
							Options: []catalog.EstimateOption{
								{ID: 201, EstimateID: 10, Name: "Flower Decoration", Price: 1500000, IsRequired: true},
								{ID: 202, EstimateID: 10, Name: "Live Band", Price: 800000},
								{ID: 203, EstimateID: 10, Name: "Photo Booth", Price: 300000},
							},
							PenaltyAmount: 1000000,
							PenaltyDetail: "30 days before the ceremony",
							Etcs:          []catalog.EtcItem{{ID: 1, EstimateID: 10, Content: "Valet included"}},
						},
						{
							ID: 11, HallID: 1, Type: catalog.TierAdmin, Date: "2025-06-01",
							HallPrice: 4000000,
							MealPrices: []catalog.MealPrice{
								{ID: 111, EstimateID: 11, MealType: "Buffet", Category: "adult", Price: 60000},
								{ID: 112, EstimateID: 11, MealType: "Buffet", Category: "child", Price: 30000},
							},
							Options: []catalog.EstimateOption{
								{ID: 211, EstimateID: 11, Name: "Flower Decoration", Price: 1200000, IsRequired: true},
								{ID: 212, EstimateID: 11, Name: "Live Band", Price: 600000},
								{ID: 213, EstimateID: 11, Name: "Video", Price: 500000},
							},
						},
						{
							ID: 12, HallID: 1, Type: catalog.TierAdmin, Date: "2025-07-15",
							HallPrice: 4500000,
							MealPrices: []catalog.MealPrice{
								{ID: 121, EstimateID: 12, MealType: "Course", Category: "adult", Price: 70000},
							},
						},
					},
				},
				{
					ID:        2,
					CompanyID: 1,
					Name:      "B",
					Type:      "컨벤션",
					Estimates: []catalog.Estimate{
						{
							ID: 20, HallID: 2, Type: catalog.TierStandard, Date: "2025-05-01",
							HallPrice: 3000000,
							MealPrices: []catalog.MealPrice{
								{ID: 131, EstimateID: 20, MealType: "Buffet", Category: "adult", Price: 50000},
							},
							Options: []catalog.EstimateOption{
								{ID: 232, EstimateID: 20, Name: "Live Band", Price: 700000},
							},
						},
					},
				},
				{
					ID:        3,
					CompanyID: 1,
					Name:      "C",
				},
			},
		},
	}
}

// Build returns the fixture catalog or fails the test.
func Build(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Build(Records())
	if err != nil {
		t.Fatalf("build fixture catalog: %v", err)
	}
	return c
}

// JSON returns the fixture as a raw catalog document.
func JSON(t testing.TB) []byte {
	t.Helper()
	data, err := json.Marshal(Records())
	if err != nil {
		t.Fatalf("marshal fixture catalog: %v", err)
	}
	return data
}
