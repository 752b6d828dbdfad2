package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"weddinghall/internal/config"
	"weddinghall/internal/database"
	"weddinghall/internal/domain/catalog"
	"weddinghall/internal/pkg/jwt"
	"weddinghall/internal/pkg/validator"
)

type hallSeed struct {
	name, hallType, mood string
	guarantees           int
	basePrice            int64
}

type companySeed struct {
	name, address, phone string
	lat, lng             float64
	halls                []hallSeed
}

var companies = []companySeed{
	{
		name:    "더채플앳청담",
		address: "서울 강남구 선릉로 757",
		phone:   "02-518-0050",
		lat:     37.5243,
		lng:     127.0434,
		halls: []hallSeed{
			{"커티지홀", "채플, 단독홀", "밝은", 200, 8000000},
			{"라리브홀", "채플", "어두운", 150, 6500000},
		},
	},
	{
		name:    "그랜드컨벤션 수원",
		address: "경기 수원시 팔달구 권광로 138",
		phone:   "031-222-1000",
		lat:     37.2636,
		lng:     127.0286,
		halls: []hallSeed{
			{"그랜드볼룸", "컨벤션", "밝은", 300, 5000000},
			{"크리스탈홀", "컨벤션, 호텔", "밝은", 250, 4200000},
			{"가든홀", "야외", "", 120, 3000000},
		},
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.ConnectQuiet(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := catalog.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	svc := catalog.NewService(catalog.NewRepository(db), nil)
	rng := rand.New(rand.NewSource(42))
	start := time.Now().AddDate(0, 1, 0)

	ctx := context.Background()
	for _, cs := range companies {
		record := buildCompany(cs, start, rng)
		cat, err := svc.ImportRecords(ctx, []catalog.Company{record})
		if err != nil {
			log.Fatalf("seed %s failed: %v", cs.name, err)
		}
		log.Printf("Seeded %s with halls %v", cs.name, cat.HallNames())
	}

	token, err := jwt.New(cfg.JWTSecret, cfg.JWTTTL).GenerateToken("seed", jwt.RoleAdmin)
	if err != nil {
		log.Fatal("admin token failed: ", err)
	}
	log.Printf("Seed complete; admin token for POST /api/v1/catalogs (valid %s):\n%s", cfg.JWTTTL, token)
}

func buildCompany(cs companySeed, start time.Time, rng *rand.Rand) catalog.Company {
	c := catalog.Company{
		Name:          cs.name,
		Address:       cs.address,
		Phone:         cs.phone,
		Lat:           cs.lat,
		Lng:           cs.lng,
		CeremonyTimes: "11:00, 13:00, 15:00, 17:00",
	}

	for i, hs := range cs.halls {
		hall := catalog.Hall{
			Name:            hs.name,
			Type:            hs.hallType,
			Mood:            hs.mood,
			Guarantees:      hs.guarantees,
			IntervalMinutes: 90 + 30*(i%2),
			Parking:         hs.guarantees / 2,
			Includes: []catalog.HallInclude{
				{Category: "꽃장식", Subtitle: "생화 장식 기본 포함"},
				{Category: "사회자", Subtitle: "전문 MC"},
			},
			Photos: []catalog.HallPhoto{
				{URL: fmt.Sprintf("/static/halls/%d-main.jpg", i+1), Position: 0},
			},
		}

		hall.Estimates = append(hall.Estimates, estimate(catalog.TierStandard, "", hs.basePrice, 1.0))

		// admin discounts on a few Saturdays, not every hall gets one
		if i%3 != 2 {
			for week := 0; week < 3; week++ {
				date := nextSaturday(start.AddDate(0, 0, 14*week)).Format(validator.ISODateLayout)
				factor := 0.75 + rng.Float64()*0.15
				hall.Estimates = append(hall.Estimates, estimate(catalog.TierAdmin, date, hs.basePrice, factor))
			}
		}
		c.Halls = append(c.Halls, hall)
	}
	return c
}

func estimate(tier catalog.Tier, date string, base int64, factor float64) catalog.Estimate {
	price := func(p int64) int64 { return roundWon(float64(p) * factor) }

	return catalog.Estimate{
		Type:          tier,
		Date:          date,
		Time:          "13:00",
		HallPrice:     price(base),
		PenaltyAmount: base / 10,
		PenaltyDetail: "예식 90일 전 취소 시 대관료의 10% 위약금",
		MealPrices: []catalog.MealPrice{
			{MealType: "뷔페", Category: "대인", Price: price(68000)},
			{MealType: "뷔페", Category: "소인", Price: price(35000)},
			{MealType: "주류", Category: "음주류", Price: 12000},
		},
		Options: []catalog.EstimateOption{
			{Name: "생화 장식", Price: price(1500000), IsRequired: true},
			{Name: "본식 영상", Price: price(900000)},
			{Name: "포토부스", Price: price(400000)},
		},
		Etcs: []catalog.EtcItem{{Content: "발렛 파킹 무료"}},
	}
}

func nextSaturday(t time.Time) time.Time {
	for t.Weekday() != time.Saturday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func roundWon(v float64) int64 {
	return int64(v/1000+0.5) * 1000
}
