package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the pricing tier of an estimate.
type Tier string

const (
	// TierStandard is the published list price.
	TierStandard Tier = "standard"
	// TierAdmin is a negotiated price bound to one calendar date.
	TierAdmin Tier = "admin"
)

// ValidTiers returns tiers in display order.
func ValidTiers() []Tier {
	return []Tier{TierStandard, TierAdmin}
}

func (t Tier) IsValid() bool {
	switch t {
	case TierStandard, TierAdmin:
		return true
	default:
		return false
	}
}

// ParseTier normalizes user input ("Admin ", "STANDARD") to a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// Company is one wedding venue operator. A raw catalog may carry several
// records for the same company, each with a subset of its halls.
type Company struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"size:255;not null;uniqueIndex" validate:"required"`
	Address       string  `json:"address,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Homepage      string  `json:"homepage,omitempty"`
	Accessibility string  `json:"accessibility,omitempty"`
	Lat           float64 `json:"lat,omitempty"`
	Lng           float64 `json:"lng,omitempty"`
	CeremonyTimes string  `json:"ceremony_times,omitempty"`

	Halls []Hall `json:"halls" gorm:"foreignKey:CompanyID" validate:"dive"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Company) TableName() string {
	return "wedding_companies"
}

// Hall is a bookable room of a company.
type Hall struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	CompanyID       int64  `json:"wedding_company_id" gorm:"index"`
	Name            string `json:"name" gorm:"size:255;not null" validate:"required"`
	Type            string `json:"type,omitempty"` // comma separated tags, e.g. "채플,단독홀"
	Mood            string `json:"mood,omitempty"`
	Guarantees      int    `json:"guarantees,omitempty" validate:"gte=0"`
	IntervalMinutes int    `json:"interval_minutes,omitempty" validate:"gte=0"`
	Parking         int    `json:"parking,omitempty" validate:"gte=0"`
	Position        int    `json:"-" gorm:"not null;default:0"`

	Photos    []HallPhoto   `json:"hall_photos,omitempty" gorm:"foreignKey:HallID"`
	Includes  []HallInclude `json:"hall_includes,omitempty" gorm:"foreignKey:HallID"`
	Estimates []Estimate    `json:"estimates" gorm:"foreignKey:HallID" validate:"dive"`
}

func (Hall) TableName() string {
	return "halls"
}

type HallPhoto struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	HallID   int64  `json:"hall_id" gorm:"index"`
	URL      string `json:"url"`
	Caption  string `json:"caption,omitempty"`
	Position int    `json:"position,omitempty"`
}

func (HallPhoto) TableName() string {
	return "hall_photos"
}

// HallInclude is a service bundled with the hall (flowers, mc, ...).
type HallInclude struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	HallID   int64  `json:"hall_id" gorm:"index"`
	Category string `json:"category"`
	Subtitle string `json:"subtitle,omitempty"`
	Position int    `json:"-" gorm:"not null;default:0"`
}

func (HallInclude) TableName() string {
	return "hall_includes"
}

// Estimate is a priced quote template for a hall on a date.
type Estimate struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	HallID        int64  `json:"hall_id" gorm:"index"`
	HallPrice     int64  `json:"hall_price" validate:"gte=0"`
	Type          Tier   `json:"type" gorm:"size:16;not null" validate:"required,oneof=standard admin"`
	Date          string `json:"date" gorm:"size:10" validate:"omitempty,isodate"`
	Time          string `json:"time,omitempty"`
	PenaltyAmount int64  `json:"penalty_amount,omitempty" validate:"gte=0"`
	PenaltyDetail string `json:"penalty_detail,omitempty"`
	Position      int    `json:"-" gorm:"not null;default:0"`

	MealPrices []MealPrice      `json:"meal_prices" gorm:"foreignKey:EstimateID" validate:"dive"`
	Options    []EstimateOption `json:"estimate_options" gorm:"foreignKey:EstimateID" validate:"dive"`
	Etcs       []EtcItem        `json:"etcs,omitempty" gorm:"foreignKey:EstimateID"`
}

func (Estimate) TableName() string {
	return "estimates"
}

// MealPrice is a per-person meal charge. Category decides billability
// and how a line is matched against the baseline estimate.
type MealPrice struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	EstimateID int64  `json:"estimate_id" gorm:"index"`
	MealType   string `json:"meal_type"`
	Category   string `json:"category"`
	Price      int64  `json:"price" validate:"gte=0"`
	Extra      string `json:"extra,omitempty"`
	Position   int    `json:"-" gorm:"not null;default:0"`
}

func (MealPrice) TableName() string {
	return "meal_prices"
}

// EstimateOption is an add-on. Required options are always charged.
type EstimateOption struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	EstimateID   int64  `json:"estimate_id" gorm:"index"`
	Name         string `json:"name"`
	Price        int64  `json:"price" validate:"gte=0"`
	IsRequired   bool   `json:"is_required"`
	Description  string `json:"description,omitempty"`
	ReferenceURL string `json:"reference_url,omitempty"`
	Position     int    `json:"-" gorm:"not null;default:0"`
}

func (EstimateOption) TableName() string {
	return "estimate_options"
}

type EtcItem struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	EstimateID int64  `json:"estimate_id" gorm:"index"`
	Content    string `json:"content"`
	Position   int    `json:"-" gorm:"not null;default:0"`
}

func (EtcItem) TableName() string {
	return "estimate_etcs"
}

// Models lists every persisted catalog table, parents first.
func Models() []interface{} {
	return []interface{}{
		&Company{},
		&Hall{},
		&HallPhoto{},
		&HallInclude{},
		&Estimate{},
		&MealPrice{},
		&EstimateOption{},
		&EtcItem{},
	}
}
