package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// CREATOR METRICS
// ============================================================================

type PlatformMetric struct {
	Platform       Platform `json:"platform"`
	Followers      int64    `json:"followers"`
	EngagementRate float64  `json:"engagement_rate"`
	AvgViews       *int64   `json:"avg_views,omitempty"`
	AvgLikes       *int64   `json:"avg_likes,omitempty"`
}

type Location struct {
	City     string   `json:"city"`
	CityTier CityTier `json:"city_tier"`
}

// CreatorMetrics is the immutable pricing input owned by the rate card.
// Updates replace it wholesale, never merge.
type CreatorMetrics struct {
	Platforms  []PlatformMetric `json:"platforms"`
	Niche      string           `json:"niche"`
	Location   Location         `json:"location"`
	Languages  []string         `json:"languages,omitempty"`
	Experience ExperienceLevel  `json:"experience"`
}

// MetricFor returns the platform metric for p, if present.
func (m CreatorMetrics) MetricFor(p Platform) (PlatformMetric, bool) {
	for _, pm := range m.Platforms {
		if pm.Platform == p {
			return pm, true
		}
	}
	return PlatformMetric{}, false
}

// ============================================================================
// DELIVERABLE RATES
// ============================================================================

type Turnaround struct {
	Value int    `json:"value"`
	Unit  string `json:"unit"`
}

type DeliverableRate struct {
	Platform          Platform        `json:"platform"`
	Type              DeliverableType `json:"type"`
	AdvisorySuggested *int64          `json:"advisory_suggested,omitempty"`
	ChosenPrice       int64           `json:"chosen_price"`
	MarketPosition    MarketPosition  `json:"market_position"`
	Turnaround        Turnaround      `json:"turnaround"`
	RevisionsIncluded int             `json:"revisions_included"`
}

// PlatformRates keeps the platform → rates association ordered.
type PlatformRates struct {
	Platform Platform          `json:"platform"`
	Items    []DeliverableRate `json:"items"`
}

// ============================================================================
// PACKAGES
// ============================================================================

type PackageItem struct {
	Platform        Platform        `json:"platform"`
	DeliverableType DeliverableType `json:"deliverable_type"`
	Quantity        int             `json:"quantity"`
}

type Savings struct {
	Amount     int64 `json:"amount"`
	Percentage int   `json:"percentage"`
}

type Package struct {
	Name            string        `json:"name"`
	Items           []PackageItem `json:"items"`
	IndividualTotal int64         `json:"individual_total"`
	PackagePrice    int64         `json:"package_price"`
	Savings         Savings       `json:"savings"`
	Incomplete      bool          `json:"incomplete,omitempty"`
}

// ============================================================================
// RATE CARD
// ============================================================================

type RateCard struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	OwnerID        string         `json:"owner_id" db:"owner_id"`
	Title          string         `json:"title" db:"title"`
	Metrics        MetricsDoc     `json:"metrics" db:"metrics"`
	Rates          RatesDoc       `json:"rates" db:"rates"`
	Packages       PackagesDoc    `json:"packages" db:"packages"`
	Terms          string         `json:"terms" db:"terms"`
	MarketInsights string         `json:"market_insights" db:"market_insights"`
	Confidence     int            `json:"confidence" db:"confidence"`
	CurrentVersion int            `json:"current_version" db:"current_version"`
	Status         RateCardStatus `json:"status" db:"status"`
	IsPublic       bool           `json:"is_public" db:"is_public"`
	PublicID       *string        `json:"public_id,omitempty" db:"public_id"`
	PublicPassword *string        `json:"-" db:"public_password"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty" db:"expires_at"`
	PublishedAt    *time.Time     `json:"published_at,omitempty" db:"published_at"`
	ViewCount      int64          `json:"view_count" db:"view_count"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// RateFor looks up the committed rate for a platform/type pair.
func (rc *RateCard) RateFor(p Platform, t DeliverableType) (DeliverableRate, bool) {
	for _, pr := range rc.Rates {
		if pr.Platform != p {
			continue
		}
		for _, item := range pr.Items {
			if item.Type == t {
				return item, true
			}
		}
	}
	return DeliverableRate{}, false
}

// PackageByName looks up a package by exact (case-sensitive) name.
func (rc *RateCard) PackageByName(name string) (int, bool) {
	for i, pkg := range rc.Packages {
		if pkg.Name == name {
			return i, true
		}
	}
	return -1, false
}

// RateCount returns the number of priced deliverables across all platforms.
func (rc *RateCard) RateCount() int {
	n := 0
	for _, pr := range rc.Rates {
		n += len(pr.Items)
	}
	return n
}

// EffectiveStatus derives the presented status: an active card past its
// expiry reads as expired without any stored transition.
func (rc *RateCard) EffectiveStatus(now time.Time) RateCardStatus {
	if rc.Status == StatusActive && rc.ExpiresAt != nil && now.After(*rc.ExpiresAt) {
		return StatusExpired
	}
	return rc.Status
}

// ============================================================================
// HISTORY
// ============================================================================

// CatalogSnapshot is the restorable portion of a rate card. History restore
// copies these fields back wholesale; it never aliases live catalog state.
type CatalogSnapshot struct {
	Metrics  CreatorMetrics  `json:"metrics"`
	Rates    []PlatformRates `json:"rates"`
	Packages []Package       `json:"packages"`
	Terms    string          `json:"terms"`
}

type HistorySnapshot struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	RateCardID uuid.UUID   `json:"rate_card_id" db:"rate_card_id"`
	Version    int         `json:"version" db:"version"`
	ChangeType ChangeType  `json:"change_type" db:"change_type"`
	Snapshot   SnapshotDoc `json:"snapshot" db:"snapshot"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// ============================================================================
// JSONB DOCUMENT WRAPPERS
// ============================================================================

type MetricsDoc CreatorMetrics

func (d MetricsDoc) Value() (driver.Value, error) { return json.Marshal(d) }

func (d *MetricsDoc) Scan(value any) error { return scanJSONB(value, d, "MetricsDoc") }

type RatesDoc []PlatformRates

func (d RatesDoc) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal([]PlatformRates{})
	}
	return json.Marshal(d)
}

func (d *RatesDoc) Scan(value any) error { return scanJSONB(value, d, "RatesDoc") }

type PackagesDoc []Package

func (d PackagesDoc) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal([]Package{})
	}
	return json.Marshal(d)
}

func (d *PackagesDoc) Scan(value any) error { return scanJSONB(value, d, "PackagesDoc") }

type SnapshotDoc CatalogSnapshot

func (d SnapshotDoc) Value() (driver.Value, error) { return json.Marshal(d) }

func (d *SnapshotDoc) Scan(value any) error { return scanJSONB(value, d, "SnapshotDoc") }

func scanJSONB(value any, dest any, name string) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("%s: Scan failed, expected []byte but got %T", name, value)
	}
	return json.Unmarshal(b, dest)
}
