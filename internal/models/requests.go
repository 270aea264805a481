package models

import (
	"strconv"
	"strings"
)

// ============================================================================
// REQUEST DTOS
// ============================================================================

type CreateRateCardRequest struct {
	Title   string         `json:"title" validate:"omitempty,max=200"`
	Metrics CreatorMetrics `json:"metrics" validate:"required"`
}

func (r CreateRateCardRequest) Validate() error {
	if len(strings.TrimSpace(r.Title)) > 200 {
		return NewValidationError("title", r.Title, "must be 200 characters or less")
	}
	return validateMetrics(r.Metrics)
}

type UpdateMetricsRequest struct {
	Metrics CreatorMetrics `json:"metrics" validate:"required"`
}

func (r UpdateMetricsRequest) Validate() error {
	return validateMetrics(r.Metrics)
}

type RateUpdate struct {
	Platform          Platform        `json:"platform" validate:"required"`
	Type              DeliverableType `json:"type" validate:"required"`
	ChosenPrice       int64           `json:"chosen_price" validate:"min=0"`
	Turnaround        *Turnaround     `json:"turnaround,omitempty"`
	RevisionsIncluded *int            `json:"revisions_included,omitempty"`
}

type UpdateRatesRequest struct {
	Rates []RateUpdate `json:"rates" validate:"required,min=1"`
}

func (r UpdateRatesRequest) Validate() error {
	if len(r.Rates) == 0 {
		return NewValidationError("rates", nil, "at least one rate update is required")
	}
	for i, ru := range r.Rates {
		if !IsValidPlatform(ru.Platform) {
			return NewValidationError(fieldAt("rates", i, "platform"), string(ru.Platform), "unknown platform")
		}
		if ru.Type == "" {
			return NewValidationError(fieldAt("rates", i, "type"), "", "deliverable type is required")
		}
		if ru.ChosenPrice < 0 {
			return NewValidationError(fieldAt("rates", i, "chosen_price"), ru.ChosenPrice, "price must not be negative")
		}
		if ru.RevisionsIncluded != nil && *ru.RevisionsIncluded < 0 {
			return NewValidationError(fieldAt("rates", i, "revisions_included"), *ru.RevisionsIncluded, "must not be negative")
		}
	}
	return nil
}

type CreatePackageRequest struct {
	Name         string        `json:"name" validate:"required,min=1,max=100"`
	Items        []PackageItem `json:"items" validate:"required,min=1"`
	PackagePrice int64         `json:"package_price" validate:"min=0"`
}

func (r CreatePackageRequest) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return NewValidationError("name", r.Name, "package name is required")
	}
	if len(r.Name) > 100 {
		return NewValidationError("name", r.Name, "must be 100 characters or less")
	}
	if len(r.Items) == 0 {
		return NewValidationError("items", nil, "at least one item is required")
	}
	for i, item := range r.Items {
		if !IsValidPlatform(item.Platform) {
			return NewValidationError(fieldAt("items", i, "platform"), string(item.Platform), "unknown platform")
		}
		if item.Quantity < 1 {
			return NewValidationError(fieldAt("items", i, "quantity"), item.Quantity, "quantity must be at least 1")
		}
	}
	if r.PackagePrice < 0 {
		return NewValidationError("package_price", r.PackagePrice, "price must not be negative")
	}
	return nil
}

type UpdatePackageRequest struct {
	Items        []PackageItem `json:"items,omitempty"`
	PackagePrice *int64        `json:"package_price,omitempty"`
}

func (r UpdatePackageRequest) Validate() error {
	if r.Items == nil && r.PackagePrice == nil {
		return NewValidationError("body", nil, "nothing to update")
	}
	for i, item := range r.Items {
		if !IsValidPlatform(item.Platform) {
			return NewValidationError(fieldAt("items", i, "platform"), string(item.Platform), "unknown platform")
		}
		if item.Quantity < 1 {
			return NewValidationError(fieldAt("items", i, "quantity"), item.Quantity, "quantity must be at least 1")
		}
	}
	if r.PackagePrice != nil && *r.PackagePrice < 0 {
		return NewValidationError("package_price", *r.PackagePrice, "price must not be negative")
	}
	return nil
}

type UpdateTermsRequest struct {
	Terms string `json:"terms" validate:"max=5000"`
}

func (r UpdateTermsRequest) Validate() error {
	if len(r.Terms) > 5000 {
		return NewValidationError("terms", nil, "must be 5000 characters or less")
	}
	return nil
}

type PublishRequest struct {
	Password   *string `json:"password,omitempty" validate:"omitempty,min=4,max=64"`
	ExpiryDays *int    `json:"expiry_days,omitempty" validate:"omitempty,min=1,max=365"`
}

func (r PublishRequest) Validate() error {
	if r.Password != nil {
		if len(*r.Password) < 4 || len(*r.Password) > 64 {
			return NewValidationError("password", nil, "must be between 4 and 64 characters")
		}
	}
	if r.ExpiryDays != nil && (*r.ExpiryDays < 1 || *r.ExpiryDays > 365) {
		return NewValidationError("expiry_days", *r.ExpiryDays, "must be between 1 and 365 days")
	}
	return nil
}

// ============================================================================
// VALIDATION HELPERS
// ============================================================================

func validateMetrics(m CreatorMetrics) error {
	if len(m.Platforms) == 0 {
		return NewValidationError("metrics.platforms", nil, "at least one platform metric is required")
	}
	seen := make(map[Platform]bool, len(m.Platforms))
	for i, pm := range m.Platforms {
		if !IsValidPlatform(pm.Platform) {
			return NewValidationError(fieldAt("metrics.platforms", i, "platform"), string(pm.Platform), "unknown platform")
		}
		if seen[pm.Platform] {
			return NewValidationError(fieldAt("metrics.platforms", i, "platform"), string(pm.Platform), "duplicate platform")
		}
		seen[pm.Platform] = true
		if pm.Followers < 0 {
			return NewValidationError(fieldAt("metrics.platforms", i, "followers"), pm.Followers, "must not be negative")
		}
		if pm.EngagementRate < 0 || pm.EngagementRate > 100 {
			return NewValidationError(fieldAt("metrics.platforms", i, "engagement_rate"), pm.EngagementRate, "must be between 0 and 100")
		}
		if pm.AvgViews != nil && *pm.AvgViews < 0 {
			return NewValidationError(fieldAt("metrics.platforms", i, "avg_views"), *pm.AvgViews, "must not be negative")
		}
		if pm.AvgLikes != nil && *pm.AvgLikes < 0 {
			return NewValidationError(fieldAt("metrics.platforms", i, "avg_likes"), *pm.AvgLikes, "must not be negative")
		}
	}
	if strings.TrimSpace(m.Niche) == "" {
		return NewValidationError("metrics.niche", m.Niche, "niche is required")
	}
	if !IsValidCityTier(m.Location.CityTier) {
		return NewValidationError("metrics.location.city_tier", string(m.Location.CityTier), "must be one of metro, tier1, tier2, tier3")
	}
	if !IsValidExperience(m.Experience) {
		return NewValidationError("metrics.experience", string(m.Experience), "must be one of beginner, 1-2y, 2-5y, 5+y")
	}
	return nil
}

func fieldAt(prefix string, index int, field string) string {
	return prefix + "[" + strconv.Itoa(index) + "]." + field
}
