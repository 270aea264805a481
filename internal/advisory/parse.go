package advisory

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ratecard-service/internal/models"
	"ratecard-service/internal/pricing"
)

// Wire shapes. Pointers distinguish "absent" from zero so missing required
// numerics fail parsing instead of being defaulted silently.
type wireResponse struct {
	Rates          map[string]map[string]wireRate `json:"rates"`
	Packages       []wirePackage                  `json:"packages"`
	MarketInsights string                         `json:"market_insights"`
}

type wireRate struct {
	Suggested *float64 `json:"suggested"`
	Min       *float64 `json:"min"`
	Max       *float64 `json:"max"`
	Reasoning string   `json:"reasoning"`
}

type wirePackage struct {
	Name  string     `json:"name"`
	Items []wireItem `json:"items"`
	Price *float64   `json:"price"`
}

type wireItem struct {
	Platform        string `json:"platform"`
	DeliverableType string `json:"deliverable_type"`
	Quantity        *int   `json:"quantity"`
}

// ParseResponse validates raw advisory output against the expected schema.
// Unknown platforms and deliverable types are dropped silently; a rate entry
// or package missing a required numeric fails the whole response. All numeric
// values are clamped to [0, MaxReasonablePrice] before use.
func ParseResponse(raw []byte, ranges RangeTable) (*Result, error) {
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(wire.Rates) == 0 {
		return nil, fmt.Errorf("response contains no rates")
	}

	result := &Result{
		Rates:          make(map[models.Platform]map[models.DeliverableType]SuggestedRate),
		MarketInsights: strings.TrimSpace(wire.MarketInsights),
	}

	for platformKey, types := range wire.Rates {
		platform := models.Platform(platformKey)
		if _, known := ranges[platform]; !known {
			continue
		}
		for typeKey, rate := range types {
			deliverableType := models.DeliverableType(typeKey)
			if _, known := ranges[platform][deliverableType]; !known {
				continue
			}
			if rate.Suggested == nil {
				return nil, fmt.Errorf("rates.%s.%s: missing required field suggested", platformKey, typeKey)
			}

			validated := SuggestedRate{
				Suggested: clampPrice(*rate.Suggested),
				Reasoning: strings.TrimSpace(rate.Reasoning),
			}
			if rate.Min != nil {
				validated.Min = clampPrice(*rate.Min)
			}
			if rate.Max != nil {
				validated.Max = clampPrice(*rate.Max)
			}

			if result.Rates[platform] == nil {
				result.Rates[platform] = make(map[models.DeliverableType]SuggestedRate)
			}
			result.Rates[platform][deliverableType] = validated
		}
	}

	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("response contains no rates for known deliverables")
	}

	seenNames := make(map[string]bool)
	for i, pkg := range wire.Packages {
		name := strings.TrimSpace(pkg.Name)
		if name == "" {
			return nil, fmt.Errorf("packages[%d]: missing name", i)
		}
		if seenNames[name] {
			continue
		}
		if pkg.Price == nil {
			return nil, fmt.Errorf("packages[%d]: missing required field price", i)
		}

		items := make([]models.PackageItem, 0, len(pkg.Items))
		for _, item := range pkg.Items {
			platform := models.Platform(item.Platform)
			deliverableType := models.DeliverableType(item.DeliverableType)
			if !pricing.InUniverse(platform, deliverableType) {
				continue
			}
			if _, known := ranges[platform][deliverableType]; !known {
				continue
			}
			if item.Quantity == nil || *item.Quantity < 1 {
				continue
			}
			items = append(items, models.PackageItem{
				Platform:        platform,
				DeliverableType: deliverableType,
				Quantity:        *item.Quantity,
			})
		}
		if len(items) == 0 {
			continue
		}

		seenNames[name] = true
		result.Packages = append(result.Packages, SuggestedPackage{
			Name:  name,
			Items: items,
			Price: clampPrice(*pkg.Price),
		})
	}

	return result, nil
}

func clampPrice(v float64) int64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > float64(MaxReasonablePrice) {
		return MaxReasonablePrice
	}
	return int64(math.Round(v))
}
