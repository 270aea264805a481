// Package advisory calls the external pricing-advisory service and validates
// its output against a strict schema. Every failure mode (timeout, transport
// error, malformed output) surfaces as an error the pricing engine absorbs
// into deterministic fallback; nothing here ever reaches an API caller.
package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ratecard-service/internal/ai/gemini"
	"ratecard-service/internal/models"
	"ratecard-service/internal/pricing"
)

// MaxReasonablePrice bounds every numeric the advisory service returns.
// Values above it are clamped, not trusted.
const MaxReasonablePrice int64 = 100_000_000

// RangeTable carries the locally computed expected range per deliverable,
// sent to the advisory service as an anchor and used as the parse allow-list.
type RangeTable map[models.Platform]map[models.DeliverableType]pricing.Band

// SuggestedRate is one validated advisory price suggestion.
type SuggestedRate struct {
	Suggested int64  `json:"suggested"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	Reasoning string `json:"reasoning,omitempty"`
}

// SuggestedPackage is one validated advisory bundle suggestion.
type SuggestedPackage struct {
	Name  string               `json:"name"`
	Items []models.PackageItem `json:"items"`
	Price int64                `json:"price"`
}

// Result is the validated advisory output.
type Result struct {
	Rates          map[models.Platform]map[models.DeliverableType]SuggestedRate
	Packages       []SuggestedPackage
	MarketInsights string
}

// Client is the advisory capability injected into the pricing engine.
type Client interface {
	Suggest(ctx context.Context, metrics models.CreatorMetrics, ranges RangeTable) (*Result, error)
}

// GeminiAdvisor implements Client over the Gemini transport with key failover.
type GeminiAdvisor struct {
	selector *gemini.GeminiClientSelector
	timeout  time.Duration
}

func NewGeminiAdvisor(selector *gemini.GeminiClientSelector, timeout time.Duration) *GeminiAdvisor {
	return &GeminiAdvisor{
		selector: selector,
		timeout:  timeout,
	}
}

// Suggest sends the creator profile plus expected ranges and strictly parses
// the response. The context deadline bounds the whole exchange; a response
// arriving after the deadline is discarded with the cancelled request and can
// never mutate state.
func (a *GeminiAdvisor) Suggest(ctx context.Context, metrics models.CreatorMetrics, ranges RangeTable) (*Result, error) {
	prompt := BuildPrompt(metrics, ranges)

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := gemini.SendTextPromptWithRetry(ctx, prompt, a.selector)
	if err != nil {
		return nil, fmt.Errorf("advisory request failed: %w", err)
	}

	result, err := ParseResponse(raw, ranges)
	if err != nil {
		return nil, fmt.Errorf("advisory response rejected: %w", err)
	}

	slog.Info("Advisory suggestion received",
		"platforms", len(result.Rates),
		"packages", len(result.Packages),
		"duration", time.Since(start))
	return result, nil
}
