package models

import "time"

// ============================================================================
// RESPONSE DTOS
// ============================================================================

// HistoryPage is one page of the snapshot log, newest version first.
type HistoryPage struct {
	Items    []HistorySnapshot `json:"items"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// PublicRateCard is the projection served on the public link. It carries no
// owner identity, password material or versioning internals.
type PublicRateCard struct {
	Title          string          `json:"title"`
	Metrics        CreatorMetrics  `json:"metrics"`
	Rates          []PlatformRates `json:"rates"`
	Packages       []Package       `json:"packages"`
	Terms          string          `json:"terms,omitempty"`
	MarketInsights string          `json:"market_insights,omitempty"`
	PublishedAt    *time.Time      `json:"published_at,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
}

// NewPublicRateCard projects a rate card for anonymous consumption.
func NewPublicRateCard(card *RateCard) *PublicRateCard {
	return &PublicRateCard{
		Title:          card.Title,
		Metrics:        CreatorMetrics(card.Metrics),
		Rates:          []PlatformRates(card.Rates),
		Packages:       []Package(card.Packages),
		Terms:          card.Terms,
		MarketInsights: card.MarketInsights,
		PublishedAt:    card.PublishedAt,
		ExpiresAt:      card.ExpiresAt,
	}
}
