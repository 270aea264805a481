package services

import (
	"fmt"

	"ratecard-service/internal/config"
	"ratecard-service/internal/models"
)

// UnlimitedQuota marks a tier with no cap on active rate cards.
const UnlimitedQuota = -1

// QuotaGuard enforces the per-tier cap on non-archived rate cards. Archived
// cards never count against the quota, so archiving frees a slot.
type QuotaGuard struct {
	limits map[models.SubscriptionTier]int
}

func NewQuotaGuard(cfg config.QuotaConfig) *QuotaGuard {
	return &QuotaGuard{
		limits: map[models.SubscriptionTier]int{
			models.TierFree:       cfg.FreeLimit,
			models.TierStarter:    cfg.StarterLimit,
			models.TierPro:        cfg.ProLimit,
			models.TierEnterprise: cfg.EnterpriseLimit,
		},
	}
}

// LimitFor returns the cap for a tier. Unknown tiers fall back to the free
// tier limit, the most restrictive one.
func (g *QuotaGuard) LimitFor(tier models.SubscriptionTier) int {
	limit, ok := g.limits[tier]
	if !ok {
		return g.limits[models.TierFree]
	}
	return limit
}

// Authorize checks whether a creator with activeCount non-archived rate cards
// may create another one. Returns models.ErrQuotaExceeded when the tier cap
// is reached.
func (g *QuotaGuard) Authorize(tier models.SubscriptionTier, activeCount int) error {
	limit := g.LimitFor(tier)
	if limit == UnlimitedQuota {
		return nil
	}
	if activeCount >= limit {
		return fmt.Errorf("tier %s allows %d active rate cards: %w", tier, limit, models.ErrQuotaExceeded)
	}
	return nil
}
