package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"ratecard-service/internal/cache"
	"ratecard-service/internal/models"
)

const publicCacheTTL = 5 * time.Minute

// PublicRateCardService serves the anonymous read side of a published card.
// Password and expiry checks always run against the full card, cached or not,
// before anything is projected out.
type PublicRateCardService struct {
	catalogs CatalogStore
	cache    cache.Store
	now      func() time.Time
}

func NewPublicRateCardService(catalogs CatalogStore, cacheStore cache.Store) *PublicRateCardService {
	return &PublicRateCardService{
		catalogs: catalogs,
		cache:    cacheStore,
		now:      time.Now,
	}
}

// GetPublicRateCard resolves a public link. Unpublished, archived and expired
// cards all read as not found so the link leaks nothing about why it is gone.
// A successful read records the view asynchronously, off the request path.
func (s *PublicRateCardService) GetPublicRateCard(ctx context.Context, publicID, password string) (*models.PublicRateCard, error) {
	card, err := s.lookup(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if !card.IsPublic || card.Status != models.StatusActive {
		return nil, fmt.Errorf("public rate card %s: %w", publicID, models.ErrNotFound)
	}
	if card.EffectiveStatus(s.now()) == models.StatusExpired {
		return nil, fmt.Errorf("public rate card %s has expired: %w", publicID, models.ErrNotFound)
	}
	if card.PublicPassword != nil {
		if password == "" {
			return nil, fmt.Errorf("public rate card %s requires a password: %w", publicID, models.ErrUnauthorized)
		}
		supplied := hashPassword(password)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(*card.PublicPassword)) != 1 {
			return nil, fmt.Errorf("wrong password for public rate card %s: %w", publicID, models.ErrUnauthorized)
		}
	}

	s.trackView(card)

	return models.NewPublicRateCard(card), nil
}

// lookup fetches the full card behind a public id, read-through the public
// cache. The full card is cached rather than the projection so password and
// expiry enforcement never depend on cache freshness.
func (s *PublicRateCardService) lookup(ctx context.Context, publicID string) (*models.RateCard, error) {
	key := cache.PublicKey(publicID)
	var cached models.RateCard
	if ok := cacheGet(ctx, s.cache, key, &cached); ok {
		return &cached, nil
	}

	card, err := s.catalogs.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, s.cache, key, card, publicCacheTTL)
	return card, nil
}

// trackView increments the view counter fire-and-forget. The read path never
// waits on it and a failed increment only logs.
func (s *PublicRateCardService) trackView(card *models.RateCard) {
	id := card.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.catalogs.IncrementViewCount(ctx, id); err != nil {
			slog.Warn("View count increment failed", "rate_card_id", id, "error", err)
		}
	}()
}
