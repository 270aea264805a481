package services

import (
	"context"
	"testing"
	"time"

	"ratecard-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func publishedFixture(t *testing.T, req models.PublishRequest) (*fixture, *models.RateCard) {
	t.Helper()
	fx := newFixture(nil)
	ctx := context.Background()

	card, err := fx.service.CreateRateCard(ctx, "user-1", models.TierPro, testCreateRequest())
	require.NoError(t, err)
	published, err := fx.service.Publish(ctx, card.ID, req)
	require.NoError(t, err)
	return fx, published
}

// ============================================================================
// TEST SUITE 1: PUBLIC PROJECTION
// ============================================================================

func TestGetPublicRateCard_ProjectsWithoutInternals(t *testing.T) {
	fx, published := publishedFixture(t, models.PublishRequest{})

	view, err := fx.publicSvc.GetPublicRateCard(context.Background(), *published.PublicID, "")

	require.NoError(t, err)
	assert.Equal(t, published.Title, view.Title)
	assert.Len(t, view.Rates, 1)
	assert.NotEmpty(t, view.Packages)
	assert.NotNil(t, view.PublishedAt)
}

func TestGetPublicRateCard_UnknownLinkNotFound(t *testing.T) {
	fx := newFixture(nil)

	_, err := fx.publicSvc.GetPublicRateCard(context.Background(), "nosuchlink00", "")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetPublicRateCard_ArchivedReadsAsNotFound(t *testing.T) {
	fx, published := publishedFixture(t, models.PublishRequest{})

	_, err := fx.service.Archive(context.Background(), published.ID)
	require.NoError(t, err)

	_, err = fx.publicSvc.GetPublicRateCard(context.Background(), *published.PublicID, "")
	assert.ErrorIs(t, err, models.ErrNotFound,
		"a withdrawn link leaks nothing about why it is gone")
}

// ============================================================================
// TEST SUITE 2: PASSWORD AND EXPIRY
// ============================================================================

func TestGetPublicRateCard_PasswordEnforced(t *testing.T) {
	password := "secret99"
	fx, published := publishedFixture(t, models.PublishRequest{Password: &password})
	ctx := context.Background()

	_, err := fx.publicSvc.GetPublicRateCard(ctx, *published.PublicID, "")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = fx.publicSvc.GetPublicRateCard(ctx, *published.PublicID, "wrongpass")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	view, err := fx.publicSvc.GetPublicRateCard(ctx, *published.PublicID, password)
	require.NoError(t, err)
	assert.Equal(t, published.Title, view.Title)
}

func TestGetPublicRateCard_ExpiryEnforced(t *testing.T) {
	days := 7
	fx, published := publishedFixture(t, models.PublishRequest{ExpiryDays: &days})
	ctx := context.Background()

	_, err := fx.publicSvc.GetPublicRateCard(ctx, *published.PublicID, "")
	require.NoError(t, err, "the link serves until expiry")

	fx.publicSvc.now = func() time.Time { return time.Now().AddDate(0, 0, 8) }

	_, err = fx.publicSvc.GetPublicRateCard(ctx, *published.PublicID, "")
	assert.ErrorIs(t, err, models.ErrNotFound,
		"expiry derives from expires_at at read time, no stored transition")
}

// ============================================================================
// TEST SUITE 3: VIEW TRACKING
// ============================================================================

func TestGetPublicRateCard_TracksViewsOffTheReadPath(t *testing.T) {
	fx, published := publishedFixture(t, models.PublishRequest{})

	_, err := fx.publicSvc.GetPublicRateCard(context.Background(), *published.PublicID, "")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return fx.store.viewCount(published.ID) == 1
	}, time.Second, 10*time.Millisecond, "the view increment lands asynchronously")
}
