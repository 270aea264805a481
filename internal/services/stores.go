package services

import (
	"context"

	"ratecard-service/internal/event"
	"ratecard-service/internal/models"

	"github.com/google/uuid"
)

// CatalogStore is the persistence capability the service layer mutates rate
// cards through. CommitMutation is the only write path for versioned state:
// it must append the pre-mutation snapshot, apply the mutation and advance the
// version atomically, failing with models.ErrConflict when the stored version
// has moved.
type CatalogStore interface {
	Create(ctx context.Context, card *models.RateCard) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RateCard, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.RateCard, error)
	ListByOwner(ctx context.Context, ownerID, status string) ([]models.RateCard, error)
	CountActiveByOwner(ctx context.Context, ownerID string) (int, error)
	CommitMutation(ctx context.Context, pre, mutated *models.RateCard, changeType models.ChangeType) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

// HistoryStore reads the append-only snapshot log.
type HistoryStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.HistorySnapshot, error)
	ListByRateCard(ctx context.Context, rateCardID uuid.UUID, limit, offset int) ([]models.HistorySnapshot, error)
	CountByRateCard(ctx context.Context, rateCardID uuid.UUID) (int, error)
}

// EventPublisher forwards committed lifecycle events to the message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev event.RateCardEvent) error
}
