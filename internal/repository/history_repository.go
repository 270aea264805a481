package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ratecard-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// HistoryRepository reads the append-only snapshot log. Writes happen only
// inside RateCardRepository.CommitMutation so a snapshot can never exist
// without its committed mutation.
type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HistorySnapshot, error) {
	var snapshot models.HistorySnapshot
	query := `
		SELECT id, rate_card_id, version, change_type, snapshot, created_at
		FROM rate_card_history
		WHERE id = $1`

	err := r.db.GetContext(ctx, &snapshot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history snapshot %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get history snapshot: %w", err)
	}

	return &snapshot, nil
}

func (r *HistoryRepository) ListByRateCard(ctx context.Context, rateCardID uuid.UUID, limit, offset int) ([]models.HistorySnapshot, error) {
	var snapshots []models.HistorySnapshot
	query := `
		SELECT id, rate_card_id, version, change_type, snapshot, created_at
		FROM rate_card_history
		WHERE rate_card_id = $1
		ORDER BY version DESC
		LIMIT $2 OFFSET $3`

	err := r.db.SelectContext(ctx, &snapshots, query, rateCardID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list history snapshots: %w", err)
	}

	return snapshots, nil
}

func (r *HistoryRepository) CountByRateCard(ctx context.Context, rateCardID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rate_card_history WHERE rate_card_id = $1`

	err := r.db.GetContext(ctx, &count, query, rateCardID)
	if err != nil {
		return 0, fmt.Errorf("failed to count history snapshots: %w", err)
	}

	return count, nil
}
