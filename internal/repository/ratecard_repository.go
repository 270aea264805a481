package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ratecard-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const rateCardColumns = `
	id, owner_id, title, metrics, rates, packages, terms, market_insights,
	confidence, current_version, status, is_public, public_id, public_password,
	expires_at, published_at, view_count, created_at, updated_at`

type RateCardRepository struct {
	db *sqlx.DB
}

func NewRateCardRepository(db *sqlx.DB) *RateCardRepository {
	return &RateCardRepository{db: db}
}

func (r *RateCardRepository) Create(ctx context.Context, card *models.RateCard) error {
	slog.Info("Creating rate card",
		"rate_card_id", card.ID,
		"owner_id", card.OwnerID)

	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	query := `
		INSERT INTO rate_card (
			id, owner_id, title, metrics, rates, packages, terms, market_insights,
			confidence, current_version, status, is_public, public_id, public_password,
			expires_at, published_at, view_count, created_at, updated_at
		) VALUES (
			:id, :owner_id, :title, :metrics, :rates, :packages, :terms, :market_insights,
			:confidence, :current_version, :status, :is_public, :public_id, :public_password,
			:expires_at, :published_at, :view_count, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, card)
	if err != nil {
		slog.Error("Failed to create rate card",
			"rate_card_id", card.ID,
			"error", err)
		return fmt.Errorf("failed to create rate card: %w", err)
	}

	return nil
}

func (r *RateCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RateCard, error) {
	var card models.RateCard
	query := `SELECT ` + rateCardColumns + ` FROM rate_card WHERE id = $1`

	err := r.db.GetContext(ctx, &card, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rate card %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rate card: %w", err)
	}

	return &card, nil
}

func (r *RateCardRepository) GetByPublicID(ctx context.Context, publicID string) (*models.RateCard, error) {
	var card models.RateCard
	query := `SELECT ` + rateCardColumns + ` FROM rate_card WHERE public_id = $1`

	err := r.db.GetContext(ctx, &card, query, publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("public rate card %s: %w", publicID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rate card by public id: %w", err)
	}

	return &card, nil
}

func (r *RateCardRepository) ListByOwner(ctx context.Context, ownerID, status string) ([]models.RateCard, error) {
	var cards []models.RateCard

	if status == "" {
		query := `SELECT ` + rateCardColumns + ` FROM rate_card WHERE owner_id = $1 ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &cards, query, ownerID); err != nil {
			return nil, fmt.Errorf("failed to list rate cards by owner: %w", err)
		}
		return cards, nil
	}

	query := `SELECT ` + rateCardColumns + ` FROM rate_card WHERE owner_id = $1 AND status = $2 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &cards, query, ownerID, status); err != nil {
		return nil, fmt.Errorf("failed to list rate cards by owner and status: %w", err)
	}
	return cards, nil
}

// CountActiveByOwner counts the owner's non-archived rate cards, the quota basis.
func (r *RateCardRepository) CountActiveByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rate_card WHERE owner_id = $1 AND status != $2`

	err := r.db.GetContext(ctx, &count, query, ownerID, models.StatusArchived)
	if err != nil {
		return 0, fmt.Errorf("failed to count rate cards: %w", err)
	}

	return count, nil
}

// CommitMutation persists one versioned mutation as a single atomic unit:
// append a history snapshot of the pre-mutation state tagged with the current
// version, then apply the mutated fields with a compare-and-swap on
// current_version. A CAS miss means another editor committed first and
// surfaces as ErrConflict with nothing written.
func (r *RateCardRepository) CommitMutation(ctx context.Context, pre, mutated *models.RateCard, changeType models.ChangeType) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", models.ErrTransactionFailed)
	}
	defer tx.Rollback()

	snapshot := &models.HistorySnapshot{
		ID:         uuid.New(),
		RateCardID: pre.ID,
		Version:    pre.CurrentVersion,
		ChangeType: changeType,
		Snapshot: models.SnapshotDoc{
			Metrics:  models.CreatorMetrics(pre.Metrics),
			Rates:    pre.Rates,
			Packages: pre.Packages,
			Terms:    pre.Terms,
		},
		CreatedAt: time.Now(),
	}

	historyQuery := `
		INSERT INTO rate_card_history (id, rate_card_id, version, change_type, snapshot, created_at)
		VALUES (:id, :rate_card_id, :version, :change_type, :snapshot, :created_at)`

	if _, err := tx.NamedExecContext(ctx, historyQuery, snapshot); err != nil {
		slog.Error("Failed to write history snapshot",
			"rate_card_id", pre.ID,
			"version", pre.CurrentVersion,
			"error", err)
		return fmt.Errorf("failed to write history snapshot: %w", models.ErrTransactionFailed)
	}

	mutated.CurrentVersion = pre.CurrentVersion + 1
	mutated.UpdatedAt = time.Now()

	updateQuery := `
		UPDATE rate_card SET
			title = :title,
			metrics = :metrics,
			rates = :rates,
			packages = :packages,
			terms = :terms,
			market_insights = :market_insights,
			confidence = :confidence,
			current_version = :current_version,
			status = :status,
			is_public = :is_public,
			public_id = :public_id,
			public_password = :public_password,
			expires_at = :expires_at,
			published_at = :published_at,
			updated_at = :updated_at
		WHERE id = :id AND current_version = :expected_version`

	result, err := tx.NamedExecContext(ctx, updateQuery, map[string]any{
		"id":               mutated.ID,
		"title":            mutated.Title,
		"metrics":          mutated.Metrics,
		"rates":            mutated.Rates,
		"packages":         mutated.Packages,
		"terms":            mutated.Terms,
		"market_insights":  mutated.MarketInsights,
		"confidence":       mutated.Confidence,
		"current_version":  mutated.CurrentVersion,
		"status":           mutated.Status,
		"is_public":        mutated.IsPublic,
		"public_id":        mutated.PublicID,
		"public_password":  mutated.PublicPassword,
		"expires_at":       mutated.ExpiresAt,
		"published_at":     mutated.PublishedAt,
		"updated_at":       mutated.UpdatedAt,
		"expected_version": pre.CurrentVersion,
	})
	if err != nil {
		slog.Error("Failed to apply rate card mutation",
			"rate_card_id", mutated.ID,
			"change_type", changeType,
			"error", err)
		return fmt.Errorf("failed to apply mutation: %w", models.ErrTransactionFailed)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", models.ErrTransactionFailed)
	}
	if rowsAffected == 0 {
		slog.Warn("Version conflict on rate card mutation",
			"rate_card_id", mutated.ID,
			"expected_version", pre.CurrentVersion,
			"change_type", changeType)
		return fmt.Errorf("version %d has advanced: %w", pre.CurrentVersion, models.ErrConflict)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Failed to commit rate card mutation",
			"rate_card_id", mutated.ID,
			"error", err)
		return fmt.Errorf("failed to commit mutation: %w", models.ErrTransactionFailed)
	}

	slog.Info("Committed rate card mutation",
		"rate_card_id", mutated.ID,
		"change_type", changeType,
		"version", mutated.CurrentVersion)
	return nil
}

// IncrementViewCount bumps the public view counter. Called fire-and-forget
// off the public read path; does not touch current_version.
func (r *RateCardRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE rate_card SET view_count = view_count + 1 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}
