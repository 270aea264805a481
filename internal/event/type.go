package event

import (
	"time"

	"github.com/google/uuid"
)

// RateCardQueue feeds the notification and analytics collaborators.
const RateCardQueue = "rate_card_events"

type EventType string

const (
	EventRateCardCreated   EventType = "ratecard.created"
	EventRateCardUpdated   EventType = "ratecard.updated"
	EventRateCardPublished EventType = "ratecard.published"
	EventRateCardRestored  EventType = "ratecard.restored"
	EventRateCardArchived  EventType = "ratecard.archived"
)

type RateCardEvent struct {
	Type       EventType `json:"type"`
	RateCardID uuid.UUID `json:"rate_card_id"`
	OwnerID    string    `json:"owner_id"`
	Version    int       `json:"version"`
	ChangeType string    `json:"change_type,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
