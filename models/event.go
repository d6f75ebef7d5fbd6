package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventPayload is the structured, bounded body attached to an emitted event.
type EventPayload map[string]interface{}

// Value implements driver.Valuer interface for EventPayload
func (p EventPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for EventPayload
func (p *EventPayload) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return nil
}

// MaxEventPayloadBytes bounds the combined event+return payload emitted by
// any single entrypoint, per the engine's event-emitter contract.
const MaxEventPayloadBytes = 8 * 1024

// Event is a structured audit record emitted on every state transition the
// lifecycle controller performs. The topic vocabulary is stable across
// upgrades: MarketCreated, BetPlaced, BetCancelled, MarketResolved, and so on.
type Event struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Topic     string       `gorm:"type:varchar(50);not null;index:idx_events_topic" json:"topic"`
	MarketID  *string      `gorm:"type:varchar(32);index:idx_events_market" json:"market_id,omitempty"`
	ActorID   *uuid.UUID   `gorm:"type:uuid;index:idx_events_actor" json:"actor_id,omitempty"`
	Payload   EventPayload `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time    `gorm:"autoCreateTime;index:idx_events_created_at" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"-"`
}

// TableName specifies the table name for Event model
func (*Event) TableName() string {
	return "events"
}

// BeforeCreate sets up the model before creation
func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Validate performs validation on the event model, enforcing the bounded
// payload size the emitter contract requires.
func (e *Event) Validate() error {
	if e.Topic == "" {
		return ErrInvalidAuditAction
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	if len(raw) > MaxEventPayloadBytes {
		return ErrInvalidResourceType
	}
	return nil
}

// NewEvent builds an event record for the given topic, optionally scoped to
// a market and/or an acting identity.
func NewEvent(topic string, marketID *string, actorID *uuid.UUID, payload EventPayload) *Event {
	return &Event{
		Topic:    topic,
		MarketID: marketID,
		ActorID:  actorID,
		Payload:  payload,
	}
}
