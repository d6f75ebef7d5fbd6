// Package eventlog persists the structured audit trail emitted on every
// state transition the lifecycle controller performs.
package eventlog

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/internal/logger"
	"github.com/joefazee/foresight/models"
)

// Topic vocabulary emitted by the lifecycle controller. Stable across
// upgrades; never renamed once shipped.
const (
	TopicMarketCreated            = "MarketCreated"
	TopicBetPlaced                = "BetPlaced"
	TopicBetCancelled             = "BetCancelled"
	TopicMarketResolved           = "MarketResolved"
	TopicOracleDegradation        = "OracleDegradation"
	TopicOracleConfigUpdated      = "OracleConfigUpdated"
	TopicOracleRecovery           = "OracleRecovery"
	TopicManualResolutionRequired = "ManualResolutionRequired"
	TopicDisputeOpened            = "DisputeOpened"
	TopicDisputeResolved          = "DisputeResolved"
	TopicWinningsClaimed          = "WinningsClaimed"
	TopicFeeCollected             = "FeeCollected"
	TopicAdminAdded               = "AdminAdded"
	TopicAdminRemoved             = "AdminRemoved"
	TopicRoleUpdated              = "RoleUpdated"
	TopicThresholdChanged         = "ThresholdChanged"
	TopicPendingActionCreated     = "PendingActionCreated"
	TopicPendingActionApproved    = "PendingActionApproved"
	TopicPendingActionExecuted    = "PendingActionExecuted"
	TopicMarketCancelled          = "MarketCancelled"
	TopicRefunded                 = "Refunded"
)

// EventLog is the narrow port the core module depends on to record an
// audit event.
type EventLog interface {
	Emit(ctx context.Context, topic string, marketID *string, actorID *uuid.UUID, payload models.EventPayload) error
	GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	WithTx(tx *gorm.DB) EventLog
}

type eventLog struct {
	db  *gorm.DB
	log logger.Logger
}

// New builds an EventLog persisting to Postgres via gorm, with diagnostic
// mirroring to the structured zerolog-backed logger.
func New(db *gorm.DB, log logger.Logger) EventLog {
	return &eventLog{db: db, log: log}
}

// Emit persists a bounded event record and mirrors it to the diagnostic
// logger. Oversized payloads are rejected before anything is written.
func (e *eventLog) Emit(ctx context.Context, topic string, marketID *string, actorID *uuid.UUID, payload models.EventPayload) error {
	event := models.NewEvent(topic, marketID, actorID, payload)
	if err := event.Validate(); err != nil {
		return err
	}

	if err := e.db.WithContext(ctx).Create(event).Error; err != nil {
		e.log.Error(err, map[string]interface{}{"topic": topic})
		return err
	}

	fields := map[string]interface{}{"topic": topic}
	if marketID != nil {
		fields["market_id"] = *marketID
	}
	if actorID != nil {
		fields["actor_id"] = actorID.String()
	}
	if raw, err := json.Marshal(payload); err == nil {
		fields["payload"] = string(raw)
	}
	e.log.Info("event emitted", fields)

	return nil
}

// GetByID fetches a single persisted event by its ID, backing the
// query_event_details/query_event_status read-only entrypoints.
func (e *eventLog) GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := e.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// WithTx returns an EventLog bound to an in-flight transaction, so events
// commit or roll back with the entrypoint they describe.
func (e *eventLog) WithTx(tx *gorm.DB) EventLog {
	return &eventLog{db: tx, log: e.log}
}
