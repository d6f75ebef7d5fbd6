package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEventPayload(t *testing.T) {
	t.Run("Value and Scan", func(t *testing.T) {
		p := EventPayload{"outcome": "yes", "amount": "100"}
		value, err := p.Value()
		assert.NoError(t, err)

		var result EventPayload
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Equal(t, "yes", result["outcome"])

		var nilPayload EventPayload
		value, err = nilPayload.Value()
		assert.NoError(t, err)
		assert.Nil(t, value)
	})
}

func TestEvent(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		assert.Equal(t, "events", (&Event{}).TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		e := Event{}
		err := e.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, e.ID)
	})

	t.Run("Validate", func(t *testing.T) {
		e := Event{Topic: "BetPlaced", Payload: EventPayload{"outcome": "yes"}}
		assert.NoError(t, e.Validate())

		e.Topic = ""
		assert.Equal(t, ErrInvalidAuditAction, e.Validate())
	})

	t.Run("Validate rejects oversized payloads", func(t *testing.T) {
		e := Event{Topic: "BetPlaced", Payload: EventPayload{"blob": strings.Repeat("x", MaxEventPayloadBytes+1)}}
		assert.Error(t, e.Validate())
	})

	t.Run("NewEvent", func(t *testing.T) {
		marketID := "M-1"
		actorID := uuid.New()
		e := NewEvent("MarketCreated", &marketID, &actorID, EventPayload{"question": "will it rain"})

		assert.Equal(t, "MarketCreated", e.Topic)
		assert.Equal(t, &marketID, e.MarketID)
		assert.Equal(t, &actorID, e.ActorID)
	})
}
