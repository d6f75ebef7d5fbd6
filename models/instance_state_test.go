package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceState(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		assert.Equal(t, "instance_state", (&InstanceState{}).TableName())
	})

	t.Run("NewInstanceState", func(t *testing.T) {
		s := NewInstanceState()
		assert.Equal(t, instanceStateSingletonID, s.ID)
		assert.False(t, s.ReentrancyFlag)
		assert.Equal(t, int64(0), s.MarketCounter)
	})
}
