package models

import "time"

// InstanceState is the process-wide singleton row holding the small pieces
// of global mutable state the engine needs outside of per-market records:
// the monotonic market counter and the reentrancy guard. Kept as exactly
// one row, enforced by the fixed primary key.
type InstanceState struct {
	ID             int       `gorm:"primary_key;default:1" json:"-"`
	MarketCounter  int64     `gorm:"not null;default:0" json:"market_counter"`
	ReentrancyFlag bool      `gorm:"not null;default:false" json:"reentrancy_flag"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for InstanceState model
func (*InstanceState) TableName() string {
	return "instance_state"
}

// instanceStateSingletonID is the fixed primary key of the single row.
const instanceStateSingletonID = 1

// NewInstanceState builds the initial singleton row.
func NewInstanceState() *InstanceState {
	return &InstanceState{ID: instanceStateSingletonID}
}
