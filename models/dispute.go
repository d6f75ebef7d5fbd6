package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DisputeStakeStatus represents the outcome of a dispute stake after voting
// has concluded.
type DisputeStakeStatus string

const (
	DisputeStakeStatusOpen      DisputeStakeStatus = "open"
	DisputeStakeStatusReturned  DisputeStakeStatus = "returned"
	DisputeStakeStatusForfeited DisputeStakeStatus = "forfeited"
)

// DisputeStake is a per-(market, user) dispute pool entry, kept separate
// from regular bets and settled at the end of dispute voting.
type DisputeStake struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID  MarketID           `gorm:"type:varchar(32);not null;index:idx_dispute_stakes_market" json:"market_id"`
	UserID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_dispute_stakes_user" json:"user_id"`
	Outcome   string             `gorm:"type:varchar(100);not null" json:"outcome"`
	Amount    decimal.Decimal    `gorm:"type:decimal(38,0);not null;check:amount > 0" json:"amount"`
	Reason    string             `gorm:"type:varchar(1000)" json:"reason"`
	Status    DisputeStakeStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time          `gorm:"autoCreateTime" json:"created_at"`

	Market *Market `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for DisputeStake model
func (*DisputeStake) TableName() string {
	return "dispute_stakes"
}

// BeforeCreate sets up the model before creation
func (d *DisputeStake) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether the stake is still awaiting resolution.
func (d *DisputeStake) IsOpen() bool {
	return d.Status == DisputeStakeStatusOpen
}

// Return marks a winning-side stake as returned to its owner.
func (d *DisputeStake) Return() error {
	if !d.IsOpen() {
		return ErrBetNotActive
	}
	d.Status = DisputeStakeStatusReturned
	return nil
}

// Forfeit marks a losing-side stake as forfeited to the winning pool.
func (d *DisputeStake) Forfeit() error {
	if !d.IsOpen() {
		return ErrBetNotActive
	}
	d.Status = DisputeStakeStatusForfeited
	return nil
}

// Validate performs validation on the dispute stake model.
func (d *DisputeStake) Validate() error {
	if d.MarketID == "" {
		return ErrInvalidMarketID
	}
	if d.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if d.Outcome == "" {
		return ErrInvalidOutcome
	}
	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBetAmount
	}
	if len(d.Reason) > 1000 {
		return ErrInvalidDisputeReason
	}
	return nil
}

// ThresholdFactors are the bounded rational multipliers that scale the base
// dispute threshold for a given market.
type ThresholdFactors struct {
	SizeFactor       decimal.Decimal `json:"size_factor"`
	ActivityFactor   decimal.Decimal `json:"activity_factor"`
	ComplexityFactor decimal.Decimal `json:"complexity_factor"`
}

// Value implements driver.Valuer interface
func (f ThresholdFactors) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner interface
func (f *ThresholdFactors) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	}
	return nil
}

// ThresholdHistoryEntry records a single admin-driven adjustment to the
// dynamic dispute threshold for a market.
type ThresholdHistoryEntry struct {
	Threshold decimal.Decimal `json:"threshold"`
	Actor     uuid.UUID       `json:"actor"`
	Timestamp time.Time       `json:"timestamp"`
}

// ThresholdHistory is the append-only log of threshold adjustments.
type ThresholdHistory []ThresholdHistoryEntry

func (h ThresholdHistory) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *ThresholdHistory) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return nil
}
