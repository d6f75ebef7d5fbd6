package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BetStatus represents the status of a bet.
type BetStatus string

const (
	BetStatusActive    BetStatus = "active"
	BetStatusCancelled BetStatus = "cancelled"
	BetStatusClaimed   BetStatus = "claimed"
	BetStatusRefunded  BetStatus = "refunded"
)

// BetMetadata represents additional bet metadata captured at placement time.
type BetMetadata struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Value implements driver.Valuer interface
func (bm *BetMetadata) Value() (driver.Value, error) {
	return json.Marshal(bm)
}

// Scan implements sql.Scanner interface
func (bm *BetMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, bm)
	case string:
		return json.Unmarshal([]byte(v), bm)
	}
	return nil
}

// Bet represents a single user's stake on one outcome of one market. At most
// one Active bet may exist per (user, market) pair.
type Bet struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_bets_user_market" json:"user_id"`
	MarketID      MarketID         `gorm:"type:varchar(32);not null;index:idx_bets_user_market" json:"market_id"`
	Outcome       string           `gorm:"type:varchar(100);not null" json:"outcome"`
	Amount        decimal.Decimal  `gorm:"type:decimal(38,0);not null;check:amount > 0" json:"amount"`
	TransactionID uuid.UUID        `gorm:"type:uuid;not null" json:"transaction_id"`
	Status        BetStatus        `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	SettledAt     *time.Time       `gorm:"type:timestamptz" json:"settled_at"`
	PayoutAmount  *decimal.Decimal `gorm:"type:decimal(38,0)" json:"payout_amount"`
	Metadata      *BetMetadata     `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Market      *Market      `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
	Settlements []Settlement `gorm:"foreignKey:BetID" json:"-"`
}

// TableName specifies the table name for Bet model
func (*Bet) TableName() string {
	return "bets"
}

// BeforeCreate sets up the model before creation
func (b *Bet) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IsActive checks if the bet is still active
func (b *Bet) IsActive() bool {
	return b.Status == BetStatusActive
}

// Cancel marks the bet cancelled, returning the staked amount via the
// caller's value transfer.
func (b *Bet) Cancel() error {
	if !b.IsActive() {
		return ErrBetNotActive
	}
	now := time.Now()
	b.Status = BetStatusCancelled
	b.SettledAt = &now
	return nil
}

// Claim marks the bet claimed with the given payout amount.
func (b *Bet) Claim(payout decimal.Decimal) error {
	if !b.IsActive() {
		if b.Status == BetStatusClaimed {
			return ErrAlreadyClaimed
		}
		return ErrBetNotActive
	}
	now := time.Now()
	b.Status = BetStatusClaimed
	b.SettledAt = &now
	b.PayoutAmount = &payout
	return nil
}

// Refund marks the bet refunded on market cancellation.
func (b *Bet) Refund() error {
	if !b.IsActive() {
		return ErrBetNotActive
	}
	now := time.Now()
	b.Status = BetStatusRefunded
	b.SettledAt = &now
	refund := b.Amount
	b.PayoutAmount = &refund
	return nil
}

// Validate performs validation on the bet model
func (b *Bet) Validate() error {
	if b.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if b.MarketID == "" {
		return ErrInvalidMarketID
	}
	if b.Outcome == "" {
		return ErrInvalidOutcome
	}
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidBetAmount
	}
	if b.TransactionID == uuid.Nil {
		return ErrInvalidTransactionType
	}
	return nil
}
