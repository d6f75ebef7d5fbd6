package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementType represents the type of settlement record.
type SettlementType string

const (
	SettlementTypeWin    SettlementType = "win"
	SettlementTypeLoss   SettlementType = "loss"
	SettlementTypeRefund SettlementType = "refund"
	SettlementTypeFee    SettlementType = "fee"
)

// Settlement is an immutable audit record of a payout, loss, refund or fee
// collection produced by a finalized market.
type Settlement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID       MarketID        `gorm:"type:varchar(32);not null;index:idx_settlements_market" json:"market_id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_settlements_user" json:"user_id"`
	BetID          *uuid.UUID      `gorm:"type:uuid" json:"bet_id,omitempty"`
	SettlementType SettlementType  `gorm:"type:varchar(20);not null" json:"settlement_type"`
	OriginalAmount decimal.Decimal `gorm:"type:decimal(38,0);not null" json:"original_amount"`
	PayoutAmount   decimal.Decimal `gorm:"type:decimal(38,0);not null;default:0" json:"payout_amount"`
	TransactionID  *uuid.UUID      `gorm:"type:uuid" json:"transaction_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Market      *Market      `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bet         *Bet         `gorm:"foreignKey:BetID" json:"bet,omitempty"`
	Transaction *Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}

// TableName specifies the table name for Settlement model
func (*Settlement) TableName() string {
	return "settlements"
}

// BeforeCreate sets up the model before creation
func (s *Settlement) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsWin checks if this is a winning settlement
func (s *Settlement) IsWin() bool {
	return s.SettlementType == SettlementTypeWin
}

// GetNetAmount returns the net amount (payout - original stake)
func (s *Settlement) GetNetAmount() decimal.Decimal {
	return s.PayoutAmount.Sub(s.OriginalAmount)
}

// Validate performs validation on the settlement model
func (s *Settlement) Validate() error {
	if s.MarketID == "" {
		return ErrInvalidMarketID
	}
	if s.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if s.PayoutAmount.LessThan(decimal.Zero) {
		return ErrInvalidTransactionAmount
	}
	return nil
}

// CreateWinSettlement creates a winning payout settlement record.
func CreateWinSettlement(marketID string, userID, betID uuid.UUID, stake, payout decimal.Decimal) *Settlement {
	return &Settlement{
		MarketID:       marketID,
		UserID:         userID,
		BetID:          &betID,
		SettlementType: SettlementTypeWin,
		OriginalAmount: stake,
		PayoutAmount:   payout,
	}
}

// CreateLossSettlement creates a losing settlement record (no payout).
func CreateLossSettlement(marketID string, userID, betID uuid.UUID, stake decimal.Decimal) *Settlement {
	return &Settlement{
		MarketID:       marketID,
		UserID:         userID,
		BetID:          &betID,
		SettlementType: SettlementTypeLoss,
		OriginalAmount: stake,
		PayoutAmount:   decimal.Zero,
	}
}

// CreateRefundSettlement creates a refund settlement record (market cancellation).
func CreateRefundSettlement(marketID string, userID, betID uuid.UUID, stake decimal.Decimal) *Settlement {
	return &Settlement{
		MarketID:       marketID,
		UserID:         userID,
		BetID:          &betID,
		SettlementType: SettlementTypeRefund,
		OriginalAmount: stake,
		PayoutAmount:   stake,
	}
}

// CreateFeeSettlement creates a platform-fee collection record.
func CreateFeeSettlement(marketID string, adminID uuid.UUID, fee decimal.Decimal) *Settlement {
	return &Settlement{
		MarketID:       marketID,
		UserID:         adminID,
		SettlementType: SettlementTypeFee,
		OriginalAmount: fee,
		PayoutAmount:   fee,
	}
}
