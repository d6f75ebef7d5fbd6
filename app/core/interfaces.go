package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joefazee/foresight/models"
)

// MarketRepository is the persistence port for markets. GetForUpdate takes a
// row lock for the duration of the enclosing transaction so concurrent
// betting and resolution paths cannot race on the same stake totals.
type MarketRepository interface {
	WithTx(tx *gorm.DB) MarketRepository

	Create(ctx context.Context, market *models.Market) error
	GetByID(ctx context.Context, id string) (*models.Market, error)
	GetForUpdate(ctx context.Context, id string) (*models.Market, error)
	Update(ctx context.Context, market *models.Market) error
	ListActive(ctx context.Context, limit, offset int) ([]models.Market, error)
	ListByState(ctx context.Context, state models.MarketState, limit, offset int) ([]models.Market, error)
	ListEndedUnresolved(ctx context.Context, now time.Time) ([]models.Market, error)
}

// BetRepository is the persistence port for bets.
type BetRepository interface {
	WithTx(tx *gorm.DB) BetRepository

	Create(ctx context.Context, bet *models.Bet) error
	Update(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetActiveByUserMarket(ctx context.Context, userID uuid.UUID, marketID string) (*models.Bet, error)
	ListByUserMarket(ctx context.Context, userID uuid.UUID, marketID string) ([]models.Bet, error)
	ListByMarket(ctx context.Context, marketID string) ([]models.Bet, error)
	ListActiveByMarket(ctx context.Context, marketID string) ([]models.Bet, error)
	ListActiveByMarketOutcome(ctx context.Context, marketID, outcome string) ([]models.Bet, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bet, error)
}

// DisputeStakeRepository is the persistence port for dispute stakes.
type DisputeStakeRepository interface {
	WithTx(tx *gorm.DB) DisputeStakeRepository

	Create(ctx context.Context, stake *models.DisputeStake) error
	Update(ctx context.Context, stake *models.DisputeStake) error
	ListByMarket(ctx context.Context, marketID string) ([]models.DisputeStake, error)
	ListByMarketOutcome(ctx context.Context, marketID, outcome string) ([]models.DisputeStake, error)
	SumByMarket(ctx context.Context, marketID string) (map[string]decimal.Decimal, error)
}

// SettlementRepository is the persistence port for the audit trail of
// payouts, losses, refunds and fee collections.
type SettlementRepository interface {
	WithTx(tx *gorm.DB) SettlementRepository

	Create(ctx context.Context, settlement *models.Settlement) error
	ListByMarket(ctx context.Context, marketID string) ([]models.Settlement, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Settlement, error)
}
