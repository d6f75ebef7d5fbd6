package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/foresight/models"
)

type marketRepository struct {
	db *gorm.DB
}

// NewMarketRepository builds a gorm-backed MarketRepository.
func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) WithTx(tx *gorm.DB) MarketRepository {
	return &marketRepository{db: tx}
}

func (r *marketRepository) Create(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Create(market).Error
}

func (r *marketRepository) GetByID(ctx context.Context, id string) (*models.Market, error) {
	var market models.Market
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&market).Error; err != nil {
		return nil, err
	}
	return &market, nil
}

// GetForUpdate locks the market row for the lifetime of the enclosing
// transaction, preventing concurrent bets/resolutions from racing on the
// same market's stake totals.
func (r *marketRepository) GetForUpdate(ctx context.Context, id string) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

func (r *marketRepository) Update(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Save(market).Error
}

func (r *marketRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("state = ?", models.MarketStateActive).
		Order("end_time ASC").
		Limit(limit).Offset(offset).
		Find(&markets).Error
	return markets, err
}

func (r *marketRepository) ListByState(ctx context.Context, state models.MarketState, limit, offset int) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("end_time ASC").
		Limit(limit).Offset(offset).
		Find(&markets).Error
	return markets, err
}

func (r *marketRepository) ListEndedUnresolved(ctx context.Context, now time.Time) ([]models.Market, error) {
	var markets []models.Market
	err := r.db.WithContext(ctx).
		Where("state = ? AND end_time <= ?", models.MarketStateActive, now).
		Find(&markets).Error
	return markets, err
}

type betRepository struct {
	db *gorm.DB
}

// NewBetRepository builds a gorm-backed BetRepository.
func NewBetRepository(db *gorm.DB) BetRepository {
	return &betRepository{db: db}
}

func (r *betRepository) WithTx(tx *gorm.DB) BetRepository {
	return &betRepository{db: tx}
}

func (r *betRepository) Create(ctx context.Context, bet *models.Bet) error {
	return r.db.WithContext(ctx).Create(bet).Error
}

func (r *betRepository) Update(ctx context.Context, bet *models.Bet) error {
	return r.db.WithContext(ctx).Save(bet).Error
}

func (r *betRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	var bet models.Bet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&bet).Error; err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *betRepository) GetActiveByUserMarket(ctx context.Context, userID uuid.UUID, marketID string) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ? AND status = ?", userID, marketID, models.BetStatusActive).
		First(&bet).Error
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *betRepository) ListByUserMarket(ctx context.Context, userID uuid.UUID, marketID string) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ?", userID, marketID).
		Order("created_at DESC").
		Find(&bets).Error
	return bets, err
}

func (r *betRepository) ListByMarket(ctx context.Context, marketID string) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).Where("market_id = ?", marketID).Find(&bets).Error
	return bets, err
}

func (r *betRepository) ListActiveByMarket(ctx context.Context, marketID string) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("market_id = ? AND status = ?", marketID, models.BetStatusActive).
		Order("user_id ASC").
		Find(&bets).Error
	return bets, err
}

func (r *betRepository) ListActiveByMarketOutcome(ctx context.Context, marketID, outcome string) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("market_id = ? AND outcome = ? AND status = ?", marketID, outcome, models.BetStatusActive).
		Order("user_id ASC").
		Find(&bets).Error
	return bets, err
}

func (r *betRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Bet, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&bets).Error
	return bets, err
}

type disputeStakeRepository struct {
	db *gorm.DB
}

// NewDisputeStakeRepository builds a gorm-backed DisputeStakeRepository.
func NewDisputeStakeRepository(db *gorm.DB) DisputeStakeRepository {
	return &disputeStakeRepository{db: db}
}

func (r *disputeStakeRepository) WithTx(tx *gorm.DB) DisputeStakeRepository {
	return &disputeStakeRepository{db: tx}
}

func (r *disputeStakeRepository) Create(ctx context.Context, stake *models.DisputeStake) error {
	return r.db.WithContext(ctx).Create(stake).Error
}

func (r *disputeStakeRepository) Update(ctx context.Context, stake *models.DisputeStake) error {
	return r.db.WithContext(ctx).Save(stake).Error
}

func (r *disputeStakeRepository) ListByMarket(ctx context.Context, marketID string) ([]models.DisputeStake, error) {
	var stakes []models.DisputeStake
	err := r.db.WithContext(ctx).Where("market_id = ?", marketID).Find(&stakes).Error
	return stakes, err
}

func (r *disputeStakeRepository) ListByMarketOutcome(ctx context.Context, marketID, outcome string) ([]models.DisputeStake, error) {
	var stakes []models.DisputeStake
	err := r.db.WithContext(ctx).
		Where("market_id = ? AND outcome = ?", marketID, outcome).
		Find(&stakes).Error
	return stakes, err
}

// SumByMarket aggregates open dispute stake amounts per outcome, the tally
// the dispute module re-runs resolution against.
func (r *disputeStakeRepository) SumByMarket(ctx context.Context, marketID string) (map[string]decimal.Decimal, error) {
	var stakes []models.DisputeStake
	err := r.db.WithContext(ctx).
		Where("market_id = ? AND status = ?", marketID, models.DisputeStakeStatusOpen).
		Find(&stakes).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	for _, s := range stakes {
		totals[s.Outcome] = totals[s.Outcome].Add(s.Amount)
	}
	return totals, nil
}

type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository builds a gorm-backed SettlementRepository.
func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) WithTx(tx *gorm.DB) SettlementRepository {
	return &settlementRepository{db: tx}
}

func (r *settlementRepository) Create(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *settlementRepository) ListByMarket(ctx context.Context, marketID string) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.WithContext(ctx).Where("market_id = ?", marketID).Find(&settlements).Error
	return settlements, err
}

func (r *settlementRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&settlements).Error
	return settlements, err
}
