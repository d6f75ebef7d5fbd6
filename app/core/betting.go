package core

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/models"
)

// BetItem is a single leg of a batched PlaceBets call.
type BetItem struct {
	MarketID string
	Outcome  string
	Amount   decimal.Decimal
}

// Betting is the bet/stake ledger. Every method assumes its repositories
// are already bound to the enclosing transaction by the controller's bind
// step.
type Betting struct {
	markets    MarketRepository
	bets       BetRepository
	transferer ValueTransferer
	events     eventlog.EventLog
	cfg        *Config
	clock      Clock
}

// NewBetting builds the betting module over transaction-scoped repositories.
func NewBetting(markets MarketRepository, bets BetRepository, transferer ValueTransferer, events eventlog.EventLog, cfg *Config, clock Clock) *Betting {
	return &Betting{markets: markets, bets: bets, transferer: transferer, events: events, cfg: cfg, clock: clock}
}

// PlaceBet places a single stake on one outcome of one market.
func (b *Betting) PlaceBet(ctx context.Context, user uuid.UUID, marketID, outcome string, amount decimal.Decimal) (*models.Bet, error) {
	market, err := b.markets.GetForUpdate(ctx, marketID)
	if err != nil {
		return nil, models.ErrRecordNotFound
	}

	now := b.clock.Now()
	if err := b.checkCanBet(market, outcome, amount, now); err != nil {
		return nil, err
	}

	if _, err := b.bets.GetActiveByUserMarket(ctx, user, marketID); err == nil {
		return nil, models.ErrAlreadyBet
	}

	if err := b.transferer.Debit(ctx, user, amount, b.cfg.Currency); err != nil {
		return nil, err
	}

	bet := &models.Bet{
		UserID:        user,
		MarketID:      marketID,
		Outcome:       outcome,
		Amount:        amount,
		TransactionID: uuid.New(),
		Status:        models.BetStatusActive,
	}
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	if err := b.bets.Create(ctx, bet); err != nil {
		return nil, err
	}

	if err := b.applyStake(market, outcome, amount); err != nil {
		return nil, err
	}
	if err := b.markets.Update(ctx, market); err != nil {
		return nil, err
	}

	if err := b.emitBetPlaced(ctx, bet); err != nil {
		return nil, err
	}

	return bet, nil
}

// PlaceBets places a batch of stakes atomically: every validation runs
// before any transfer, and any failure aborts the whole batch. Row locks
// are taken in ascending market-ID order so two concurrent batches
// touching the same markets cannot deadlock.
func (b *Betting) PlaceBets(ctx context.Context, user uuid.UUID, items []BetItem) ([]*models.Bet, error) {
	if len(items) < 1 || len(items) > b.cfg.MaxBatchSize {
		return nil, models.ErrBatchSizeExceeded
	}

	ordered := append([]BetItem{}, items...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].MarketID < ordered[j].MarketID })

	now := b.clock.Now()
	type leg struct {
		market *models.Market
		item   BetItem
	}
	legs := make([]leg, 0, len(ordered))
	total := decimal.Zero

	for i, item := range ordered {
		if i > 0 && item.MarketID == ordered[i-1].MarketID {
			return nil, models.ErrAlreadyBet
		}
		market, err := b.markets.GetForUpdate(ctx, item.MarketID)
		if err != nil {
			return nil, models.ErrRecordNotFound
		}
		if err := b.checkCanBet(market, item.Outcome, item.Amount, now); err != nil {
			return nil, err
		}
		if _, err := b.bets.GetActiveByUserMarket(ctx, user, item.MarketID); err == nil {
			return nil, models.ErrAlreadyBet
		}
		total = total.Add(item.Amount)
		if total.GreaterThan(b.cfg.MaxStake.Mul(decimal.NewFromInt(int64(b.cfg.MaxBatchSize)))) {
			return nil, models.ErrArithmeticOverflow
		}
		legs = append(legs, leg{market: market, item: item})
	}

	if err := b.transferer.Debit(ctx, user, total, b.cfg.Currency); err != nil {
		return nil, err
	}

	placed := make([]*models.Bet, 0, len(legs))
	for _, l := range legs {
		bet := &models.Bet{
			UserID:        user,
			MarketID:      l.item.MarketID,
			Outcome:       l.item.Outcome,
			Amount:        l.item.Amount,
			TransactionID: uuid.New(),
			Status:        models.BetStatusActive,
		}
		if err := bet.Validate(); err != nil {
			return nil, err
		}
		if err := b.bets.Create(ctx, bet); err != nil {
			return nil, err
		}
		if err := b.applyStake(l.market, l.item.Outcome, l.item.Amount); err != nil {
			return nil, err
		}
		if err := b.markets.Update(ctx, l.market); err != nil {
			return nil, err
		}
		if err := b.emitBetPlaced(ctx, bet); err != nil {
			return nil, err
		}
		placed = append(placed, bet)
	}

	return placed, nil
}

// CancelBet reverts a user's active bet on a market that has not yet ended.
func (b *Betting) CancelBet(ctx context.Context, user uuid.UUID, marketID string) error {
	market, err := b.markets.GetForUpdate(ctx, marketID)
	if err != nil {
		return models.ErrRecordNotFound
	}
	now := b.clock.Now()
	if !now.Before(market.EndTime) {
		return models.ErrMarketClosed
	}

	bet, err := b.bets.GetActiveByUserMarket(ctx, user, marketID)
	if err != nil {
		return models.ErrBetNotFound
	}

	if err := bet.Cancel(); err != nil {
		return err
	}
	if err := b.bets.Update(ctx, bet); err != nil {
		return err
	}

	if err := b.revertStake(market, bet.Outcome, bet.Amount); err != nil {
		return err
	}
	if err := b.markets.Update(ctx, market); err != nil {
		return err
	}

	if err := b.transferer.Credit(ctx, user, bet.Amount, b.cfg.Currency); err != nil {
		return err
	}

	marketIDCopy := marketID
	return b.events.Emit(ctx, eventlog.TopicBetCancelled, &marketIDCopy, &user, models.EventPayload{
		"bet_id":  bet.ID.String(),
		"outcome": bet.Outcome,
		"amount":  bet.Amount.String(),
	})
}

func (b *Betting) checkCanBet(market *models.Market, outcome string, amount decimal.Decimal, now time.Time) error {
	if !market.CanBet(now) {
		return models.ErrMarketClosed
	}
	if err := ValidateOutcomeInMarket(market, outcome); err != nil {
		return err
	}
	return ValidateBet(b.cfg, amount)
}

func (b *Betting) applyStake(market *models.Market, outcome string, amount decimal.Decimal) error {
	if market.PerOutcomeTotal == nil {
		market.PerOutcomeTotal = models.OutcomeTotals{}
	}
	market.PerOutcomeTotal[outcome] = market.PerOutcomeTotal[outcome].Add(amount)
	market.TotalStaked = market.TotalStaked.Add(amount)
	return nil
}

func (b *Betting) revertStake(market *models.Market, outcome string, amount decimal.Decimal) error {
	current, ok := market.PerOutcomeTotal[outcome]
	if !ok || current.LessThan(amount) {
		return models.ErrArithmeticOverflow
	}
	market.PerOutcomeTotal[outcome] = current.Sub(amount)
	market.TotalStaked = market.TotalStaked.Sub(amount)
	return nil
}

func (b *Betting) emitBetPlaced(ctx context.Context, bet *models.Bet) error {
	marketID := bet.MarketID
	user := bet.UserID
	return b.events.Emit(ctx, eventlog.TopicBetPlaced, &marketID, &user, models.EventPayload{
		"bet_id":  bet.ID.String(),
		"outcome": bet.Outcome,
		"amount":  bet.Amount.String(),
	})
}
