package core

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/models"
)

// Payout is the dust-free proportional payout engine.
type Payout struct {
	markets     MarketRepository
	bets        BetRepository
	settlements SettlementRepository
	transferer  ValueTransferer
	events      eventlog.EventLog
	cfg         *Config
}

// NewPayout builds the payout engine over transaction-scoped repositories.
func NewPayout(markets MarketRepository, bets BetRepository, settlements SettlementRepository, transferer ValueTransferer, events eventlog.EventLog, cfg *Config) *Payout {
	return &Payout{markets: markets, bets: bets, settlements: settlements, transferer: transferer, events: events, cfg: cfg}
}

// winningOutcomeSet returns the set of outcomes winners are staked on and
// the combined winning pool, covering both the single-winner and
// tied-winner-set variants of the payout formula.
func winningOutcomeSet(market *models.Market) ([]string, decimal.Decimal) {
	if len(market.WinningOutcomesTied) > 1 {
		total := decimal.Zero
		for _, o := range market.WinningOutcomesTied {
			total = total.Add(market.PerOutcomeTotal[o])
		}
		return market.WinningOutcomesTied, total
	}
	if market.WinningOutcome == nil {
		return nil, decimal.Zero
	}
	return []string{*market.WinningOutcome}, market.PerOutcomeTotal[*market.WinningOutcome]
}

func isWinningOutcome(market *models.Market, outcome string) bool {
	winners, _ := winningOutcomeSet(market)
	for _, o := range winners {
		if o == outcome {
			return true
		}
	}
	return false
}

// ClaimWinnings pays out a single winning bet's proportional share, marking
// it Claimed. Refuses a double-claim and a claim on a losing outcome.
func (p *Payout) ClaimWinnings(ctx context.Context, user uuid.UUID, marketID string) (decimal.Decimal, error) {
	market, err := p.markets.GetForUpdate(ctx, marketID)
	if err != nil {
		return decimal.Zero, models.ErrRecordNotFound
	}
	if market.State != models.MarketStateFinalized {
		return decimal.Zero, models.ErrMarketNotFinalized
	}

	bet, err := p.bets.GetActiveByUserMarket(ctx, user, marketID)
	if err != nil {
		prior, lookupErr := p.bets.ListByUserMarket(ctx, user, marketID)
		if lookupErr != nil || len(prior) == 0 {
			return decimal.Zero, models.ErrBetNotFound
		}
		for i := range prior {
			if prior[i].Status == models.BetStatusClaimed {
				return decimal.Zero, models.ErrAlreadyClaimed
			}
		}
		return decimal.Zero, models.ErrBetNotActive
	}
	if !isWinningOutcome(market, bet.Outcome) {
		return decimal.Zero, models.ErrNotWinningOutcome
	}

	payout, err := p.computePayout(ctx, market, bet)
	if err != nil {
		return decimal.Zero, err
	}

	if err := bet.Claim(payout); err != nil {
		return decimal.Zero, err
	}
	if err := p.bets.Update(ctx, bet); err != nil {
		return decimal.Zero, err
	}

	if err := p.transferer.Credit(ctx, user, payout, p.cfg.Currency); err != nil {
		return decimal.Zero, err
	}

	settlement := models.CreateWinSettlement(marketID, user, bet.ID, bet.Amount, payout)
	if err := p.settlements.Create(ctx, settlement); err != nil {
		return decimal.Zero, err
	}

	marketIDCopy := marketID
	if err := p.events.Emit(ctx, eventlog.TopicWinningsClaimed, &marketIDCopy, &user, models.EventPayload{
		"bet_id": bet.ID.String(),
		"payout": payout.String(),
	}); err != nil {
		return decimal.Zero, err
	}

	return payout, nil
}

// computePayout implements P_u = bet.amount + floor((L-F)*bet.amount/W),
// plus this bet's share of the 1-base-unit-at-a-time dust remainder,
// deterministically ordered by ascending user ID across all winning bets.
func (p *Payout) computePayout(ctx context.Context, market *models.Market, bet *models.Bet) (decimal.Decimal, error) {
	winners, winningPool := winningOutcomeSet(market)
	if winningPool.IsZero() {
		return decimal.Zero, models.ErrArithmeticOverflow
	}

	losingPool := market.TotalStaked.Sub(winningPool)
	fee := market.GetRakeAmount(losingPool)
	distributable := losingPool.Sub(fee)

	var winningBets []models.Bet
	for _, o := range winners {
		bs, err := p.bets.ListActiveByMarketOutcome(ctx, market.ID, o)
		if err != nil {
			return decimal.Zero, err
		}
		winningBets = append(winningBets, bs...)
	}
	sort.Slice(winningBets, func(i, j int) bool {
		return winningBets[i].UserID.String() < winningBets[j].UserID.String()
	})

	base := make(map[uuid.UUID]decimal.Decimal, len(winningBets))
	distributed := decimal.Zero
	for _, b := range winningBets {
		share := distributable.Mul(b.Amount).Div(winningPool).Floor()
		base[b.UserID] = share
		distributed = distributed.Add(share)
	}

	dust := distributable.Sub(distributed)
	one := decimal.NewFromInt(1)
	for i := 0; dust.GreaterThan(decimal.Zero) && i < len(winningBets); i++ {
		b := winningBets[i]
		base[b.UserID] = base[b.UserID].Add(one)
		dust = dust.Sub(one)
	}

	return bet.Amount.Add(base[bet.UserID]), nil
}

// CollectFees transfers the accrued platform fee for a finalized market to
// the admin, exactly once.
func (p *Payout) CollectFees(ctx context.Context, admin uuid.UUID, marketID string) (decimal.Decimal, error) {
	market, err := p.markets.GetForUpdate(ctx, marketID)
	if err != nil {
		return decimal.Zero, models.ErrRecordNotFound
	}
	if market.State != models.MarketStateFinalized {
		return decimal.Zero, models.ErrMarketNotFinalized
	}
	if market.FeeCollected {
		return decimal.Zero, models.ErrMarketAlreadyResolved
	}

	_, winningPool := winningOutcomeSet(market)
	losingPool := market.TotalStaked.Sub(winningPool)
	fee := market.GetRakeAmount(losingPool)

	if fee.GreaterThan(decimal.Zero) {
		if err := p.transferer.Credit(ctx, admin, fee, p.cfg.Currency); err != nil {
			return decimal.Zero, err
		}
	}

	market.FeeCollected = true
	if err := p.markets.Update(ctx, market); err != nil {
		return decimal.Zero, err
	}

	settlement := models.CreateFeeSettlement(marketID, admin, fee)
	if err := p.settlements.Create(ctx, settlement); err != nil {
		return decimal.Zero, err
	}

	marketIDCopy := marketID
	if err := p.events.Emit(ctx, eventlog.TopicFeeCollected, &marketIDCopy, &admin, models.EventPayload{
		"fee": fee.String(),
	}); err != nil {
		return decimal.Zero, err
	}

	return fee, nil
}

// RefundCancelledMarket marks every active bet on a cancelled market
// Refunded and returns each stake, charging no fee.
func (p *Payout) RefundCancelledMarket(ctx context.Context, market *models.Market) error {
	if market.State != models.MarketStateCancelled {
		return models.ErrMarketNotCancellable
	}
	bets, err := p.bets.ListActiveByMarket(ctx, market.ID)
	if err != nil {
		return err
	}
	for i := range bets {
		bet := &bets[i]
		if err := bet.Refund(); err != nil {
			continue
		}
		if err := p.bets.Update(ctx, bet); err != nil {
			return err
		}
		if err := p.transferer.Credit(ctx, bet.UserID, bet.Amount, p.cfg.Currency); err != nil {
			return err
		}
		settlement := models.CreateRefundSettlement(market.ID, bet.UserID, bet.ID, bet.Amount)
		if err := p.settlements.Create(ctx, settlement); err != nil {
			return err
		}
		marketID := market.ID
		userID := bet.UserID
		if err := p.events.Emit(ctx, eventlog.TopicRefunded, &marketID, &userID, models.EventPayload{
			"bet_id": bet.ID.String(),
			"amount": bet.Amount.String(),
		}); err != nil {
			return err
		}
	}
	return nil
}
