package core

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/models"
)

// Dispute is the dispute module: dispute stakes, the dynamic
// threshold, dispute voting, and stake forfeiture/return.
type Dispute struct {
	markets    MarketRepository
	stakes     DisputeStakeRepository
	bets       BetRepository
	resolution *Resolution
	transferer ValueTransferer
	events     eventlog.EventLog
	cfg        *Config
	clock      Clock
}

// NewDispute builds the dispute module over transaction-scoped repositories.
func NewDispute(markets MarketRepository, stakes DisputeStakeRepository, bets BetRepository, resolution *Resolution, transferer ValueTransferer, events eventlog.EventLog, cfg *Config, clock Clock) *Dispute {
	return &Dispute{markets: markets, stakes: stakes, bets: bets, resolution: resolution, transferer: transferer, events: events, cfg: cfg, clock: clock}
}

// DynamicThreshold computes base_threshold * (1+size) * (1+activity) *
// (1+complexity), clamped to [base, MaxDisputeThreshold].
func (d *Dispute) DynamicThreshold(market *models.Market, factors models.ThresholdFactors) decimal.Decimal {
	one := decimal.NewFromInt(1)
	threshold := d.cfg.BaseDisputeThreshold.
		Mul(one.Add(factors.SizeFactor)).
		Mul(one.Add(factors.ActivityFactor)).
		Mul(one.Add(factors.ComplexityFactor))

	if threshold.LessThan(d.cfg.BaseDisputeThreshold) {
		return d.cfg.BaseDisputeThreshold
	}
	if threshold.GreaterThan(d.cfg.MaxDisputeThreshold) {
		return d.cfg.MaxDisputeThreshold
	}
	return threshold
}

// factorsFor derives the bounded size/activity/complexity factors for a
// market from its own observable stake and outcome-count data.
func (d *Dispute) factorsFor(market *models.Market) models.ThresholdFactors {
	size := market.TotalStaked.Div(d.cfg.BaseDisputeThreshold.Mul(decimal.NewFromInt(100)))
	if size.GreaterThan(decimal.NewFromInt(1)) {
		size = decimal.NewFromInt(1)
	}
	activity := decimal.NewFromInt(int64(len(market.PerOutcomeTotal))).Div(decimal.NewFromInt(10))
	if activity.GreaterThan(decimal.NewFromInt(1)) {
		activity = decimal.NewFromInt(1)
	}
	complexity := decimal.NewFromInt(int64(len(market.Outcomes))).Div(decimal.NewFromInt(10))
	if complexity.GreaterThan(decimal.NewFromInt(1)) {
		complexity = decimal.NewFromInt(1)
	}
	return models.ThresholdFactors{SizeFactor: size, ActivityFactor: activity, ComplexityFactor: complexity}
}

// DisputeMarket opens (or adds to) a dispute against a Resolved market's
// outcome, requiring a stake at or above the dynamic threshold.
func (d *Dispute) DisputeMarket(ctx context.Context, user uuid.UUID, market *models.Market, outcome string, stake decimal.Decimal, reason string) error {
	now := d.clock.Now()
	if market.State != models.MarketStateResolved {
		return models.ErrMarketNotResolved
	}
	if !market.IsDisputeWindowOpen(now) {
		return models.ErrDisputeWindowClosed
	}
	if err := ValidateOutcomeInMarket(market, outcome); err != nil {
		return err
	}
	if err := ValidateDisputeReason(reason); err != nil {
		return err
	}

	threshold := d.DynamicThreshold(market, d.factorsFor(market))
	if err := ValidateThreshold(stake, threshold); err != nil {
		return err
	}

	if err := d.transferer.Debit(ctx, user, stake, d.cfg.Currency); err != nil {
		return err
	}

	disputeStake := &models.DisputeStake{
		MarketID: market.ID,
		UserID:   user,
		Outcome:  outcome,
		Amount:   stake,
		Reason:   reason,
		Status:   models.DisputeStakeStatusOpen,
	}
	if err := disputeStake.Validate(); err != nil {
		return err
	}
	if err := d.stakes.Create(ctx, disputeStake); err != nil {
		return err
	}

	market.DisputeStakesTotal = market.DisputeStakesTotal.Add(stake)
	market.State = models.MarketStateDisputed
	market.ExtensionHistory = append(market.ExtensionHistory, models.ExtensionEntry{
		DaysAdded: d.cfg.DisputeExtensionHours / 24,
		Reason:    "dispute opened",
		Actor:     user,
		Timestamp: now,
	})
	if err := d.markets.Update(ctx, market); err != nil {
		return err
	}

	marketID := market.ID
	return d.events.Emit(ctx, eventlog.TopicDisputeOpened, &marketID, &user, models.EventPayload{
		"outcome": outcome,
		"stake":   stake.String(),
	})
}

// VoteOnDispute records an additional dispute stake on an outcome while the
// market is in DisputeVoting.
func (d *Dispute) VoteOnDispute(ctx context.Context, user uuid.UUID, market *models.Market, outcome string, stake decimal.Decimal, reason string) error {
	if market.State != models.MarketStateDisputed && market.State != models.MarketStateDisputeVoting {
		return models.ErrMarketNotDisputed
	}
	if err := ValidateOutcomeInMarket(market, outcome); err != nil {
		return err
	}
	if err := ValidateDisputeReason(reason); err != nil {
		return err
	}
	market.State = models.MarketStateDisputeVoting

	if err := d.transferer.Debit(ctx, user, stake, d.cfg.Currency); err != nil {
		return err
	}

	disputeStake := &models.DisputeStake{
		MarketID: market.ID,
		UserID:   user,
		Outcome:  outcome,
		Amount:   stake,
		Reason:   reason,
		Status:   models.DisputeStakeStatusOpen,
	}
	if err := disputeStake.Validate(); err != nil {
		return err
	}
	if err := d.stakes.Create(ctx, disputeStake); err != nil {
		return err
	}
	market.DisputeStakesTotal = market.DisputeStakesTotal.Add(stake)
	return d.markets.Update(ctx, market)
}

// ResolveDispute concludes dispute voting: the dispute tally replaces the
// community tally for one re-run of outcome selection (oracle weight
// unchanged), then settles dispute stakes, forfeiting the losing side to
// the winning pool and returning the winning side's principal.
func (d *Dispute) ResolveDispute(ctx context.Context, market *models.Market) error {
	if market.State != models.MarketStateDisputed && market.State != models.MarketStateDisputeVoting {
		return models.ErrMarketNotDisputed
	}

	tally, err := d.stakes.SumByMarket(ctx, market.ID)
	if err != nil {
		return err
	}

	disputeWinner, disputeTied := communityArgmax(tally)
	if market.OracleResult != nil {
		disputeWinner = d.resolution.hybridSelect(market.Outcomes, tally, *market.OracleResult)
		disputeTied = nil
	}
	market.WinningOutcome = &disputeWinner
	market.WinningOutcomesTied = nil
	if len(disputeTied) > 1 {
		market.WinningOutcomesTied = disputeTied
	}
	market.State = models.MarketStateResolved
	resolvedAt := d.clock.Now()
	market.ResolvedAt = &resolvedAt

	if err := d.markets.Update(ctx, market); err != nil {
		return err
	}

	winningSet := map[string]bool{}
	if len(market.WinningOutcomesTied) > 1 {
		for _, o := range market.WinningOutcomesTied {
			winningSet[o] = true
		}
	} else {
		winningSet[disputeWinner] = true
	}

	stakes, err := d.stakes.ListByMarket(ctx, market.ID)
	if err != nil {
		return err
	}
	sort.Slice(stakes, func(i, j int) bool { return stakes[i].UserID.String() < stakes[j].UserID.String() })

	forfeited := decimal.Zero
	winningTotal := decimal.Zero
	var winners []*models.DisputeStake
	for i := range stakes {
		s := &stakes[i]
		if !s.IsOpen() {
			continue
		}
		if winningSet[s.Outcome] {
			winners = append(winners, s)
			winningTotal = winningTotal.Add(s.Amount)
			continue
		}
		if err := s.Forfeit(); err != nil {
			return err
		}
		if err := d.stakes.Update(ctx, s); err != nil {
			return err
		}
		forfeited = forfeited.Add(s.Amount)
	}

	// Winning-side stakes come back with their principal plus a pro-rata
	// share of the forfeited pool; the floor-division remainder goes one
	// base unit at a time down the already-sorted winners.
	shares := make([]decimal.Decimal, len(winners))
	distributed := decimal.Zero
	for i, s := range winners {
		if !winningTotal.IsZero() {
			shares[i] = forfeited.Mul(s.Amount).Div(winningTotal).Floor()
			distributed = distributed.Add(shares[i])
		}
	}
	dust := forfeited.Sub(distributed)
	one := decimal.NewFromInt(1)
	for i := 0; dust.GreaterThan(decimal.Zero) && i < len(winners); i++ {
		shares[i] = shares[i].Add(one)
		dust = dust.Sub(one)
	}
	for i, s := range winners {
		if err := s.Return(); err != nil {
			return err
		}
		if err := d.stakes.Update(ctx, s); err != nil {
			return err
		}
		if err := d.transferer.Credit(ctx, s.UserID, s.Amount.Add(shares[i]), d.cfg.Currency); err != nil {
			return err
		}
	}

	marketID := market.ID
	return d.events.Emit(ctx, eventlog.TopicDisputeResolved, &marketID, nil, models.EventPayload{
		"winning_outcome": disputeWinner,
	})
}

// AdjustThreshold is the admin-authorized entrypoint to append a manual
// adjustment to a market's dynamic threshold history.
func (d *Dispute) AdjustThreshold(ctx context.Context, admin uuid.UUID, market *models.Market, newThreshold decimal.Decimal) error {
	if newThreshold.LessThan(d.cfg.BaseDisputeThreshold) || newThreshold.GreaterThan(d.cfg.MaxDisputeThreshold) {
		return models.ErrInvalidThresholdFactor
	}
	market.ThresholdHistory = append(market.ThresholdHistory, models.ThresholdHistoryEntry{
		Threshold: newThreshold,
		Actor:     admin,
		Timestamp: d.clock.Now(),
	})
	return d.markets.Update(ctx, market)
}
