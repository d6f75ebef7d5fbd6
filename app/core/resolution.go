package core

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/app/oracle"
	"github.com/joefazee/foresight/internal/eventlog"
	"github.com/joefazee/foresight/internal/ledger"
	"github.com/joefazee/foresight/models"
)

// Resolution is the hybrid oracle+community resolution engine.
type Resolution struct {
	markets MarketRepository
	bets    BetRepository
	oracles oracle.Adapter
	events  eventlog.EventLog
	temp    ledger.Temporary
	cfg     *Config
	clock   Clock
}

// NewResolution builds the resolution engine over transaction-scoped
// repositories.
func NewResolution(markets MarketRepository, bets BetRepository, oracles oracle.Adapter, events eventlog.EventLog, temp ledger.Temporary, cfg *Config, clock Clock) *Resolution {
	return &Resolution{markets: markets, bets: bets, oracles: oracles, events: events, temp: temp, cfg: cfg, clock: clock}
}

// oracleResultKey is the temporary-namespace key caching a market's accepted
// oracle reading between resolution attempts.
func oracleResultKey(marketID string) string {
	return "oracle_result:" + marketID
}

// FetchOracleResult resolves and caches the market's oracle reading without
// advancing its lifecycle state, so callers may inspect it before
// triggering a full resolution. An accepted reading is held in the
// temporary namespace for the cache window, so repeated resolution
// attempts inside that window do not re-invoke the feed.
func (r *Resolution) FetchOracleResult(ctx context.Context, market *models.Market) (string, error) {
	key := oracleResultKey(market.ID)
	if cached, found, err := r.temp.Get(ctx, key); err == nil && found {
		return cached, nil
	}

	now := r.clock.Now()
	outcome, err := r.oracles.ResolveOutcome(ctx, market.OracleConfig, market.FallbackOracleConfig, now)
	if err != nil {
		marketID := market.ID
		_ = r.events.Emit(ctx, eventlog.TopicOracleDegradation, &marketID, nil, models.EventPayload{"reason": err.Error()})
		return "", err
	}
	_ = r.temp.Put(ctx, key, outcome, r.cfg.OracleResultCacheTTL)
	return outcome, nil
}

// Resolve advances market through Ended -> PendingResolution -> Resolved (or
// Cancelled), computing winning_outcome per the hybrid selection algorithm.
// While the oracle is unavailable the market parks in PendingResolution until
// its resolution deadline; past the deadline the community tally decides,
// carrying a tied set through to a multi-winner payout when no unique max
// exists. Idempotent: replaying on an already-Resolved/Finalized market is a
// no-op.
func (r *Resolution) Resolve(ctx context.Context, market *models.Market) error {
	now := r.clock.Now()

	switch market.State {
	case models.MarketStateResolved, models.MarketStateFinalized:
		return nil
	case models.MarketStateCancelled, models.MarketStateDisputed, models.MarketStateDisputeVoting:
		return models.ErrInvalidMarketStatus
	}
	if !market.HasEnded(now) {
		return models.ErrMarketNotEnded
	}
	wasPending := market.State == models.MarketStatePendingResolution
	if market.State == models.MarketStateActive {
		market.State = models.MarketStateEnded
	}

	if market.TotalStaked.IsZero() {
		return r.cancel(ctx, market, "no stakes placed")
	}

	communityWinner, communityTied := communityArgmax(market.PerOutcomeTotal)

	oracleOutcome, oracleErr := r.FetchOracleResult(ctx, market)

	var winner string
	var tiedSet []string

	if oracleErr == nil {
		market.OracleResult = &oracleOutcome
		winner = r.weightedWinner(market, oracleOutcome, communityWinner)
	} else {
		resolutionDeadline := market.EndTime.Add(time.Duration(market.ResolutionTimeoutSeconds) * time.Second)
		if now.Before(resolutionDeadline) {
			market.State = models.MarketStatePendingResolution
			if err := r.markets.Update(ctx, market); err != nil {
				return err
			}
			marketID := market.ID
			return r.events.Emit(ctx, eventlog.TopicManualResolutionRequired, &marketID, nil, models.EventPayload{
				"reason": oracleErr.Error(),
			})
		}
		winner = communityWinner
		if len(communityTied) > 1 {
			tiedSet = communityTied
		}
	}

	market.CommunityWinner = &communityWinner
	market.WinningOutcome = &winner
	if len(tiedSet) > 1 {
		market.WinningOutcomesTied = tiedSet
	}
	market.State = models.MarketStateResolved
	resolvedAt := now
	market.ResolvedAt = &resolvedAt

	if err := r.markets.Update(ctx, market); err != nil {
		return err
	}

	marketID := market.ID
	if wasPending && market.OracleResult != nil {
		if err := r.events.Emit(ctx, eventlog.TopicOracleRecovery, &marketID, nil, models.EventPayload{
			"oracle_result": *market.OracleResult,
		}); err != nil {
			return err
		}
	}
	payload := models.EventPayload{"winning_outcome": winner}
	if market.OracleResult != nil {
		payload["oracle_result"] = *market.OracleResult
	}
	if len(tiedSet) > 1 {
		payload["tied_outcomes"] = tiedSet
	}
	return r.events.Emit(ctx, eventlog.TopicMarketResolved, &marketID, nil, payload)
}

// Finalize transitions a Resolved market to Finalized once its dispute
// window has elapsed with no pending dispute.
func (r *Resolution) Finalize(ctx context.Context, market *models.Market) error {
	if market.State == models.MarketStateFinalized {
		return nil
	}
	if market.State != models.MarketStateResolved {
		return models.ErrMarketNotResolved
	}
	now := r.clock.Now()
	if market.IsDisputeWindowOpen(now) {
		return models.ErrMarketNotResolved
	}
	market.State = models.MarketStateFinalized
	finalizedAt := now
	market.FinalizedAt = &finalizedAt
	return r.markets.Update(ctx, market)
}

func (r *Resolution) cancel(ctx context.Context, market *models.Market, reason string) error {
	market.State = models.MarketStateCancelled
	if err := r.markets.Update(ctx, market); err != nil {
		return err
	}
	marketID := market.ID
	return r.events.Emit(ctx, eventlog.TopicMarketCancelled, &marketID, nil, models.EventPayload{"reason": reason})
}

// weightedWinner implements the 0.70/0.30 oracle/community scoring function
// over the market's own stake tally, breaking ties toward the oracle outcome.
func (r *Resolution) weightedWinner(market *models.Market, oracleOutcome, communityWinner string) string {
	best := r.hybridSelect(market.Outcomes, market.PerOutcomeTotal, oracleOutcome)
	if best == "" {
		best = communityWinner
	}
	return best
}

// hybridSelect scores each outcome as oracle_weight*[oracle==o] +
// community_weight*(totals[o]/Σtotals) and returns the argmax. The dispute
// module reuses it with the dispute tally in place of the community tally.
func (r *Resolution) hybridSelect(outcomes []string, totals models.OutcomeTotals, oracleOutcome string) string {
	total := totals.Sum()
	sorted := append([]string{}, outcomes...)
	sort.Strings(sorted)
	best := ""
	bestScore := decimal.NewFromInt(-1)
	for _, o := range sorted {
		score := decimal.Zero
		if o == oracleOutcome {
			score = r.cfg.OracleWeight
		}
		if !total.IsZero() {
			score = score.Add(r.cfg.CommunityWeight.Mul(totals[o].Div(total)))
		}
		switch {
		case score.GreaterThan(bestScore):
			bestScore = score
			best = o
		case score.Equal(bestScore) && o == oracleOutcome:
			best = o
		}
	}
	return best
}

// communityArgmax returns the outcome(s) with the largest per-outcome
// stake total. The returned slice has length > 1 only on a tie.
func communityArgmax(totals models.OutcomeTotals) (string, []string) {
	best := decimal.Zero.Sub(decimal.NewFromInt(1))
	var tied []string
	outcomes := make([]string, 0, len(totals))
	for o := range totals {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		v := totals[o]
		switch {
		case v.GreaterThan(best):
			best = v
			tied = []string{o}
		case v.Equal(best):
			tied = append(tied, o)
		}
	}
	if len(tied) == 0 {
		return "", nil
	}
	return tied[0], tied
}
