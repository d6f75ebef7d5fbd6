package core

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/foresight/app/oracle"
	"github.com/joefazee/foresight/models"
)

func testResolutionCfg() *Config {
	cfg := GetDefaultConfig()
	return cfg
}

func TestCommunityArgmax_SingleWinner(t *testing.T) {
	totals := models.OutcomeTotals{
		"yes": decimal.NewFromInt(100),
		"no":  decimal.NewFromInt(40),
	}
	winner, tied := communityArgmax(totals)
	assert.Equal(t, "yes", winner)
	assert.Equal(t, []string{"yes"}, tied)
}

func TestCommunityArgmax_Tie(t *testing.T) {
	totals := models.OutcomeTotals{
		"yes": decimal.NewFromInt(50),
		"no":  decimal.NewFromInt(50),
	}
	winner, tied := communityArgmax(totals)
	assert.Equal(t, "no", winner)
	assert.ElementsMatch(t, []string{"no", "yes"}, tied)
}

func TestCommunityArgmax_Empty(t *testing.T) {
	winner, tied := communityArgmax(models.OutcomeTotals{})
	assert.Equal(t, "", winner)
	assert.Nil(t, tied)
}

func TestWeightedWinner_OracleDominates(t *testing.T) {
	r := &Resolution{cfg: testResolutionCfg()}
	market := &models.Market{
		Outcomes: models.StringList{"yes", "no"},
		PerOutcomeTotal: models.OutcomeTotals{
			"yes": decimal.NewFromInt(10),
			"no":  decimal.NewFromInt(90),
		},
		TotalStaked: decimal.NewFromInt(100),
	}
	winner := r.weightedWinner(market, "yes", "no")
	assert.Equal(t, "yes", winner)
}

func TestWeightedWinner_UnanimousCommunityCannotOverturnOracle(t *testing.T) {
	r := &Resolution{cfg: testResolutionCfg()}
	market := &models.Market{
		Outcomes: models.StringList{"yes", "no"},
		PerOutcomeTotal: models.OutcomeTotals{
			"yes": decimal.Zero,
			"no":  decimal.NewFromInt(100),
		},
		TotalStaked: decimal.NewFromInt(100),
	}
	// oracle says "yes" (score 0.70), community unanimously "no" (score 0.30*1=0.30)
	// oracle still wins since 0.70 > 0.30.
	winner := r.weightedWinner(market, "yes", "no")
	assert.Equal(t, "yes", winner)
}

func TestWeightedWinner_TieBreaksToOracle(t *testing.T) {
	cfg := testResolutionCfg()
	cfg.OracleWeight = decimal.NewFromFloat(0.5)
	cfg.CommunityWeight = decimal.NewFromFloat(0.5)
	r := &Resolution{cfg: cfg}
	market := &models.Market{
		Outcomes: models.StringList{"yes", "no"},
		PerOutcomeTotal: models.OutcomeTotals{
			"yes": decimal.Zero,
			"no":  decimal.NewFromInt(100),
		},
		TotalStaked: decimal.NewFromInt(100),
	}
	// oracle says "yes" (score 0.5), community unanimously "no" (score 0.5*1=0.5):
	// an exact tie, which goes to the oracle outcome.
	winner := r.weightedWinner(market, "yes", "no")
	assert.Equal(t, "yes", winner)
}

func newTestResolution(markets *MockMarketRepository, oracles *oracle.MockAdapter, events *MockEventLog, now time.Time) *Resolution {
	return NewResolution(markets, &MockBetRepository{}, oracles, events, newTestTemporary(), GetDefaultConfig(), fixedClock{now: now})
}

func TestFetchOracleResult_ReusesCachedReadingWithinWindow(t *testing.T) {
	oracles := &oracle.MockAdapter{}
	r := newTestResolution(&MockMarketRepository{}, oracles, &MockEventLog{}, time.Now())

	market := &models.Market{
		ID:       "m1",
		Outcomes: models.StringList{"yes", "no"},
	}
	oracles.On("ResolveOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("yes", nil).Once()

	first, err := r.FetchOracleResult(context.Background(), market)
	require.NoError(t, err)
	second, err := r.FetchOracleResult(context.Background(), market)
	require.NoError(t, err)

	assert.Equal(t, "yes", first)
	assert.Equal(t, "yes", second)
	oracles.AssertNumberOfCalls(t, "ResolveOutcome", 1)
}

func TestFetchOracleResult_DoesNotCacheFailures(t *testing.T) {
	oracles := &oracle.MockAdapter{}
	events := &MockEventLog{}
	r := newTestResolution(&MockMarketRepository{}, oracles, events, time.Now())

	market := &models.Market{ID: "m1", Outcomes: models.StringList{"yes", "no"}}
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	oracles.On("ResolveOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", models.ErrOracleUnavailable).Once()
	oracles.On("ResolveOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("no", nil).Once()

	_, err := r.FetchOracleResult(context.Background(), market)
	require.ErrorIs(t, err, models.ErrOracleUnavailable)

	outcome, err := r.FetchOracleResult(context.Background(), market)
	require.NoError(t, err)
	assert.Equal(t, "no", outcome)
	oracles.AssertNumberOfCalls(t, "ResolveOutcome", 2)
}

func TestResolve_IdempotentOnResolvedMarket(t *testing.T) {
	markets := &MockMarketRepository{}
	r := newTestResolution(markets, &oracle.MockAdapter{}, &MockEventLog{}, time.Now())

	winner := "yes"
	market := &models.Market{State: models.MarketStateResolved, WinningOutcome: &winner}
	require.NoError(t, r.Resolve(context.Background(), market))
	assert.Equal(t, "yes", *market.WinningOutcome)
	markets.AssertNotCalled(t, "Update")
}

func TestResolve_RejectsBeforeEndTime(t *testing.T) {
	now := time.Now()
	r := newTestResolution(&MockMarketRepository{}, &oracle.MockAdapter{}, &MockEventLog{}, now)

	market := &models.Market{
		State:       models.MarketStateActive,
		EndTime:     now.Add(time.Hour),
		TotalStaked: decimal.NewFromInt(100),
	}
	require.ErrorIs(t, r.Resolve(context.Background(), market), models.ErrMarketNotEnded)
}

func TestResolve_OracleUnavailableBeforeDeadline_ParksPendingResolution(t *testing.T) {
	markets := &MockMarketRepository{}
	oracles := &oracle.MockAdapter{}
	events := &MockEventLog{}
	now := time.Now()
	r := newTestResolution(markets, oracles, events, now)

	market := &models.Market{
		ID:                       "m1",
		State:                    models.MarketStateActive,
		Outcomes:                 models.StringList{"yes", "no"},
		EndTime:                  now.Add(-time.Hour),
		ResolutionTimeoutSeconds: int64((24 * time.Hour).Seconds()),
		TotalStaked:              decimal.NewFromInt(200),
		PerOutcomeTotal: models.OutcomeTotals{
			"yes": decimal.NewFromInt(120),
			"no":  decimal.NewFromInt(80),
		},
	}

	oracles.On("ResolveOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", models.ErrOracleUnavailable)
	markets.On("Update", mock.Anything, market).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, r.Resolve(context.Background(), market))
	assert.Equal(t, models.MarketStatePendingResolution, market.State)
	assert.Nil(t, market.WinningOutcome)
}

func TestResolve_OracleUnavailableAfterDeadline_CommunityDecides(t *testing.T) {
	markets := &MockMarketRepository{}
	oracles := &oracle.MockAdapter{}
	events := &MockEventLog{}
	now := time.Now()
	r := newTestResolution(markets, oracles, events, now)

	market := &models.Market{
		ID:                       "m1",
		State:                    models.MarketStatePendingResolution,
		Outcomes:                 models.StringList{"yes", "no"},
		EndTime:                  now.Add(-48 * time.Hour),
		ResolutionTimeoutSeconds: int64((24 * time.Hour).Seconds()),
		TotalStaked:              decimal.NewFromInt(200),
		PerOutcomeTotal: models.OutcomeTotals{
			"yes": decimal.NewFromInt(120),
			"no":  decimal.NewFromInt(80),
		},
	}

	oracles.On("ResolveOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", models.ErrOracleUnavailable)
	markets.On("Update", mock.Anything, market).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, r.Resolve(context.Background(), market))
	assert.Equal(t, models.MarketStateResolved, market.State)
	assert.Equal(t, "yes", *market.WinningOutcome)
	assert.Nil(t, market.OracleResult)
	assert.Empty(t, market.WinningOutcomesTied)
}

func TestResolve_OracleUnavailableAfterDeadline_TieResolvesAsTiedSet(t *testing.T) {
	markets := &MockMarketRepository{}
	oracles := &oracle.MockAdapter{}
	events := &MockEventLog{}
	now := time.Now()
	r := newTestResolution(markets, oracles, events, now)

	market := &models.Market{
		ID:                       "m1",
		State:                    models.MarketStatePendingResolution,
		Outcomes:                 models.StringList{"yes", "no"},
		EndTime:                  now.Add(-48 * time.Hour),
		ResolutionTimeoutSeconds: int64((24 * time.Hour).Seconds()),
		TotalStaked:              decimal.NewFromInt(200),
		PerOutcomeTotal: models.OutcomeTotals{
			"yes": decimal.NewFromInt(100),
			"no":  decimal.NewFromInt(100),
		},
	}

	oracles.On("ResolveOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", models.ErrOracleUnavailable)
	markets.On("Update", mock.Anything, market).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, r.Resolve(context.Background(), market))
	assert.Equal(t, models.MarketStateResolved, market.State)
	assert.ElementsMatch(t, []string{"yes", "no"}, []string(market.WinningOutcomesTied))
}

func TestResolve_ZeroStakeCancels(t *testing.T) {
	markets := &MockMarketRepository{}
	events := &MockEventLog{}
	now := time.Now()
	r := newTestResolution(markets, &oracle.MockAdapter{}, events, now)

	market := &models.Market{
		ID:      "m1",
		State:   models.MarketStateActive,
		EndTime: now.Add(-time.Hour),
	}

	markets.On("Update", mock.Anything, market).Return(nil)
	events.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, r.Resolve(context.Background(), market))
	assert.Equal(t, models.MarketStateCancelled, market.State)
}

func TestWeightedWinner_ZeroStakeFallsBackToOracleOnly(t *testing.T) {
	r := &Resolution{cfg: testResolutionCfg()}
	market := &models.Market{
		Outcomes:        models.StringList{"yes", "no"},
		PerOutcomeTotal: models.OutcomeTotals{},
		TotalStaked:     decimal.Zero,
	}
	winner := r.weightedWinner(market, "no", "")
	assert.Equal(t, "no", winner)
}
