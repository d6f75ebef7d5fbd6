package core

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/models"
)

// Config holds the operator-tunable policy knobs for the market lifecycle,
// resolution, payout and dispute modules. One Config per deployment,
// composed into app.Config alongside the other per-package configs.
type Config struct {
	Currency string `env:"CORE_CURRENCY" default:"XLM"`

	MinStake decimal.Decimal `env:"CORE_MIN_STAKE"`
	MaxStake decimal.Decimal `env:"CORE_MAX_STAKE"`

	MaxBatchSize int `env:"CORE_MAX_BATCH_SIZE" default:"50"`

	DefaultFeeBps           int `env:"CORE_DEFAULT_FEE_BPS" default:"200"`
	DefaultMaxExtensionDays int `env:"CORE_DEFAULT_MAX_EXTENSION_DAYS" default:"30"`

	DefaultDisputeWindow     time.Duration `env:"CORE_DEFAULT_DISPUTE_WINDOW" default:"72h"`
	DefaultResolutionTimeout time.Duration `env:"CORE_DEFAULT_RESOLUTION_TIMEOUT" default:"24h"`

	// OracleResultCacheTTL bounds how long an accepted oracle reading is
	// reused from the temporary namespace between resolution attempts.
	OracleResultCacheTTL time.Duration `env:"CORE_ORACLE_RESULT_CACHE_TTL" default:"60s"`

	DisputeExtensionHours int             `env:"CORE_DISPUTE_EXTENSION_HOURS" default:"48"`
	BaseDisputeThreshold  decimal.Decimal `env:"CORE_BASE_DISPUTE_THRESHOLD"`
	MaxDisputeThreshold   decimal.Decimal `env:"CORE_MAX_DISPUTE_THRESHOLD"`
	DisputeVotingWindow   time.Duration   `env:"CORE_DISPUTE_VOTING_WINDOW" default:"48h"`

	// OracleWeight/CommunityWeight are the hybrid resolution mixing weights,
	// 0.70/0.30 in every deployment; configurable only so tests can exercise
	// the scoring formula at other weights without hand-rolling it.
	OracleWeight    decimal.Decimal `env:"CORE_ORACLE_WEIGHT"`
	CommunityWeight decimal.Decimal `env:"CORE_COMMUNITY_WEIGHT"`

	WithdrawLock       time.Duration   `env:"CORE_WITHDRAW_LOCK" default:"0s"`
	MaxWithdrawPerLock decimal.Decimal `env:"CORE_MAX_WITHDRAW_PER_LOCK"`
}

// Validate checks the core policy knobs.
func (c *Config) Validate() error {
	if c.MinStake.LessThanOrEqual(decimal.Zero) {
		return models.ErrInvalidBetAmount
	}
	if c.MaxStake.LessThanOrEqual(c.MinStake) {
		return models.ErrInvalidBetAmount
	}
	if c.MaxBatchSize < 1 || c.MaxBatchSize > 50 {
		return models.ErrBatchSizeExceeded
	}
	if c.DefaultFeeBps < 0 || c.DefaultFeeBps > 10000 {
		return models.ErrInvalidMarketStatus
	}
	if c.DefaultDisputeWindow <= 0 || c.DefaultResolutionTimeout <= 0 {
		return models.ErrInvalidResolutionTimeout
	}
	if !c.OracleWeight.Add(c.CommunityWeight).Equal(decimal.NewFromInt(1)) {
		return models.ErrInvalidOracleConfig
	}
	if c.BaseDisputeThreshold.LessThanOrEqual(decimal.Zero) {
		return models.ErrInvalidThresholdFactor
	}
	if c.MaxDisputeThreshold.LessThan(c.BaseDisputeThreshold) {
		return models.ErrInvalidThresholdFactor
	}
	return nil
}

// GetDefaultConfig returns the default core engine policy, matching the
// documented defaults in the engine's design notes: fee_bps=200 (2%),
// max_staleness handled by the oracle package, 70/30 hybrid weighting.
func GetDefaultConfig() *Config {
	return &Config{
		Currency:                 "XLM",
		MinStake:                 decimal.NewFromInt(10_000_000),        // 1 XLM
		MaxStake:                 decimal.NewFromInt(1_000_000_000_000), // 100,000 XLM
		MaxBatchSize:             50,
		DefaultFeeBps:            200,
		DefaultMaxExtensionDays:  30,
		DefaultDisputeWindow:     72 * time.Hour,
		DefaultResolutionTimeout: 24 * time.Hour,
		OracleResultCacheTTL:     60 * time.Second,
		DisputeExtensionHours:    48,
		BaseDisputeThreshold:     decimal.NewFromInt(100_000_000),    // 10 XLM
		MaxDisputeThreshold:      decimal.NewFromInt(10_000_000_000), // 1,000 XLM
		DisputeVotingWindow:      48 * time.Hour,
		OracleWeight:             decimal.NewFromFloat(0.70),
		CommunityWeight:          decimal.NewFromFloat(0.30),
		WithdrawLock:             0,
		MaxWithdrawPerLock:       decimal.Zero,
	}
}
