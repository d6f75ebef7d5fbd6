package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/foresight/models"
)

func TestValidateMarketMetadata(t *testing.T) {
	t.Run("rejects short question", func(t *testing.T) {
		err := ValidateMarketMetadata("too short", []string{"yes", "no"})
		require.ErrorIs(t, err, models.ErrInvalidMarketQuestion)
	})

	t.Run("rejects too few outcomes", func(t *testing.T) {
		err := ValidateMarketMetadata("Will it rain tomorrow in the capital?", []string{"yes"})
		require.ErrorIs(t, err, models.ErrInvalidMarketOutcomes)
	})

	t.Run("rejects duplicate outcomes", func(t *testing.T) {
		err := ValidateMarketMetadata("Will it rain tomorrow in the capital?", []string{"yes", "yes"})
		require.ErrorIs(t, err, models.ErrInvalidMarketOutcomes)
	})

	t.Run("accepts a valid market", func(t *testing.T) {
		err := ValidateMarketMetadata("Will it rain tomorrow in the capital?", []string{"yes", "no"})
		require.NoError(t, err)
	})
}

func TestValidateOutcomeInMarket(t *testing.T) {
	market := &models.Market{Outcomes: models.StringList{"yes", "no"}}

	require.NoError(t, ValidateOutcomeInMarket(market, "yes"))
	require.ErrorIs(t, ValidateOutcomeInMarket(market, "maybe"), models.ErrOutcomeNotInMarket)
	require.ErrorIs(t, ValidateOutcomeInMarket(market, ""), models.ErrInvalidOutcome)
}

func TestValidateBet(t *testing.T) {
	cfg := GetDefaultConfig()

	require.ErrorIs(t, ValidateBet(cfg, decimal.Zero), models.ErrInvalidBetAmount)
	require.ErrorIs(t, ValidateBet(cfg, cfg.MinStake.Sub(decimal.NewFromInt(1))), models.ErrBetTooSmall)
	require.ErrorIs(t, ValidateBet(cfg, cfg.MaxStake.Add(decimal.NewFromInt(1))), models.ErrBetTooLarge)
	require.NoError(t, ValidateBet(cfg, cfg.MinStake))
}

func TestValidateDisputeReason(t *testing.T) {
	require.NoError(t, ValidateDisputeReason("seems off"))
	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	require.ErrorIs(t, ValidateDisputeReason(string(long)), models.ErrInvalidDisputeReason)
}

func TestValidateThreshold(t *testing.T) {
	require.NoError(t, ValidateThreshold(decimal.NewFromInt(100), decimal.NewFromInt(50)))
	require.ErrorIs(t, ValidateThreshold(decimal.NewFromInt(10), decimal.NewFromInt(50)), models.ErrInsufficientStake)
}
