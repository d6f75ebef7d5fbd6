package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewMarketID(t *testing.T) {
	a := NewMarketID()
	b := NewMarketID()
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
	assert.LessOrEqual(t, len(a), 32)
	assert.Equal(t, strings.ToLower(a), a)
}

func validMarket() Market {
	now := time.Now()
	return Market{
		ID:                       "M-000001",
		AdminID:                  uuid.New(),
		Question:                 "Will BTC close above $50,000 on Dec 31?",
		Outcomes:                 StringList{"yes", "no"},
		State:                    MarketStateActive,
		CreatedAt:                now,
		EndTime:                  now.Add(30 * 24 * time.Hour),
		DisputeWindowSeconds:     86400,
		ResolutionTimeoutSeconds: 3600,
		OracleConfig: OracleConfig{
			Provider:   "reflector",
			Asset:      "BTC/USD",
			Threshold:  decimal.NewFromInt(5000000),
			Comparison: OracleComparisonGT,
		},
		FeeBps:           200,
		MaxExtensionDays: 30,
		PerOutcomeTotal:  OutcomeTotals{},
	}
}

func TestOracleConfig(t *testing.T) {
	t.Run("Value and Scan", func(t *testing.T) {
		cfg := OracleConfig{
			Provider:   "pyth",
			Asset:      "ETH/USD",
			Threshold:  decimal.NewFromInt(3000),
			Comparison: OracleComparisonLT,
		}

		value, err := cfg.Value()
		assert.NoError(t, err)

		var result OracleConfig
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Equal(t, cfg.Provider, result.Provider)
		assert.Equal(t, cfg.Comparison, result.Comparison)

		err = result.Scan(nil)
		assert.NoError(t, err)
	})
}

func TestStringList(t *testing.T) {
	t.Run("Contains", func(t *testing.T) {
		l := StringList{"yes", "no"}
		assert.True(t, l.Contains("yes"))
		assert.False(t, l.Contains("maybe"))
	})

	t.Run("Value and Scan", func(t *testing.T) {
		l := StringList{"a", "b", "c"}
		value, err := l.Value()
		assert.NoError(t, err)

		var result StringList
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Equal(t, l, result)
	})
}

func TestOutcomeTotals(t *testing.T) {
	t.Run("Sum", func(t *testing.T) {
		totals := OutcomeTotals{
			"yes": decimal.NewFromInt(100),
			"no":  decimal.NewFromInt(50),
		}
		assert.True(t, decimal.NewFromInt(150).Equal(totals.Sum()))
	})

	t.Run("Value and Scan", func(t *testing.T) {
		totals := OutcomeTotals{"yes": decimal.NewFromInt(100)}
		value, err := totals.Value()
		assert.NoError(t, err)

		var result OutcomeTotals
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.True(t, totals["yes"].Equal(result["yes"]))
	})
}

func TestExtensionHistory(t *testing.T) {
	t.Run("TotalDaysAdded", func(t *testing.T) {
		h := ExtensionHistory{
			{DaysAdded: 5, Reason: "oracle delay"},
			{DaysAdded: 3, Reason: "dispute pending"},
		}
		assert.Equal(t, 8, h.TotalDaysAdded())
	})

	t.Run("Value and Scan", func(t *testing.T) {
		h := ExtensionHistory{{DaysAdded: 2, Reason: "x", Actor: uuid.New(), Timestamp: time.Now()}}
		value, err := h.Value()
		assert.NoError(t, err)

		var result ExtensionHistory
		err = result.Scan(value)
		assert.NoError(t, err)
		assert.Len(t, result, 1)
	})
}

func TestMarket(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		m := Market{}
		assert.Equal(t, "markets", m.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		m := Market{}
		assert.Nil(t, m.PerOutcomeTotal)
		err := m.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotNil(t, m.PerOutcomeTotal)
	})

	t.Run("IsActive and CanBet", func(t *testing.T) {
		m := validMarket()
		now := time.Now()

		assert.True(t, m.IsActive(now))
		assert.True(t, m.CanBet(now))

		assert.False(t, m.IsActive(m.EndTime))
		assert.False(t, m.CanBet(m.EndTime.Add(time.Second)))
	})

	t.Run("HasEnded", func(t *testing.T) {
		m := validMarket()
		assert.False(t, m.HasEnded(time.Now()))
		assert.True(t, m.HasEnded(m.EndTime))
		assert.True(t, m.HasEnded(m.EndTime.Add(time.Second)))
	})

	t.Run("IsTerminal", func(t *testing.T) {
		m := validMarket()
		assert.False(t, m.IsTerminal())
		m.State = MarketStateFinalized
		assert.True(t, m.IsTerminal())
		m.State = MarketStateCancelled
		assert.True(t, m.IsTerminal())
	})

	t.Run("IsDisputeWindowOpen", func(t *testing.T) {
		m := validMarket()
		m.State = MarketStateResolved
		resolvedAt := time.Now()
		m.ResolvedAt = &resolvedAt
		m.DisputeWindowSeconds = 3600

		assert.True(t, m.IsDisputeWindowOpen(resolvedAt.Add(time.Minute)))
		assert.False(t, m.IsDisputeWindowOpen(resolvedAt.Add(2*time.Hour)))

		m.State = MarketStateActive
		assert.False(t, m.IsDisputeWindowOpen(resolvedAt))
	})

	t.Run("GetRakeAmount", func(t *testing.T) {
		m := validMarket()
		m.FeeBps = 200
		fee := m.GetRakeAmount(decimal.NewFromInt(100))
		assert.True(t, decimal.NewFromInt(2).Equal(fee))
	})

	t.Run("Validate", func(t *testing.T) {
		m := validMarket()
		assert.NoError(t, m.Validate())

		tests := []struct {
			name   string
			modify func(*Market)
			err    error
		}{
			{"short question", func(m *Market) { m.Question = "short" }, ErrInvalidMarketQuestion},
			{"too few outcomes", func(m *Market) { m.Outcomes = StringList{"yes"} }, ErrInvalidMarketOutcomes},
			{"duplicate outcomes", func(m *Market) { m.Outcomes = StringList{"yes", "yes"} }, ErrInvalidMarketOutcomes},
			{"outcome too short", func(m *Market) { m.Outcomes = StringList{"y", "no"} }, ErrInvalidOutcome},
			{"end before created", func(m *Market) { m.EndTime = m.CreatedAt.Add(-time.Hour) }, ErrInvalidEndTime},
			{"zero dispute window", func(m *Market) { m.DisputeWindowSeconds = 0 }, ErrInvalidDisputeWindow},
			{"zero resolution timeout", func(m *Market) { m.ResolutionTimeoutSeconds = 0 }, ErrInvalidResolutionTimeout},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				market := validMarket()
				tt.modify(&market)
				assert.Equal(t, tt.err, market.Validate())
			})
		}
	})
}
