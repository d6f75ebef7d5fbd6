package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/foresight/models"
)

func newTestAdapter(invoker *MockInvoker) Adapter {
	policy := GetDefaultConfig()
	return NewAdapter(invoker, policy)
}

func TestResolveOutcome_Binary_GT(t *testing.T) {
	now := time.Now()
	invoker := &MockInvoker{}
	invoker.On("Invoke", mock.Anything, ProviderReflector, "BTC", now).Return(PricePoint{
		Price:       decimal.NewFromInt(70000),
		PublishTime: uint64(now.Unix()),
		Exponent:    0,
	}, nil)

	cfg := models.OracleConfig{
		Provider:   string(ProviderReflector),
		Asset:      "BTC",
		Threshold:  decimal.NewFromInt(65000),
		Comparison: models.OracleComparisonGT,
	}

	a := newTestAdapter(invoker)
	outcome, err := a.ResolveOutcome(context.Background(), cfg, nil, now)
	require.NoError(t, err)
	require.Equal(t, "yes", outcome)
}

func TestResolveOutcome_StalePrice(t *testing.T) {
	now := time.Now()
	stalePublish := now.Add(-2 * time.Minute)
	invoker := &MockInvoker{}
	invoker.On("Invoke", mock.Anything, ProviderReflector, "BTC", now).Return(PricePoint{
		Price:       decimal.NewFromInt(70000),
		PublishTime: uint64(stalePublish.Unix()),
	}, nil)

	cfg := models.OracleConfig{Provider: string(ProviderReflector), Asset: "BTC", Comparison: models.OracleComparisonGT}

	a := newTestAdapter(invoker)
	_, err := a.ResolveOutcome(context.Background(), cfg, nil, now)
	require.ErrorIs(t, err, models.ErrOracleUnavailable)
}

func TestResolveOutcome_FallsBackOnPrimaryError(t *testing.T) {
	now := time.Now()
	invoker := &MockInvoker{}
	invoker.On("Invoke", mock.Anything, ProviderReflector, "BTC", now).
		Return(PricePoint{}, assertError())
	invoker.On("Invoke", mock.Anything, ProviderPyth, "BTC", now).Return(PricePoint{
		Price:       decimal.NewFromInt(70000),
		PublishTime: uint64(now.Unix()),
	}, nil)

	primary := models.OracleConfig{Provider: string(ProviderReflector), Asset: "BTC", Threshold: decimal.NewFromInt(60000), Comparison: models.OracleComparisonGT}
	fallback := models.OracleConfig{Provider: string(ProviderPyth), Asset: "BTC", Threshold: decimal.NewFromInt(60000), Comparison: models.OracleComparisonGT}

	a := newTestAdapter(invoker)
	outcome, err := a.ResolveOutcome(context.Background(), primary, &fallback, now)
	require.NoError(t, err)
	require.Equal(t, "yes", outcome)
}

func TestResolveOutcome_BothUnavailable(t *testing.T) {
	now := time.Now()
	invoker := &MockInvoker{}
	invoker.On("Invoke", mock.Anything, ProviderReflector, "BTC", now).Return(PricePoint{}, assertError())
	invoker.On("Invoke", mock.Anything, ProviderPyth, "BTC", now).Return(PricePoint{}, assertError())

	primary := models.OracleConfig{Provider: string(ProviderReflector), Asset: "BTC"}
	fallback := models.OracleConfig{Provider: string(ProviderPyth), Asset: "BTC"}

	a := newTestAdapter(invoker)
	_, err := a.ResolveOutcome(context.Background(), primary, &fallback, now)
	require.ErrorIs(t, err, models.ErrOracleUnavailable)
}

func TestResolveOutcome_ConfidenceTooLow(t *testing.T) {
	now := time.Now()
	conf := decimal.NewFromInt(10000)
	invoker := &MockInvoker{}
	invoker.On("Invoke", mock.Anything, ProviderReflector, "BTC", now).Return(PricePoint{
		Price:       decimal.NewFromInt(70000),
		Confidence:  &conf,
		PublishTime: uint64(now.Unix()),
	}, nil)

	cfg := models.OracleConfig{Provider: string(ProviderReflector), Asset: "BTC", Comparison: models.OracleComparisonGT}

	a := newTestAdapter(invoker)
	_, err := a.ResolveOutcome(context.Background(), cfg, nil, now)
	require.ErrorIs(t, err, models.ErrOracleUnavailable)
}

func assertError() error {
	return models.ErrOracleUnavailable
}
