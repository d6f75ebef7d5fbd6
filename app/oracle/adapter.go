package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/models"
)

// Adapter is the narrow port app/core depends on for a market resolution:
// given a market's oracle configuration, produce an outcome label or a
// classified oracle error.
type Adapter interface {
	ResolveOutcome(ctx context.Context, cfg models.OracleConfig, fallback *models.OracleConfig, now time.Time) (string, error)
}

type adapter struct {
	invoke Invoker
	policy *Config
}

// NewAdapter builds the oracle adapter enforcing staleness, confidence and
// exponent-scaling policy before mapping a price point to an outcome.
func NewAdapter(invoke Invoker, policy *Config) Adapter {
	return &adapter{invoke: invoke, policy: policy}
}

// ResolveOutcome fetches the primary feed, falling back once on any
// failure, then maps the accepted price point to one of the market's
// outcome labels via cfg's threshold/comparison/mapping.
func (a *adapter) ResolveOutcome(ctx context.Context, cfg models.OracleConfig, fallback *models.OracleConfig, now time.Time) (string, error) {
	point, err := a.fetchAccepted(ctx, cfg, now)
	if err != nil {
		if fallback == nil {
			return "", models.ErrOracleUnavailable
		}
		point, err = a.fetchAccepted(ctx, *fallback, now)
		if err != nil {
			return "", models.ErrOracleUnavailable
		}
		cfg = *fallback
	}

	return mapOutcome(point, cfg)
}

// fetchAccepted fetches a single reading and applies staleness, confidence
// and exponent-scaling checks, returning the first violated policy as a
// classified oracle error.
func (a *adapter) fetchAccepted(ctx context.Context, cfg models.OracleConfig, now time.Time) (PricePoint, error) {
	if !ProviderKind(cfg.Provider).IsValid() {
		return PricePoint{}, models.ErrInvalidOracleConfig
	}

	point, err := a.invoke.Invoke(ctx, ProviderKind(cfg.Provider), cfg.Asset, now)
	if err != nil {
		return PricePoint{}, models.ErrOracleUnavailable
	}

	publishTime := time.Unix(int64(point.PublishTime), 0)
	if now.Sub(publishTime) > a.policy.MaxStaleness {
		return PricePoint{}, models.ErrOraclePriceStale
	}

	if point.Confidence != nil && !point.Price.IsZero() {
		rate := point.Confidence.Div(point.Price).Abs()
		if rate.GreaterThan(a.policy.MaxConfidenceRate) {
			return PricePoint{}, models.ErrOracleConfidenceTooLow
		}
	}

	scaled, err := scaleToMinorUnit(point.Price, point.Exponent, a.policy.MinorUnitExponent)
	if err != nil {
		return PricePoint{}, err
	}
	point.Price = scaled

	return point, nil
}

// scaleToMinorUnit rescales price from its feed-reported exponent to the
// configured minor-unit exponent, rejecting scale factors that would blow
// past decimal.Decimal's practical precision.
func scaleToMinorUnit(price decimal.Decimal, feedExponent, targetExponent int32) (decimal.Decimal, error) {
	shift := targetExponent - feedExponent
	const maxShift = 30
	if shift > maxShift || shift < -maxShift {
		return decimal.Decimal{}, models.ErrOracleScalingOverflow
	}
	return price.Shift(shift), nil
}

// mapOutcome applies cfg's threshold/comparison (binary markets) or
// mapping table (multi-outcome markets) to a price point.
func mapOutcome(point PricePoint, cfg models.OracleConfig) (string, error) {
	if len(cfg.Mapping) > 0 {
		// A relayer-pushed discrete result tag; the mapping key space is
		// asset-specific and opaque to the adapter.
		tag := point.Price.String()
		outcome, ok := cfg.Mapping[tag]
		if !ok {
			return "", models.ErrOracleFeedNotFound
		}
		return outcome, nil
	}

	switch cfg.Comparison {
	case models.OracleComparisonGT:
		if point.Price.GreaterThan(cfg.Threshold) {
			return "yes", nil
		}
		return "no", nil
	case models.OracleComparisonLT:
		if point.Price.LessThan(cfg.Threshold) {
			return "yes", nil
		}
		return "no", nil
	case models.OracleComparisonEQ:
		if point.Price.Equal(cfg.Threshold) {
			return "yes", nil
		}
		return "no", nil
	default:
		return "", models.ErrInvalidOracleConfig
	}
}
