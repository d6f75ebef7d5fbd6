// Package oracle adapts the engine's abstract price-feed requirement to
// concrete providers: Reflector, Pyth, and Custom (operator-pushed) feeds.
package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/models"
)

// ProviderKind tags which concrete price feed a market's oracle config
// points at. Dispatched in a switch, one function per variant, the same
// shape as the models.MarketState/BetStatus string enums.
type ProviderKind string

const (
	ProviderReflector ProviderKind = "reflector"
	ProviderPyth      ProviderKind = "pyth"
	ProviderCustom    ProviderKind = "custom"
)

// IsValid reports whether k is a known provider kind.
func (k ProviderKind) IsValid() bool {
	switch k {
	case ProviderReflector, ProviderPyth, ProviderCustom:
		return true
	}
	return false
}

// PricePoint is a single price reading from a feed, at the precision and
// publish time the feed itself reports.
type PricePoint struct {
	Price       decimal.Decimal
	Confidence  *decimal.Decimal
	PublishTime uint64
	Exponent    int32
}

// Invoker is the cross-contract-call analogue the engine depends on:
// fetch a raw price point from the named provider for the given asset.
type Invoker interface {
	Invoke(ctx context.Context, provider ProviderKind, asset string, now time.Time) (PricePoint, error)
}

type invoker struct {
	reflector Feed
	pyth      Feed
	custom    Feed
}

// Feed is implemented once per concrete provider.
type Feed interface {
	FetchPrice(ctx context.Context, asset string, now time.Time) (PricePoint, error)
}

// NewInvoker wires the three concrete feeds behind the single Invoker port.
func NewInvoker(reflector, pyth, custom Feed) Invoker {
	return &invoker{reflector: reflector, pyth: pyth, custom: custom}
}

func (i *invoker) Invoke(ctx context.Context, provider ProviderKind, asset string, now time.Time) (PricePoint, error) {
	switch provider {
	case ProviderReflector:
		return i.reflector.FetchPrice(ctx, asset, now)
	case ProviderPyth:
		return i.pyth.FetchPrice(ctx, asset, now)
	case ProviderCustom:
		return i.custom.FetchPrice(ctx, asset, now)
	default:
		return PricePoint{}, models.ErrInvalidOracleConfig
	}
}
