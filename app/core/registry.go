package core

import (
	"context"

	"github.com/joefazee/foresight/internal/ledger"
	"github.com/joefazee/foresight/models"
)

// Registry is the market registry: CRUD plus the unique-ID
// minting the Create entrypoint depends on.
type Registry struct {
	markets  MarketRepository
	instance ledger.Instance
}

// NewRegistry builds the market registry.
func NewRegistry(markets MarketRepository, instance ledger.Instance) *Registry {
	return &Registry{markets: markets, instance: instance}
}

// Create mints a unique market ID and persists the given market record
// under it. The ID is UUID-derived (models.NewMarketID) so market IDs are
// opaque rather than enumerable; the instance counter still advances once
// per market so the contract-state view keeps an accurate creation count.
func (r *Registry) Create(ctx context.Context, market *models.Market) error {
	if _, err := r.instance.NextMarketSeq(ctx); err != nil {
		return err
	}
	market.ID = models.NewMarketID()
	if err := market.Validate(); err != nil {
		return err
	}
	return r.markets.Create(ctx, market)
}

// Load fetches a market by ID without taking a row lock.
func (r *Registry) Load(ctx context.Context, marketID string) (*models.Market, error) {
	return r.markets.GetByID(ctx, marketID)
}

// LoadForUpdate fetches a market by ID, taking a row lock for the
// enclosing transaction.
func (r *Registry) LoadForUpdate(ctx context.Context, marketID string) (*models.Market, error) {
	return r.markets.GetForUpdate(ctx, marketID)
}

// Store persists an already-validated market record.
func (r *Registry) Store(ctx context.Context, market *models.Market) error {
	return r.markets.Update(ctx, market)
}

// ListIDs returns every active market, used only by analytics entrypoints.
func (r *Registry) ListIDs(ctx context.Context, limit, offset int) ([]models.Market, error) {
	return r.markets.ListActive(ctx, limit, offset)
}
