// Package ledger is the typed storage facade the engine uses for its three
// key-value namespaces: instance (small singletons), persistent (durable
// records reachable only through domain repositories), and temporary
// (short-lived, TTL-bearing entries). Every durable write outside a
// domain repository goes through here so TTL/expiry discipline lives in
// one place.
package ledger

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/joefazee/foresight/internal/cache"
	"github.com/joefazee/foresight/models"
)

// Instance exposes the single instance_state row: the monotonic market
// counter (it counts created markets; market IDs come from
// models.NewMarketID) and the reentrancy guard. Backed by a row-level transaction so
// "per key atomicity" holds even though both fields share one row.
type Instance interface {
	NextMarketSeq(ctx context.Context) (int64, error)
	AcquireReentrancyGuard(ctx context.Context) error
	ReleaseReentrancyGuard(ctx context.Context) error
	GetState(ctx context.Context) (*models.InstanceState, error)
}

type instance struct {
	db *gorm.DB
}

// NewInstance builds the instance namespace over the singleton
// instance_state table.
func NewInstance(db *gorm.DB) Instance {
	return &instance{db: db}
}

func (i *instance) ensureRow(tx *gorm.DB) (*models.InstanceState, error) {
	var row models.InstanceState
	err := tx.FirstOrCreate(&row, models.NewInstanceState()).Error
	return &row, err
}

// NextMarketSeq atomically increments and returns the market counter.
func (i *instance) NextMarketSeq(ctx context.Context) (int64, error) {
	var next int64
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := i.ensureRow(tx)
		if err != nil {
			return err
		}
		row.MarketCounter++
		next = row.MarketCounter
		return tx.Save(row).Error
	})
	return next, err
}

// AcquireReentrancyGuard sets the reentrancy flag, failing if already set.
func (i *instance) AcquireReentrancyGuard(ctx context.Context) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := i.ensureRow(tx)
		if err != nil {
			return err
		}
		if row.ReentrancyFlag {
			return models.ErrReentrancy
		}
		row.ReentrancyFlag = true
		return tx.Save(row).Error
	})
}

// ReleaseReentrancyGuard clears the reentrancy flag. Safe to call even if
// already clear, so defer-based release never itself fails the unwind.
func (i *instance) ReleaseReentrancyGuard(ctx context.Context) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := i.ensureRow(tx)
		if err != nil {
			return err
		}
		row.ReentrancyFlag = false
		return tx.Save(row).Error
	})
}

// GetState reads the singleton instance_state row without mutating it,
// backing the query_contract_state read-only entrypoint.
func (i *instance) GetState(ctx context.Context) (*models.InstanceState, error) {
	var row models.InstanceState
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := i.ensureRow(tx)
		if err != nil {
			return err
		}
		row = *r
		return nil
	})
	return &row, err
}

// Temporary is the TTL-bearing namespace for pending-action dedupe keys and
// short-lived resolution-attempt markers, backed directly by the
// generic cache.Cache[V].
type Temporary interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	PutJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
}

type temporary struct {
	cache cache.Cache[string]
}

// NewTemporary builds the temporary namespace over a string-valued cache.
func NewTemporary(c cache.Cache[string]) Temporary {
	return &temporary{cache: c}
}

func (t *temporary) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := t.cache.Get(ctx, key)
	if err != nil {
		if err == cache.ErrCacheMiss {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

func (t *temporary) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return t.cache.Set(ctx, key, value, ttl)
}

func (t *temporary) Delete(ctx context.Context, key string) error {
	return t.cache.Delete(ctx, key)
}

func (t *temporary) PutJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.Put(ctx, key, string(raw), ttl)
}

func (t *temporary) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok, err := t.Get(ctx, key)
	if err != nil || !ok {
		return ok, err
	}
	return true, json.Unmarshal([]byte(raw), dest)
}
