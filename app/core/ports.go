package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Authenticator fails the call if the caller has not authorized
// action-on-behalf-of identity. Backed by the PASETO token verification in
// internal/security.Maker plus app/user's auth middleware; the HTTP layer
// resolves identity from the verified bearer token before ever reaching the
// controller, so this port is a narrow re-check seam for non-HTTP callers
// and tests.
type Authenticator interface {
	Authenticate(ctx context.Context, identity uuid.UUID) error
}

// Clock is a thin seam over time.Now so resolution-timeout and
// dispute-window logic is deterministically testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// ValueTransferer is the value-transfer primitive the engine depends on:
// debit moves amount out of identity's available balance, failing
// atomically on insufficient balance; credit moves amount in. Implemented
// over wallet.Service's CreditWallet/DebitWallet entrypoints.
type ValueTransferer interface {
	Debit(ctx context.Context, identity uuid.UUID, amount decimal.Decimal, currency string) error
	Credit(ctx context.Context, identity uuid.UUID, amount decimal.Decimal, currency string) error
}

// BalanceReader is the read-only counterpart of ValueTransferer, backing
// the query_user_balance entrypoint without requiring the reentrancy guard
// ValueTransferer's mutating calls need.
type BalanceReader interface {
	Balance(ctx context.Context, identity uuid.UUID, currency string) (decimal.Decimal, error)
}
