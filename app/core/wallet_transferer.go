package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/foresight/app/wallet"
	"github.com/joefazee/foresight/models"
)

// walletTransferer adapts app/wallet.Service's per-wallet-ID credit/debit
// calls to the engine's per-identity ValueTransferer port, resolving the
// (user, currency) pair to a wallet ID on every call.
type walletTransferer struct {
	wallets wallet.Service
	repo    wallet.Repository
}

// NewWalletTransferer builds a ValueTransferer backed by app/wallet.
func NewWalletTransferer(wallets wallet.Service, repo wallet.Repository) ValueTransferer {
	return &walletTransferer{wallets: wallets, repo: repo}
}

// NewBalanceReader builds a BalanceReader over the same app/wallet
// repository NewWalletTransferer adapts, for the read-only query path that
// has no business acquiring the reentrancy guard.
func NewBalanceReader(repo wallet.Repository) BalanceReader {
	return &walletTransferer{repo: repo}
}

func (w *walletTransferer) resolveWallet(ctx context.Context, identity uuid.UUID, currency string) (uuid.UUID, error) {
	existing, err := w.repo.GetWalletByUserAndCurrency(ctx, identity, currency)
	if err == nil {
		return existing.ID, nil
	}
	created, cerr := w.wallets.CreateWallet(ctx, &wallet.CreateWalletRequest{
		UserID:       identity,
		CurrencyCode: currency,
	})
	if cerr != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

func (w *walletTransferer) Debit(ctx context.Context, identity uuid.UUID, amount decimal.Decimal, currency string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.ErrInvalidTransactionAmount
	}
	walletID, err := w.resolveWallet(ctx, identity, currency)
	if err != nil {
		return models.ErrInvalidWalletBalance
	}
	_, err = w.wallets.DebitWallet(ctx, walletID, &wallet.DebitWalletRequest{
		Amount:      amount,
		Description: "prediction market stake",
	})
	return err
}

// Balance reports identity's current available balance in currency,
// without creating a wallet if one does not yet exist.
func (w *walletTransferer) Balance(ctx context.Context, identity uuid.UUID, currency string) (decimal.Decimal, error) {
	existing, err := w.repo.GetWalletByUserAndCurrency(ctx, identity, currency)
	if err != nil {
		return decimal.Zero, models.ErrRecordNotFound
	}
	return existing.Balance, nil
}

func (w *walletTransferer) Credit(ctx context.Context, identity uuid.UUID, amount decimal.Decimal, currency string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return models.ErrInvalidTransactionAmount
	}
	walletID, err := w.resolveWallet(ctx, identity, currency)
	if err != nil {
		return models.ErrInvalidWalletBalance
	}
	_, err = w.wallets.CreditWallet(ctx, walletID, &wallet.CreditWalletRequest{
		Amount:      amount,
		Description: "prediction market settlement",
	})
	return err
}
