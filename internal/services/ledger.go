package services

import (
	"context"
	"time"

	"spinwheel-backend/internal/models"

	"github.com/rs/zerolog"
)

// Ledger is the single path for balance mutation. Every credit and debit
// goes through Apply, which delegates atomicity to the store and writes an
// audit transaction after the balance change lands.
type Ledger struct {
	store Store
	log   zerolog.Logger
}

func NewLedger(store Store, log zerolog.Logger) *Ledger {
	return &Ledger{store: store, log: log}
}

// Apply adds delta to the user's balance for asset and records the audit
// transaction. Zero deltas are a no-op so no-win prizes never produce
// audit noise. Returns the balance after the change.
func (l *Ledger) Apply(ctx context.Context, userID string, asset models.Asset, delta float64, kind models.TransactionKind, note string) (float64, error) {
	if delta == 0 {
		w, err := l.store.GetWallet(ctx, userID)
		if err != nil {
			return 0, err
		}
		return w.Balance(asset), nil
	}

	balance, err := l.store.ApplyDelta(ctx, userID, asset, delta)
	if err != nil {
		return 0, err
	}

	tx := &models.Transaction{
		ID:           models.GenerateTransactionID(),
		UserID:       userID,
		Kind:         kind,
		Asset:        asset,
		Amount:       delta,
		BalanceAfter: balance,
		Note:         note,
		CreatedAt:    time.Now().UTC(),
	}

	// The balance change is already durable; a failed audit write is
	// logged, not rolled back.
	if err := l.store.SaveTransaction(ctx, tx); err != nil {
		l.log.Error().Err(err).
			Str("user_id", userID).
			Str("kind", string(kind)).
			Float64("amount", delta).
			Msg("failed to write audit transaction")
	}

	return balance, nil
}

// Balances returns the wallet snapshot used by profile and wallet views.
func (l *Ledger) Balances(ctx context.Context, userID string) (*models.Wallet, error) {
	return l.store.GetWallet(ctx, userID)
}

// History returns the most recent audit records, newest first.
func (l *Ledger) History(ctx context.Context, userID string, limit int64) ([]*models.Transaction, error) {
	return l.store.ListTransactions(ctx, userID, limit)
}
