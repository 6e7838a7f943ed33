package services

import (
	"context"
	"fmt"
	"time"

	"spinwheel-backend/internal/config"
	"spinwheel-backend/internal/models"

	"github.com/rs/zerolog"
)

// WithdrawalWorkflow owns the request lifecycle. Funds leave the spendable
// balance the instant a request is filed and come back only on rejection;
// approval and sending are bookkeeping over the already-escrowed amount.
type WithdrawalWorkflow struct {
	store    Store
	ledger   *Ledger
	notifier Notifier
	locks    *KeyedLocks
	cfg      *config.Config
	log      zerolog.Logger
}

func NewWithdrawalWorkflow(store Store, ledger *Ledger, notifier Notifier, locks *KeyedLocks, cfg *config.Config, log zerolog.Logger) *WithdrawalWorkflow {
	return &WithdrawalWorkflow{
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		locks:    locks,
		cfg:      cfg,
		log:      log,
	}
}

func (w *WithdrawalWorkflow) minimum(asset models.Asset) float64 {
	if asset == models.AssetDFYR {
		return w.cfg.MinWithdrawDFYR
	}
	return w.cfg.MinWithdrawSOL
}

// Request validates and files a withdrawal, debiting the amount up front.
// No debit happens on any validation failure.
func (w *WithdrawalWorkflow) Request(ctx context.Context, userID string, amount float64, asset models.Asset, address string) (*models.WithdrawalRequest, error) {
	if !asset.Valid() {
		return nil, fmt.Errorf("invalid asset %q", asset)
	}
	if amount <= 0 || amount < w.minimum(asset) {
		return nil, ErrBelowMinimum
	}
	if len(address) < w.cfg.MinAddressLen {
		return nil, ErrInvalidAddress
	}

	unlock := w.locks.Lock(userID)
	defer unlock()

	// The debit is the balance check: the ledger refuses to go negative.
	if _, err := w.ledger.Apply(ctx, userID, asset, -amount, models.TransactionKindWithdrawal, "withdrawal escrow"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &models.WithdrawalRequest{
		ID:        models.GenerateRequestID(),
		UserID:    userID,
		Amount:    amount,
		Asset:     asset,
		Address:   address,
		Status:    models.WithdrawalPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := w.store.SaveWithdrawal(ctx, req, ""); err != nil {
		// The debit already landed; refund rather than strand the funds.
		if _, rerr := w.ledger.Apply(ctx, userID, asset, amount, models.TransactionKindRefund, "withdrawal filing failed"); rerr != nil {
			w.log.Error().Err(rerr).Str("user_id", userID).Msg("failed to refund after filing error")
		}
		return nil, err
	}

	w.store.IncrStat(ctx, StatTotalWithdrawals, 1)
	w.store.IncrStat(ctx, StatPendingWithdrawals, 1)

	go w.notifier.NotifyWithdrawal(req.Clone())

	w.log.Info().
		Str("request_id", req.ID).
		Str("user_id", userID).
		Float64("amount", amount).
		Str("asset", string(asset)).
		Msg("withdrawal requested")

	return req, nil
}

// Approve moves Pending to Approved.
func (w *WithdrawalWorkflow) Approve(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	return w.transition(ctx, requestID, models.WithdrawalApproved)
}

// Reject moves Pending to Rejected and refunds the escrowed amount.
func (w *WithdrawalWorkflow) Reject(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	return w.transition(ctx, requestID, models.WithdrawalRejected)
}

// MarkSent moves Approved (or Pending, the observed operator shortcut) to
// Sent.
func (w *WithdrawalWorkflow) MarkSent(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	return w.transition(ctx, requestID, models.WithdrawalSent)
}

func (w *WithdrawalWorkflow) transition(ctx context.Context, requestID string, target models.WithdrawalStatus) (*models.WithdrawalRequest, error) {
	unlock := w.locks.Lock("withdrawal:" + requestID)
	defer unlock()

	req, err := w.store.GetWithdrawal(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Re-applying the transition the request already took is a no-op
	// success so operators can safely retry ambiguous calls.
	if req.Status == target {
		return req, nil
	}

	if !transitionAllowed(req.Status, target) {
		return nil, ErrInvalidTransition
	}

	prev := req.Status
	req.Status = target
	req.UpdatedAt = time.Now().UTC()

	if err := w.store.SaveWithdrawal(ctx, req, prev); err != nil {
		return nil, err
	}

	if prev == models.WithdrawalPending {
		w.store.IncrStat(ctx, StatPendingWithdrawals, -1)
	}

	if target == models.WithdrawalRejected {
		note := fmt.Sprintf("withdrawal %s rejected", req.ID)
		if _, err := w.ledger.Apply(ctx, req.UserID, req.Asset, req.Amount, models.TransactionKindRefund, note); err != nil {
			w.log.Error().Err(err).
				Str("request_id", req.ID).
				Str("user_id", req.UserID).
				Msg("failed to refund rejected withdrawal")
			return nil, err
		}
	}

	w.log.Info().
		Str("request_id", req.ID).
		Str("from", string(prev)).
		Str("to", string(target)).
		Msg("withdrawal transition")

	return req, nil
}

func transitionAllowed(from, to models.WithdrawalStatus) bool {
	switch to {
	case models.WithdrawalApproved:
		return from == models.WithdrawalPending
	case models.WithdrawalRejected:
		return from == models.WithdrawalPending
	case models.WithdrawalSent:
		return from == models.WithdrawalPending || from == models.WithdrawalApproved
	}
	return false
}

// Get returns a single request.
func (w *WithdrawalWorkflow) Get(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	return w.store.GetWithdrawal(ctx, requestID)
}

// List returns requests newest first, optionally filtered by status.
func (w *WithdrawalWorkflow) List(ctx context.Context, status models.WithdrawalStatus, limit int64) ([]*models.WithdrawalRequest, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	return w.store.ListWithdrawals(ctx, status, limit)
}

// ListForUser returns one user's requests newest first.
func (w *WithdrawalWorkflow) ListForUser(ctx context.Context, userID string, limit int64) ([]*models.WithdrawalRequest, error) {
	return w.store.ListUserWithdrawals(ctx, userID, limit)
}
