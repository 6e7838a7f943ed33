package services

import (
	"context"

	"spinwheel-backend/internal/models"
)

// Store is the persistence boundary for the engine. Two implementations
// exist: RedisStore for deployments and MemoryStore for tests and the
// storeless development mode. Accounts and wallets are created lazily on
// first sighting of a user id and never deleted.
type Store interface {
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	SaveAccount(ctx context.Context, acct *models.Account) error

	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	// ApplyDelta atomically adds delta to one balance and returns the new
	// value, or ErrInsufficientBalance when the result would go negative.
	ApplyDelta(ctx context.Context, userID string, asset models.Asset, delta float64) (float64, error)

	GetCode(ctx context.Context, code string) (*models.ReferralCode, error)
	GetCodeByOwner(ctx context.Context, ownerID string) (*models.ReferralCode, error)
	// CreateCode claims a code for its owner. Returns false when the code
	// is already taken by any account.
	CreateCode(ctx context.Context, rc *models.ReferralCode) (bool, error)
	// AddRedeemer atomically records userID against the code. Fails with
	// ErrUnknownCode or ErrAlreadyRedeemed.
	AddRedeemer(ctx context.Context, code, userID string) error

	// SaveWithdrawal persists the request and maintains the status
	// indexes. prev is the status before this save ("" for a new request).
	SaveWithdrawal(ctx context.Context, w *models.WithdrawalRequest, prev models.WithdrawalStatus) error
	GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, status models.WithdrawalStatus, limit int64) ([]*models.WithdrawalRequest, error)
	ListUserWithdrawals(ctx context.Context, userID string, limit int64) ([]*models.WithdrawalRequest, error)

	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID string, limit int64) ([]*models.Transaction, error)

	IncrStat(ctx context.Context, name string, delta float64) error
	GetStats(ctx context.Context) (map[string]float64, error)
	MarkActive(ctx context.Context, userID, day string) error
	CountActive(ctx context.Context, day string) (int64, error)

	Close() error
}
