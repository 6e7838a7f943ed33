package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"spinwheel-backend/internal/models"
)

// MemoryStore backs tests and the storeless development mode. Everything is
// deep-copied on the way in and out so callers never share memory with the
// store.
type MemoryStore struct {
	mu sync.Mutex

	accounts     map[string]*models.Account
	wallets      map[string]*models.Wallet
	codes        map[string]*models.ReferralCode
	ownerCodes   map[string]string
	withdrawals  map[string]*models.WithdrawalRequest
	transactions map[string][]*models.Transaction
	stats        map[string]float64
	activeDays   map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[string]*models.Account),
		wallets:      make(map[string]*models.Wallet),
		codes:        make(map[string]*models.ReferralCode),
		ownerCodes:   make(map[string]string),
		withdrawals:  make(map[string]*models.WithdrawalRequest),
		transactions: make(map[string][]*models.Transaction),
		stats:        make(map[string]float64),
		activeDays:   make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		acct = models.NewAccount(userID, time.Now().UTC())
		s.accounts[userID] = acct
	}
	return acct.Clone(), nil
}

func (s *MemoryStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := acct.Clone()
	cp.UpdatedAt = time.Now().UTC()
	s.accounts[acct.UserID] = cp
	return nil
}

func (s *MemoryStore) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.walletLocked(userID).Clone(), nil
}

func (s *MemoryStore) walletLocked(userID string) *models.Wallet {
	w, ok := s.wallets[userID]
	if !ok {
		w = models.NewWallet(userID)
		s.wallets[userID] = w
	}
	return w
}

func (s *MemoryStore) ApplyDelta(ctx context.Context, userID string, asset models.Asset, delta float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.walletLocked(userID)

	balance := w.Balance(asset) + delta
	if balance < 0 {
		return 0, ErrInsufficientBalance
	}

	if asset == models.AssetDFYR {
		w.DfyrBalance = balance
	} else {
		w.SolBalance = balance
	}

	return balance, nil
}

func (s *MemoryStore) GetCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rc, ok := s.codes[code]
	if !ok {
		return nil, ErrUnknownCode
	}
	return rc.Clone(), nil
}

func (s *MemoryStore) GetCodeByOwner(ctx context.Context, ownerID string) (*models.ReferralCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.ownerCodes[ownerID]
	if !ok {
		return nil, nil
	}
	return s.codes[code].Clone(), nil
}

func (s *MemoryStore) CreateCode(ctx context.Context, rc *models.ReferralCode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[rc.Code]; taken {
		return false, nil
	}

	s.codes[rc.Code] = rc.Clone()
	s.ownerCodes[rc.OwnerID] = rc.Code
	return true, nil
}

func (s *MemoryStore) AddRedeemer(ctx context.Context, code, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rc, ok := s.codes[code]
	if !ok {
		return ErrUnknownCode
	}
	if rc.HasRedeemed(userID) {
		return ErrAlreadyRedeemed
	}

	rc.RedeemedBy = append(rc.RedeemedBy, userID)
	return nil
}

func (s *MemoryStore) SaveWithdrawal(ctx context.Context, w *models.WithdrawalRequest, prev models.WithdrawalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.withdrawals[w.ID] = w.Clone()
	return nil
}

func (s *MemoryStore) GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.withdrawals[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return w.Clone(), nil
}

func (s *MemoryStore) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus, limit int64) ([]*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := []*models.WithdrawalRequest{}
	for _, w := range s.withdrawals {
		if status != "" && w.Status != status {
			continue
		}
		requests = append(requests, w.Clone())
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return capRequests(requests, limit), nil
}

func (s *MemoryStore) ListUserWithdrawals(ctx context.Context, userID string, limit int64) ([]*models.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests := []*models.WithdrawalRequest{}
	for _, w := range s.withdrawals {
		if w.UserID != userID {
			continue
		}
		requests = append(requests, w.Clone())
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return capRequests(requests, limit), nil
}

func capRequests(requests []*models.WithdrawalRequest, limit int64) []*models.WithdrawalRequest {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if int64(len(requests)) > limit {
		requests = requests[:limit]
	}
	return requests
}

func (s *MemoryStore) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tx
	list := append(s.transactions[tx.UserID], &cp)
	if len(list) > MaxUserTransactions {
		list = list[len(list)-MaxUserTransactions:]
	}
	s.transactions[tx.UserID] = list
	return nil
}

func (s *MemoryStore) ListTransactions(ctx context.Context, userID string, limit int64) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > MaxUserTransactions {
		limit = 50
	}

	list := s.transactions[userID]
	transactions := []*models.Transaction{}
	for i := len(list) - 1; i >= 0 && int64(len(transactions)) < limit; i-- {
		cp := *list[i]
		transactions = append(transactions, &cp)
	}
	return transactions, nil
}

func (s *MemoryStore) IncrStat(ctx context.Context, name string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats[name] += delta
	return nil
}

func (s *MemoryStore) GetStats(ctx context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]float64, len(s.stats))
	for k, v := range s.stats {
		stats[k] = v
	}
	return stats, nil
}

func (s *MemoryStore) MarkActive(ctx context.Context, userID, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.activeDays[day]
	if !ok {
		set = make(map[string]struct{})
		s.activeDays[day] = set
	}
	set[userID] = struct{}{}
	return nil
}

func (s *MemoryStore) CountActive(ctx context.Context, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.activeDays[day])), nil
}
