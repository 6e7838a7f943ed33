package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"spinwheel-backend/internal/config"
	"spinwheel-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	key := fmt.Sprintf(KeyAccount, userID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		acct := models.NewAccount(userID, time.Now().UTC())
		if err := s.SaveAccount(ctx, acct); err != nil {
			return nil, fmt.Errorf("failed to create account: %v", err)
		}
		return acct, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %v", err)
	}

	var acct models.Account
	if err := json.Unmarshal([]byte(data), &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %v", err)
	}

	return &acct, nil
}

func (s *RedisStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	key := fmt.Sprintf(KeyAccount, acct.UserID)

	acct.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %v", err)
	}

	return s.client.Set(ctx, key, data, 0).Err()
}

func (s *RedisStore) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	key := fmt.Sprintf(KeyWallet, userID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		wallet := models.NewWallet(userID)
		blob, err := json.Marshal(wallet)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal wallet: %v", err)
		}
		// SetNX so a concurrent ApplyDelta's lazy create is never clobbered.
		if err := s.client.SetNX(ctx, key, blob, 0).Err(); err != nil {
			return nil, fmt.Errorf("failed to create wallet: %v", err)
		}
		return s.GetWallet(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %v", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(data), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %v", err)
	}

	return &wallet, nil
}

var applyDeltaScript = redis.NewScript(`
	local key = KEYS[1]
	local field = ARGV[1]
	local delta = tonumber(ARGV[2])
	local userID = ARGV[3]

	local data = redis.call("GET", key)
	local wallet
	if not data then
		wallet = {user_id = userID, sol_balance = 0, dfyr_balance = 0}
	else
		wallet = cjson.decode(data)
	end

	local balance = (wallet[field] or 0) + delta
	if balance < 0 then
		return redis.error_reply("insufficient balance")
	end

	wallet[field] = balance
	redis.call("SET", key, cjson.encode(wallet))

	return tostring(balance)
`)

func (s *RedisStore) ApplyDelta(ctx context.Context, userID string, asset models.Asset, delta float64) (float64, error) {
	key := fmt.Sprintf(KeyWallet, userID)

	field := "sol_balance"
	if asset == models.AssetDFYR {
		field = "dfyr_balance"
	}

	res, err := applyDeltaScript.Run(ctx, s.client, []string{key}, field, delta, userID).Result()
	if err != nil {
		if strings.Contains(err.Error(), "insufficient balance") {
			return 0, ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to apply balance delta: %v", err)
	}

	var balance float64
	if _, err := fmt.Sscanf(res.(string), "%g", &balance); err != nil {
		return 0, fmt.Errorf("failed to parse balance: %v", err)
	}

	return balance, nil
}

func (s *RedisStore) GetCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	key := fmt.Sprintf(KeyReferralCode, code)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrUnknownCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get referral code: %v", err)
	}

	var rc models.ReferralCode
	if err := json.Unmarshal([]byte(data), &rc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal referral code: %v", err)
	}

	return &rc, nil
}

func (s *RedisStore) GetCodeByOwner(ctx context.Context, ownerID string) (*models.ReferralCode, error) {
	code, err := s.client.Get(ctx, fmt.Sprintf(KeyReferralOwner, ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get owner code: %v", err)
	}

	return s.GetCode(ctx, code)
}

func (s *RedisStore) CreateCode(ctx context.Context, rc *models.ReferralCode) (bool, error) {
	key := fmt.Sprintf(KeyReferralCode, rc.Code)

	data, err := json.Marshal(rc)
	if err != nil {
		return false, fmt.Errorf("failed to marshal referral code: %v", err)
	}

	ok, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to create referral code: %v", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.client.Set(ctx, fmt.Sprintf(KeyReferralOwner, rc.OwnerID), rc.Code, 0).Err(); err != nil {
		return false, fmt.Errorf("failed to index owner code: %v", err)
	}

	return true, nil
}

var addRedeemerScript = redis.NewScript(`
	local key = KEYS[1]
	local userID = ARGV[1]

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("unknown code")
	end

	local code = cjson.decode(data)
	if code.redeemed_by == nil or code.redeemed_by == cjson.null then
		code.redeemed_by = {}
	end
	for _, id in ipairs(code.redeemed_by) do
		if id == userID then
			return redis.error_reply("already redeemed")
		end
	end

	table.insert(code.redeemed_by, userID)
	redis.call("SET", key, cjson.encode(code))

	return "OK"
`)

func (s *RedisStore) AddRedeemer(ctx context.Context, code, userID string) error {
	key := fmt.Sprintf(KeyReferralCode, code)

	err := addRedeemerScript.Run(ctx, s.client, []string{key}, userID).Err()
	if err != nil {
		if strings.Contains(err.Error(), "unknown code") {
			return ErrUnknownCode
		}
		if strings.Contains(err.Error(), "already redeemed") {
			return ErrAlreadyRedeemed
		}
		return fmt.Errorf("failed to record redemption: %v", err)
	}

	return nil
}

func (s *RedisStore) SaveWithdrawal(ctx context.Context, w *models.WithdrawalRequest, prev models.WithdrawalStatus) error {
	key := fmt.Sprintf(KeyWithdrawal, w.ID)

	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to marshal withdrawal: %v", err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save withdrawal: %v", err)
	}

	score := float64(w.CreatedAt.Unix())

	if prev == "" {
		if err := s.client.ZAdd(ctx, KeyWithdrawalsByTime, redis.Z{
			Score:  score,
			Member: w.ID,
		}).Err(); err != nil {
			return fmt.Errorf("failed to index withdrawal: %v", err)
		}

		userKey := fmt.Sprintf(KeyUserWithdrawals, w.UserID)
		if err := s.client.ZAdd(ctx, userKey, redis.Z{
			Score:  score,
			Member: w.ID,
		}).Err(); err != nil {
			return fmt.Errorf("failed to index user withdrawal: %v", err)
		}
	}

	if prev != "" && prev != w.Status {
		s.client.ZRem(ctx, fmt.Sprintf(KeyWithdrawalsByStatus, prev), w.ID)
	}
	if prev != w.Status {
		if err := s.client.ZAdd(ctx, fmt.Sprintf(KeyWithdrawalsByStatus, w.Status), redis.Z{
			Score:  score,
			Member: w.ID,
		}).Err(); err != nil {
			return fmt.Errorf("failed to index withdrawal status: %v", err)
		}
	}

	return nil
}

func (s *RedisStore) GetWithdrawal(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	key := fmt.Sprintf(KeyWithdrawal, id)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %v", err)
	}

	var w models.WithdrawalRequest
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("failed to unmarshal withdrawal: %v", err)
	}

	return &w, nil
}

func (s *RedisStore) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus, limit int64) ([]*models.WithdrawalRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	indexKey := KeyWithdrawalsByTime
	if status != "" {
		indexKey = fmt.Sprintf(KeyWithdrawalsByStatus, status)
	}

	ids, err := s.client.ZRevRange(ctx, indexKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %v", err)
	}

	return s.bulkGetWithdrawals(ctx, ids)
}

func (s *RedisStore) ListUserWithdrawals(ctx context.Context, userID string, limit int64) ([]*models.WithdrawalRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	userKey := fmt.Sprintf(KeyUserWithdrawals, userID)
	ids, err := s.client.ZRevRange(ctx, userKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user withdrawals: %v", err)
	}

	return s.bulkGetWithdrawals(ctx, ids)
}

func (s *RedisStore) bulkGetWithdrawals(ctx context.Context, ids []string) ([]*models.WithdrawalRequest, error) {
	requests := []*models.WithdrawalRequest{}
	for _, id := range ids {
		w, err := s.GetWithdrawal(ctx, id)
		if err != nil {
			continue
		}
		requests = append(requests, w)
	}
	return requests, nil
}

func (s *RedisStore) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	txKey := fmt.Sprintf(KeyTransaction, tx.ID)

	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %v", err)
	}

	if err := s.client.Set(ctx, txKey, data, TTLTransaction).Err(); err != nil {
		return fmt.Errorf("failed to save transaction: %v", err)
	}

	userTxKey := fmt.Sprintf(KeyUserTransactions, tx.UserID)
	if err := s.client.ZAdd(ctx, userTxKey, redis.Z{
		Score:  float64(tx.CreatedAt.Unix()),
		Member: tx.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index transaction: %v", err)
	}

	// Keep only the most recent records per user.
	s.client.ZRemRangeByRank(ctx, userTxKey, 0, -(MaxUserTransactions + 1))

	return nil
}

func (s *RedisStore) ListTransactions(ctx context.Context, userID string, limit int64) ([]*models.Transaction, error) {
	if limit <= 0 || limit > MaxUserTransactions {
		limit = 50
	}

	userTxKey := fmt.Sprintf(KeyUserTransactions, userID)

	txIDs, err := s.client.ZRevRange(ctx, userTxKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction IDs: %v", err)
	}

	transactions := []*models.Transaction{}
	for _, txID := range txIDs {
		data, err := s.client.Get(ctx, fmt.Sprintf(KeyTransaction, txID)).Result()
		if err != nil {
			continue
		}

		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}

		transactions = append(transactions, &tx)
	}

	return transactions, nil
}

func (s *RedisStore) IncrStat(ctx context.Context, name string, delta float64) error {
	return s.client.HIncrByFloat(ctx, KeyStatsCounters, name, delta).Err()
}

func (s *RedisStore) GetStats(ctx context.Context) (map[string]float64, error) {
	raw, err := s.client.HGetAll(ctx, KeyStatsCounters).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %v", err)
	}

	stats := make(map[string]float64, len(raw))
	for name, v := range raw {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
			continue
		}
		stats[name] = f
	}

	return stats, nil
}

func (s *RedisStore) MarkActive(ctx context.Context, userID, day string) error {
	key := fmt.Sprintf(KeyActiveDay, day)
	if err := s.client.SAdd(ctx, key, userID).Err(); err != nil {
		return fmt.Errorf("failed to mark active: %v", err)
	}
	s.client.Expire(ctx, key, TTLActiveDay)
	return nil
}

func (s *RedisStore) CountActive(ctx context.Context, day string) (int64, error) {
	return s.client.SCard(ctx, fmt.Sprintf(KeyActiveDay, day)).Result()
}
