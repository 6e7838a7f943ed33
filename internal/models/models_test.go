package models_test

import (
	"strings"
	"testing"
	"time"

	"spinwheel-backend/internal/models"
)

func TestNewAccountDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	acct := models.NewAccount("user_abc", now)

	if acct.UserID != "user_abc" {
		t.Errorf("expected user id user_abc, got %s", acct.UserID)
	}
	if acct.FreeSpins != 0 {
		t.Errorf("new account should have 0 free spins, got %d", acct.FreeSpins)
	}
	if !acct.LastSpinAt.IsZero() || !acct.LastScratchAt.IsZero() {
		t.Error("new account should have zero action timestamps")
	}
	if acct.Progress(models.MissionFirstSpin) != 0 {
		t.Error("new account should have no mission progress")
	}
	if acct.HasClaimed(models.MissionFirstSpin) {
		t.Error("new account should have no claimed missions")
	}
}

func TestAccountClone(t *testing.T) {
	acct := models.NewAccount("user_abc", time.Now())
	acct.MissionProgress[models.MissionDailyLogin] = 3
	acct.ClaimedMissions = []string{models.MissionFirstSpin}

	cp := acct.Clone()
	cp.MissionProgress[models.MissionDailyLogin] = 99
	cp.ClaimedMissions[0] = "other"

	if acct.MissionProgress[models.MissionDailyLogin] != 3 {
		t.Error("clone shares mission progress map with original")
	}
	if acct.ClaimedMissions[0] != models.MissionFirstSpin {
		t.Error("clone shares claimed missions slice with original")
	}
}

func TestWalletBalance(t *testing.T) {
	w := &models.Wallet{UserID: "u", SolBalance: 0.25, DfyrBalance: 10000}
	if w.Balance(models.AssetSOL) != 0.25 {
		t.Errorf("expected SOL balance 0.25, got %f", w.Balance(models.AssetSOL))
	}
	if w.Balance(models.AssetDFYR) != 10000 {
		t.Errorf("expected DFYR balance 10000, got %f", w.Balance(models.AssetDFYR))
	}
}

func TestGenerateReferralCode(t *testing.T) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	code := models.GenerateReferralCode(6)
	if len(code) != 6 {
		t.Fatalf("expected 6 characters, got %d", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(charset, c) {
			t.Errorf("unexpected character %q in referral code", c)
		}
	}
}

func TestGenerateIDs(t *testing.T) {
	if id := models.GenerateRequestID(); !strings.HasPrefix(id, "wd_") {
		t.Errorf("request id should carry wd_ prefix, got %s", id)
	}
	if id := models.GenerateTransactionID(); !strings.HasPrefix(id, "tx_") {
		t.Errorf("transaction id should carry tx_ prefix, got %s", id)
	}
	if models.GenerateRequestID() == models.GenerateRequestID() {
		t.Error("request ids should be unique")
	}
}

func TestWithdrawalStatus(t *testing.T) {
	if !models.WithdrawalPending.Valid() || models.WithdrawalStatus("bogus").Valid() {
		t.Error("status validity check broken")
	}
	if models.WithdrawalPending.Terminal() || models.WithdrawalApproved.Terminal() {
		t.Error("pending/approved must not be terminal")
	}
	if !models.WithdrawalRejected.Terminal() || !models.WithdrawalSent.Terminal() {
		t.Error("rejected/sent must be terminal")
	}
}

func TestReferralCodeHasRedeemed(t *testing.T) {
	rc := &models.ReferralCode{Code: "AB12CD", OwnerID: "owner", RedeemedBy: []string{"u1"}}
	if !rc.HasRedeemed("u1") {
		t.Error("u1 should be recorded as redeemer")
	}
	if rc.HasRedeemed("u2") {
		t.Error("u2 has not redeemed")
	}
}
