package services_test

import (
	"context"
	"errors"
	"testing"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

func TestIssueCodeIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.registry.IssueCode(ctx, "owner")
	if err != nil {
		t.Fatalf("Failed to issue code: %v", err)
	}
	if len(first.Code) != 6 {
		t.Errorf("Expected a 6-character code, got %q", first.Code)
	}

	second, err := env.registry.IssueCode(ctx, "owner")
	if err != nil {
		t.Fatalf("Failed to re-issue code: %v", err)
	}
	if second.Code != first.Code {
		t.Errorf("Issuing twice must return the same code: %q vs %q", first.Code, second.Code)
	}
}

func TestRedeemSelfRedemption(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rc, err := env.registry.IssueCode(ctx, "owner")
	if err != nil {
		t.Fatalf("Failed to issue code: %v", err)
	}

	err = env.registry.Redeem(ctx, rc.Code, "owner")
	if !errors.Is(err, services.ErrSelfRedemption) {
		t.Fatalf("Expected ErrSelfRedemption, got %v", err)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	env := newTestEnv(t)

	err := env.registry.Redeem(context.Background(), "NOSUCH", "u1")
	if !errors.Is(err, services.ErrUnknownCode) {
		t.Fatalf("Expected ErrUnknownCode, got %v", err)
	}
}

func TestRedeemGrantsSingleFreeSpin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rc, err := env.registry.IssueCode(ctx, "owner")
	if err != nil {
		t.Fatalf("Failed to issue code: %v", err)
	}

	if err := env.registry.Redeem(ctx, rc.Code, "friend"); err != nil {
		t.Fatalf("First redemption should succeed: %v", err)
	}

	acct, err := env.store.GetAccount(ctx, "friend")
	if err != nil {
		t.Fatalf("Failed to load account: %v", err)
	}
	if acct.FreeSpins != 1 {
		t.Errorf("Expected exactly 1 free spin, got %d", acct.FreeSpins)
	}

	err = env.registry.Redeem(ctx, rc.Code, "friend")
	if !errors.Is(err, services.ErrAlreadyRedeemed) {
		t.Fatalf("Expected ErrAlreadyRedeemed, got %v", err)
	}

	acct, _ = env.store.GetAccount(ctx, "friend")
	if acct.FreeSpins != 1 {
		t.Errorf("Failed redemption must not grant another spin, got %d", acct.FreeSpins)
	}
}

func TestRedeemDifferentUsersShareCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rc, _ := env.registry.IssueCode(ctx, "owner")

	if err := env.registry.Redeem(ctx, rc.Code, "a"); err != nil {
		t.Fatalf("Redemption by a should succeed: %v", err)
	}
	if err := env.registry.Redeem(ctx, rc.Code, "b"); err != nil {
		t.Fatalf("Redemption by b should succeed: %v", err)
	}

	stored, err := env.store.GetCode(ctx, rc.Code)
	if err != nil {
		t.Fatalf("Failed to load code: %v", err)
	}
	if len(stored.RedeemedBy) != 2 {
		t.Errorf("Expected 2 redeemers, got %d", len(stored.RedeemedBy))
	}
}

func TestRedeemAdvancesIssuerInviteMission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rc, _ := env.registry.IssueCode(ctx, "owner")
	if err := env.registry.Redeem(ctx, rc.Code, "friend"); err != nil {
		t.Fatalf("Redemption should succeed: %v", err)
	}

	owner, _ := env.store.GetAccount(ctx, "owner")
	if owner.Progress(models.MissionInviteFriend) != 1 {
		t.Errorf("Issuer invite mission should be completed, got progress %d",
			owner.Progress(models.MissionInviteFriend))
	}

	// No direct balance reward for the issuer; payout only via claim.
	wallet, _ := env.ledger.Balances(ctx, "owner")
	if wallet.SolBalance != 0 || wallet.DfyrBalance != 0 {
		t.Errorf("Issuer must not be paid on redemption, got %v SOL / %v DFYR",
			wallet.SolBalance, wallet.DfyrBalance)
	}
}
