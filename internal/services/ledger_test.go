package services_test

import (
	"context"
	"errors"
	"testing"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

func TestLedgerApplyAndHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	balance, err := env.ledger.Apply(ctx, "u1", models.AssetSOL, 0.2, models.TransactionKindPrize, "test credit")
	if err != nil {
		t.Fatalf("Failed to apply credit: %v", err)
	}
	if balance != 0.2 {
		t.Errorf("Expected balance 0.2, got %v", balance)
	}

	balance, err = env.ledger.Apply(ctx, "u1", models.AssetSOL, -0.1, models.TransactionKindWithdrawal, "test debit")
	if err != nil {
		t.Fatalf("Failed to apply debit: %v", err)
	}
	if balance != 0.1 {
		t.Errorf("Expected balance 0.1, got %v", balance)
	}

	history, err := env.ledger.History(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 audit records, got %d", len(history))
	}
	// Newest first.
	if history[0].Kind != models.TransactionKindWithdrawal {
		t.Errorf("Expected withdrawal first, got %s", history[0].Kind)
	}
	if history[0].BalanceAfter != 0.1 {
		t.Errorf("Expected balance_after 0.1, got %v", history[0].BalanceAfter)
	}
}

func TestLedgerNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.Apply(ctx, "u1", models.AssetDFYR, 100, models.TransactionKindPrize, ""); err != nil {
		t.Fatalf("Failed to seed balance: %v", err)
	}

	_, err := env.ledger.Apply(ctx, "u1", models.AssetDFYR, -101, models.TransactionKindWithdrawal, "")
	if !errors.Is(err, services.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	wallet, err := env.ledger.Balances(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to read wallet: %v", err)
	}
	if wallet.DfyrBalance != 100 {
		t.Errorf("Failed debit must not change the balance, got %v", wallet.DfyrBalance)
	}

	history, _ := env.ledger.History(ctx, "u1", 10)
	if len(history) != 1 {
		t.Errorf("Failed debit must not write an audit record, got %d records", len(history))
	}
}

func TestLedgerZeroDeltaNoAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	balance, err := env.ledger.Apply(ctx, "u1", models.AssetSOL, 0, models.TransactionKindPrize, "no win")
	if err != nil {
		t.Fatalf("Zero delta should succeed: %v", err)
	}
	if balance != 0 {
		t.Errorf("Expected balance 0, got %v", balance)
	}

	history, _ := env.ledger.History(ctx, "u1", 10)
	if len(history) != 0 {
		t.Errorf("Zero delta must not write audit records, got %d", len(history))
	}
}

func TestLedgerAssetsIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.ledger.Apply(ctx, "u1", models.AssetSOL, 0.05, models.TransactionKindPrize, "")
	env.ledger.Apply(ctx, "u1", models.AssetDFYR, 10000, models.TransactionKindPrize, "")

	wallet, err := env.ledger.Balances(ctx, "u1")
	if err != nil {
		t.Fatalf("Failed to read wallet: %v", err)
	}
	if wallet.SolBalance != 0.05 {
		t.Errorf("Expected SOL 0.05, got %v", wallet.SolBalance)
	}
	if wallet.DfyrBalance != 10000 {
		t.Errorf("Expected DFYR 10000, got %v", wallet.DfyrBalance)
	}
}
