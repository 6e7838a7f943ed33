package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

func TestPerformSpinPaysDrawnPrize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Value 0 lands on the first wheel slot: 10,000 DFYR.
	engine := env.newEngine(t, &fixedSource{values: []float64{0}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result, err := engine.PerformSpin(ctx, "u1", now)
	if err != nil {
		t.Fatalf("Failed to spin: %v", err)
	}

	want := mustTier(t, env.cfg.SpinTiers, "10,000 DFYR")
	if result.Prize.Label != want.Label {
		t.Errorf("Expected %q, got %q", want.Label, result.Prize.Label)
	}
	if !result.Won {
		t.Error("A DFYR slot is a win")
	}
	if result.Wallet.DfyrBalance != 10000 {
		t.Errorf("Balance change must match the drawn prize, got %v", result.Wallet.DfyrBalance)
	}

	acct, _ := env.store.GetAccount(ctx, "u1")
	if !acct.LastSpinAt.Equal(now) {
		t.Errorf("LastSpinAt should be the spin time, got %v", acct.LastSpinAt)
	}
	if acct.Progress(models.MissionFirstSpin) != 1 {
		t.Error("First spin mission should be completed")
	}
}

func TestPerformSpinNoWinLeavesBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Slot index 1 is a Try Again.
	engine := env.newEngine(t, &fixedSource{values: []float64{1.5 / 8}})

	result, err := engine.PerformSpin(ctx, "u1", time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to spin: %v", err)
	}
	if result.Won {
		t.Errorf("Expected a no-win slot, got %q", result.Prize.Label)
	}
	if result.Wallet.SolBalance != 0 || result.Wallet.DfyrBalance != 0 {
		t.Error("No-win must not change balances")
	}

	history, _ := env.ledger.History(ctx, "u1", 10)
	if len(history) != 0 {
		t.Errorf("No-win must not write audit records, got %d", len(history))
	}
}

func TestPerformSpinCooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engine := env.newEngine(t, &fixedSource{values: []float64{0.99}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := engine.PerformSpin(ctx, "u1", now); err != nil {
		t.Fatalf("First spin should succeed: %v", err)
	}

	_, err := engine.PerformSpin(ctx, "u1", now.Add(time.Hour))
	var cooldown *services.CooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("Expected CooldownError, got %v", err)
	}
	if cooldown.Remaining != 23*time.Hour {
		t.Errorf("Expected 23h remaining, got %v", cooldown.Remaining)
	}

	if _, err := engine.PerformSpin(ctx, "u1", now.Add(24*time.Hour)); err != nil {
		t.Fatalf("Spin after the window should succeed: %v", err)
	}
}

func TestPerformSpinFreeSpinBypassesCooldown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engine := env.newEngine(t, &fixedSource{values: []float64{0.99}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := engine.PerformSpin(ctx, "u1", now); err != nil {
		t.Fatalf("First spin should succeed: %v", err)
	}

	acct, _ := env.store.GetAccount(ctx, "u1")
	acct.FreeSpins = 1
	env.store.SaveAccount(ctx, acct)

	result, err := engine.PerformSpin(ctx, "u1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Free spin should bypass the cooldown: %v", err)
	}
	if !result.FreeSpinUsed {
		t.Error("Result should report the free spin was consumed")
	}
	if result.FreeSpins != 0 {
		t.Errorf("Expected 0 free spins left, got %d", result.FreeSpins)
	}

	// Credit gone, cooldown still active.
	_, err = engine.PerformSpin(ctx, "u1", now.Add(2*time.Minute))
	var cooldown *services.CooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("Expected CooldownError once credits are spent, got %v", err)
	}
}

func TestPerformSpinLuckyMission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Slot index 2 is the 0.05 SOL jackpot.
	engine := env.newEngine(t, &fixedSource{values: []float64{2.5 / 8}})

	result, err := engine.PerformSpin(ctx, "u1", time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to spin: %v", err)
	}
	if result.Prize.Amount != 0.05 || result.Prize.Asset != models.AssetSOL {
		t.Fatalf("Expected the 0.05 SOL slot, got %+v", result.Prize)
	}

	acct, _ := env.store.GetAccount(ctx, "u1")
	if acct.Progress(models.MissionLuckySpin) != 1 {
		t.Error("Jackpot win should complete the lucky spin mission")
	}
}

func TestPerformScratchCountsPlays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engine := env.newEngine(t, &fixedSource{values: []float64{0.5}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := engine.PerformScratch(ctx, "u1", now.Add(time.Duration(i)*25*time.Hour)); err != nil {
			t.Fatalf("Scratch %d should succeed: %v", i, err)
		}
	}

	acct, _ := env.store.GetAccount(ctx, "u1")
	if acct.Progress(models.MissionScratchPlays) != 3 {
		t.Errorf("Expected 3 recorded plays, got %d", acct.Progress(models.MissionScratchPlays))
	}
}

func TestPerformScratchCooldownIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engine := env.newEngine(t, &fixedSource{values: []float64{0.5}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, err := engine.PerformSpin(ctx, "u1", now); err != nil {
		t.Fatalf("Spin should succeed: %v", err)
	}
	// The spin cooldown does not gate scratch.
	if _, err := engine.PerformScratch(ctx, "u1", now.Add(time.Minute)); err != nil {
		t.Fatalf("Scratch should be independent of the spin cooldown: %v", err)
	}
}

func TestConcurrentSpinsSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engine := env.newEngine(t, &fixedSource{values: []float64{0.99}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.PerformSpin(ctx, "u1", now)
		}(i)
	}
	wg.Wait()

	var successes, cooldowns int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var ce *services.CooldownError
			if errors.As(err, &ce) {
				cooldowns++
			} else {
				t.Errorf("Unexpected error: %v", err)
			}
		}
	}

	if successes != 1 {
		t.Errorf("Exactly one concurrent spin may win, got %d", successes)
	}
	if cooldowns != n-1 {
		t.Errorf("Expected %d cooldown failures, got %d", n-1, cooldowns)
	}
}

func TestCooldownsView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	engine := env.newEngine(t, &fixedSource{values: []float64{0.99}})

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	view, err := engine.Cooldowns(ctx, "u1", now)
	if err != nil {
		t.Fatalf("Failed to read cooldowns: %v", err)
	}
	if !view.SpinReady || !view.ScratchReady {
		t.Error("A fresh account should be eligible for both actions")
	}

	engine.PerformSpin(ctx, "u1", now)

	view, _ = engine.Cooldowns(ctx, "u1", now.Add(time.Hour))
	if view.SpinReady {
		t.Error("Spin should be on cooldown")
	}
	if !view.ScratchReady {
		t.Error("Scratch should still be ready")
	}
}
