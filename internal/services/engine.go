package services

import (
	"context"
	"fmt"
	"time"

	"spinwheel-backend/internal/config"
	"spinwheel-backend/internal/models"

	"github.com/rs/zerolog"
)

// RewardEngine composes the cooldown gate, prize tables, ledger and mission
// tracker behind the two public game actions.
type RewardEngine struct {
	store        Store
	ledger       *Ledger
	missions     *MissionTracker
	spinTable    *PrizeTable
	scratchTable *PrizeTable
	rng          RandomSource
	locks        *KeyedLocks
	broadcaster  Broadcaster
	cfg          *config.Config
	log          zerolog.Logger
}

func NewRewardEngine(store Store, ledger *Ledger, missions *MissionTracker, spinTable, scratchTable *PrizeTable, rng RandomSource, locks *KeyedLocks, broadcaster Broadcaster, cfg *config.Config, log zerolog.Logger) *RewardEngine {
	return &RewardEngine{
		store:        store,
		ledger:       ledger,
		missions:     missions,
		spinTable:    spinTable,
		scratchTable: scratchTable,
		rng:          rng,
		locks:        locks,
		broadcaster:  broadcaster,
		cfg:          cfg,
		log:          log,
	}
}

// SpinResult is the outcome of one spin or scratch.
type SpinResult struct {
	Prize        models.PrizeTier `json:"prize"`
	Won          bool             `json:"won"`
	FreeSpinUsed bool             `json:"free_spin_used"`
	FreeSpins    int              `json:"free_spins"`
	Wallet       *models.Wallet   `json:"wallet"`
	NextAt       time.Time        `json:"next_at"`
}

// PerformSpin runs one wheel spin. A free spin credit bypasses the
// cooldown entirely; otherwise the 24h window applies. The cooldown check,
// draw and timestamp update run as one unit under the account lock.
func (e *RewardEngine) PerformSpin(ctx context.Context, userID string, now time.Time) (*SpinResult, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	freeSpinUsed := false
	if acct.FreeSpins > 0 {
		acct.FreeSpins--
		freeSpinUsed = true
	} else {
		ok, remaining := CheckCooldown(acct.LastSpinAt, e.cfg.SpinCooldown, now)
		if !ok {
			return nil, &CooldownError{Remaining: remaining}
		}
	}

	tier := e.spinTable.Sample(e.rng)
	acct.LastSpinAt = now

	e.missions.applyProgress(acct, models.MissionFirstSpin, 1)
	if tier.Asset == models.AssetSOL && tier.Amount == e.cfg.LuckySpinAmount {
		e.missions.applyProgress(acct, models.MissionLuckySpin, 1)
	}

	if err := e.store.SaveAccount(ctx, acct); err != nil {
		return nil, err
	}

	wallet, err := e.payout(ctx, userID, tier, "spin prize")
	if err != nil {
		return nil, err
	}

	e.store.IncrStat(ctx, StatTotalSpins, 1)
	e.recordDistribution(ctx, tier)
	e.broadcaster.BroadcastBalance(userID, wallet.Clone())

	e.log.Info().
		Str("user_id", userID).
		Str("prize", tier.Label).
		Bool("free_spin", freeSpinUsed).
		Msg("spin performed")

	return &SpinResult{
		Prize:        tier,
		Won:          tier.IsWin(),
		FreeSpinUsed: freeSpinUsed,
		FreeSpins:    acct.FreeSpins,
		Wallet:       wallet,
		NextAt:       now.Add(e.cfg.SpinCooldown),
	}, nil
}

// PerformScratch mirrors PerformSpin against the scratch table and window.
// Scratch has no free credits; every play counts toward the play-count
// mission.
func (e *RewardEngine) PerformScratch(ctx context.Context, userID string, now time.Time) (*SpinResult, error) {
	unlock := e.locks.Lock(userID)
	defer unlock()

	acct, err := e.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, remaining := CheckCooldown(acct.LastScratchAt, e.cfg.ScratchCooldown, now)
	if !ok {
		return nil, &CooldownError{Remaining: remaining}
	}

	tier := e.scratchTable.Sample(e.rng)
	acct.LastScratchAt = now

	e.missions.applyProgress(acct, models.MissionScratchPlays, 1)

	if err := e.store.SaveAccount(ctx, acct); err != nil {
		return nil, err
	}

	wallet, err := e.payout(ctx, userID, tier, "scratch prize")
	if err != nil {
		return nil, err
	}

	e.store.IncrStat(ctx, StatTotalScratches, 1)
	e.recordDistribution(ctx, tier)
	e.broadcaster.BroadcastBalance(userID, wallet.Clone())

	e.log.Info().
		Str("user_id", userID).
		Str("prize", tier.Label).
		Msg("scratch performed")

	return &SpinResult{
		Prize:     tier,
		Won:       tier.IsWin(),
		FreeSpins: acct.FreeSpins,
		Wallet:    wallet,
		NextAt:    now.Add(e.cfg.ScratchCooldown),
	}, nil
}

// payout applies a winning tier via the ledger and returns the wallet
// snapshot. No-win tiers skip straight to the snapshot.
func (e *RewardEngine) payout(ctx context.Context, userID string, tier models.PrizeTier, noteKind string) (*models.Wallet, error) {
	if tier.IsWin() {
		note := fmt.Sprintf("%s: %s", noteKind, tier.Label)
		if _, err := e.ledger.Apply(ctx, userID, tier.Asset, tier.Amount, models.TransactionKindPrize, note); err != nil {
			return nil, err
		}
	}
	return e.store.GetWallet(ctx, userID)
}

func (e *RewardEngine) recordDistribution(ctx context.Context, tier models.PrizeTier) {
	if !tier.IsWin() {
		return
	}
	stat := StatSolDistributed
	if tier.Asset == models.AssetDFYR {
		stat = StatDfyrDistributed
	}
	e.store.IncrStat(ctx, stat, tier.Amount)
}

// CooldownView is the countdown state the client polls.
type CooldownView struct {
	SpinReady        bool          `json:"spin_ready"`
	SpinRemaining    time.Duration `json:"spin_remaining_ms"`
	ScratchReady     bool          `json:"scratch_ready"`
	ScratchRemaining time.Duration `json:"scratch_remaining_ms"`
	FreeSpins        int           `json:"free_spins"`
}

// Cooldowns reports eligibility for both actions at now.
func (e *RewardEngine) Cooldowns(ctx context.Context, userID string, now time.Time) (*CooldownView, error) {
	acct, err := e.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	spinOK, spinLeft := CheckCooldown(acct.LastSpinAt, e.cfg.SpinCooldown, now)
	scratchOK, scratchLeft := CheckCooldown(acct.LastScratchAt, e.cfg.ScratchCooldown, now)

	return &CooldownView{
		SpinReady:        spinOK || acct.FreeSpins > 0,
		SpinRemaining:    spinLeft / time.Millisecond,
		ScratchReady:     scratchOK,
		ScratchRemaining: scratchLeft / time.Millisecond,
		FreeSpins:        acct.FreeSpins,
	}, nil
}

// SpinTiers exposes the wheel layout for display.
func (e *RewardEngine) SpinTiers() []models.PrizeTier { return e.spinTable.Tiers() }

// ScratchTiers exposes the scratch odds for display.
func (e *RewardEngine) ScratchTiers() []models.PrizeTier { return e.scratchTable.Tiers() }
