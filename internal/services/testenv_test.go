package services_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"spinwheel-backend/internal/config"
	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

// fixedSource returns queued values in order, then repeats the last one.
type fixedSource struct {
	values []float64
	idx    int
}

func (f *fixedSource) Float64() float64 {
	if f.idx < len(f.values)-1 {
		v := f.values[f.idx]
		f.idx++
		return v
	}
	return f.values[len(f.values)-1]
}

type testEnv struct {
	store    *services.MemoryStore
	ledger   *services.Ledger
	missions *services.MissionTracker
	registry *services.ReferralRegistry
	workflow *services.WithdrawalWorkflow
	locks    *services.KeyedLocks
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		SpinCooldown:    24 * time.Hour,
		ScratchCooldown: 24 * time.Hour,
		MinWithdrawSOL:  0.05,
		MinWithdrawDFYR: 50000,
		MinAddressLen:   32,
		LuckySpinAmount: 0.05,
		SpinTiers:       config.DefaultSpinTiers(),
		ScratchTiers:    config.DefaultScratchTiers(),
		Missions:        config.DefaultMissions(),
	}

	store := services.NewMemoryStore()
	locks := services.NewKeyedLocks()
	logger := zerolog.Nop()

	ledger := services.NewLedger(store, logger)

	missions, err := services.NewMissionTracker(cfg.Missions, ledger, store, locks, logger)
	if err != nil {
		t.Fatalf("Failed to build mission tracker: %v", err)
	}

	registry := services.NewReferralRegistry(store, missions, locks, logger)
	workflow := services.NewWithdrawalWorkflow(store, ledger, services.NopNotifier{}, locks, cfg, logger)

	return &testEnv{
		store:    store,
		ledger:   ledger,
		missions: missions,
		registry: registry,
		workflow: workflow,
		locks:    locks,
		cfg:      cfg,
	}
}

// newEngine builds a reward engine over the env with a scripted random
// source.
func (env *testEnv) newEngine(t *testing.T, rng services.RandomSource) *services.RewardEngine {
	t.Helper()

	spinTable, err := services.NewPrizeTable(env.cfg.SpinTiers)
	if err != nil {
		t.Fatalf("Failed to build spin table: %v", err)
	}
	scratchTable, err := services.NewPrizeTable(env.cfg.ScratchTiers)
	if err != nil {
		t.Fatalf("Failed to build scratch table: %v", err)
	}

	return services.NewRewardEngine(
		env.store, env.ledger, env.missions, spinTable, scratchTable,
		rng, env.locks, services.NopBroadcaster{}, env.cfg, zerolog.Nop(),
	)
}

func mustTier(t *testing.T, tiers []models.PrizeTier, label string) models.PrizeTier {
	t.Helper()
	for _, tier := range tiers {
		if tier.Label == label {
			return tier
		}
	}
	t.Fatalf("No tier labelled %q", label)
	return models.PrizeTier{}
}
