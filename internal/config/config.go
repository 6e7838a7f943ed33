package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"spinwheel-backend/internal/models"
)

type Config struct {
	Env  string
	Port string

	StoreBackend string // "redis" or "memory"
	RedisURL     string
	RedisPass    string
	RedisDB      int

	JWTSecret string
	JWTExpiry time.Duration
	AdminKey  string

	BotToken        string
	WithdrawChannel string

	SpinCooldown    time.Duration
	ScratchCooldown time.Duration

	MinWithdrawSOL  float64
	MinWithdrawDFYR float64
	MinAddressLen   int

	// LuckySpinAmount is the SOL tier that counts as the jackpot win for
	// the lucky_spin mission.
	LuckySpinAmount float64

	LogLevel  string
	LogFormat string

	SpinTiers    []models.PrizeTier
	ScratchTiers []models.PrizeTier
	Missions     []models.MissionDefinition
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		StoreBackend: getEnv("STORE_BACKEND", "redis"),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		AdminKey:  getEnv("ADMIN_KEY", ""),

		BotToken:        getEnv("TELEGRAM_BOT_TOKEN", ""),
		WithdrawChannel: getEnv("WITHDRAW_CHANNEL", "@withdrawsystem"),

		SpinCooldown:    24 * time.Hour,
		ScratchCooldown: 24 * time.Hour,

		MinWithdrawSOL:  0.05,
		MinWithdrawDFYR: 50000,
		MinAddressLen:   32,
		LuckySpinAmount: 0.05,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		SpinTiers:    DefaultSpinTiers(),
		ScratchTiers: DefaultScratchTiers(),
		Missions:     DefaultMissions(),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	expiry, err := time.ParseDuration(getEnv("JWT_EXPIRY", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY: %v", err)
	}
	cfg.JWTExpiry = expiry

	if v := os.Getenv("SPIN_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SPIN_COOLDOWN: %v", err)
		}
		cfg.SpinCooldown = d
	}
	if v := os.Getenv("SCRATCH_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRATCH_COOLDOWN: %v", err)
		}
		cfg.ScratchCooldown = d
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-do-not-use"
	}

	return cfg, nil
}

// DefaultSpinTiers mirrors the eight wheel segments in their on-wheel
// order. Weights are uniform; tuning happens here, never in the sampler.
func DefaultSpinTiers() []models.PrizeTier {
	return []models.PrizeTier{
		{Label: "10,000 DFYR", Asset: models.AssetDFYR, Amount: 10000, Weight: 1},
		{Label: "Try Again", Weight: 1},
		{Label: "0.05 SOL", Asset: models.AssetSOL, Amount: 0.05, Weight: 1},
		{Label: "0.01 SOL", Asset: models.AssetSOL, Amount: 0.01, Weight: 1},
		{Label: "25,000 DFYR", Asset: models.AssetDFYR, Amount: 25000, Weight: 1},
		{Label: "Try Again", Weight: 1},
		{Label: "0.02 SOL", Asset: models.AssetSOL, Amount: 0.02, Weight: 1},
		{Label: "Try Again", Weight: 1},
	}
}

// DefaultScratchTiers keeps the observed interval order of the scratch
// card: 5% jackpot, 35% minimum, 30% nothing, 15%/15% mid tiers.
func DefaultScratchTiers() []models.PrizeTier {
	return []models.PrizeTier{
		{Label: "0.1 SOL", Asset: models.AssetSOL, Amount: 0.1, Weight: 5},
		{Label: "0.01 SOL", Asset: models.AssetSOL, Amount: 0.01, Weight: 35},
		{Label: "Try Again", Weight: 30},
		{Label: "0.02 SOL", Asset: models.AssetSOL, Amount: 0.02, Weight: 15},
		{Label: "0.05 SOL", Asset: models.AssetSOL, Amount: 0.05, Weight: 15},
	}
}

func DefaultMissions() []models.MissionDefinition {
	return []models.MissionDefinition{
		{ID: models.MissionFirstSpin, Title: "First Spin", Kind: models.MissionKindOnce, Target: 1, RewardAsset: models.AssetDFYR, RewardAmount: 5000},
		{ID: models.MissionLuckySpin, Title: "Lucky Spin", Kind: models.MissionKindOnce, Target: 1, RewardAsset: models.AssetDFYR, RewardAmount: 25000},
		{ID: models.MissionInviteFriend, Title: "Invite a Friend", Kind: models.MissionKindOnce, Target: 1, RewardAsset: models.AssetDFYR, RewardAmount: 10000},
		{ID: models.MissionJoinChannel, Title: "Join the Channel", Kind: models.MissionKindOnce, Target: 1, RewardAsset: models.AssetDFYR, RewardAmount: 5000},
		{ID: models.MissionDailyLogin, Title: "Daily Login Streak", Kind: models.MissionKindCounter, Target: 7, RewardAsset: models.AssetSOL, RewardAmount: 0.01},
		{ID: models.MissionScratchPlays, Title: "Scratch Master", Kind: models.MissionKindCounter, Target: 10, RewardAsset: models.AssetDFYR, RewardAmount: 10000},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
