package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"spinwheel-backend/internal/models"
)

// RandomSource yields a float in [0, 1). The engine takes it as an
// interface so tests can pin outcomes.
type RandomSource interface {
	Float64() float64
}

// CryptoSource draws from crypto/rand. Prize selection must not be
// predictable from prior outcomes.
type CryptoSource struct{}

const randPrecision = 1 << 53

func (CryptoSource) Float64() float64 {
	v, err := rand.Int(rand.Reader, big.NewInt(randPrecision))
	if err != nil {
		// crypto/rand failing means the host is broken; no fallback
		// would be any safer.
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return float64(v.Int64()) / randPrecision
}

// PrizeTable is a validated, immutable weighted catalog. Sampling
// partitions [0, 1) into intervals proportional to weight, in table
// order, so a given source value always maps to the same tier.
type PrizeTable struct {
	tiers []models.PrizeTier
	total float64
}

func NewPrizeTable(tiers []models.PrizeTier) (*PrizeTable, error) {
	if len(tiers) == 0 {
		return nil, &ConfigError{Reason: "prize table is empty"}
	}

	var total float64
	for i, t := range tiers {
		if t.Weight < 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("tier %d (%s) has negative weight", i, t.Label)}
		}
		if t.IsWin() && !t.Asset.Valid() {
			return nil, &ConfigError{Reason: fmt.Sprintf("tier %d (%s) has invalid asset %q", i, t.Label, t.Asset)}
		}
		if t.IsWin() && t.Amount <= 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("tier %d (%s) has non-positive amount", i, t.Label)}
		}
		total += t.Weight
	}
	if total <= 0 {
		return nil, &ConfigError{Reason: "prize table has zero total weight"}
	}

	return &PrizeTable{
		tiers: append([]models.PrizeTier(nil), tiers...),
		total: total,
	}, nil
}

// Sample picks a tier. Zero-weight tiers occupy an empty interval and are
// never chosen.
func (p *PrizeTable) Sample(rng RandomSource) models.PrizeTier {
	target := rng.Float64() * p.total

	var cum float64
	for i := range p.tiers {
		cum += p.tiers[i].Weight
		if target < cum {
			return p.tiers[i]
		}
	}

	// Only reachable through float rounding at the top edge.
	for i := len(p.tiers) - 1; i >= 0; i-- {
		if p.tiers[i].Weight > 0 {
			return p.tiers[i]
		}
	}
	return p.tiers[len(p.tiers)-1]
}

// Tiers returns a copy for display (the wheel layout, scratch odds page).
func (p *PrizeTable) Tiers() []models.PrizeTier {
	return append([]models.PrizeTier(nil), p.tiers...)
}
