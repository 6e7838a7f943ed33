package services_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"spinwheel-backend/internal/config"
	"spinwheel-backend/internal/models"
	"spinwheel-backend/internal/services"
)

type mathSource struct {
	rng *rand.Rand
}

func (m *mathSource) Float64() float64 { return m.rng.Float64() }

func TestNewPrizeTableValidation(t *testing.T) {
	cases := []struct {
		name  string
		tiers []models.PrizeTier
	}{
		{"empty", nil},
		{"zero total weight", []models.PrizeTier{
			{Label: "a", Weight: 0},
			{Label: "b", Weight: 0},
		}},
		{"negative weight", []models.PrizeTier{
			{Label: "a", Weight: -1},
			{Label: "b", Weight: 2},
		}},
		{"win with bad asset", []models.PrizeTier{
			{Label: "a", Asset: "BTC", Amount: 1, Weight: 1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := services.NewPrizeTable(tc.tiers)
			if err == nil {
				t.Fatal("Expected a configuration error")
			}
			var cfgErr *services.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestPrizeTableDeterministicPartition(t *testing.T) {
	table, err := services.NewPrizeTable(config.DefaultSpinTiers())
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}

	tiers := table.Tiers()

	// Uniform 8-slot wheel: value v lands in slot floor(v*8).
	for i := range tiers {
		v := (float64(i) + 0.5) / float64(len(tiers))
		got := table.Sample(&fixedSource{values: []float64{v}})
		if got.Label != tiers[i].Label {
			t.Errorf("Value %.4f: expected %q, got %q", v, tiers[i].Label, got.Label)
		}
	}

	first := table.Sample(&fixedSource{values: []float64{0}})
	if first.Label != tiers[0].Label {
		t.Errorf("Value 0 should map to the first tier, got %q", first.Label)
	}

	last := table.Sample(&fixedSource{values: []float64{0.9999}})
	if last.Label != tiers[len(tiers)-1].Label {
		t.Errorf("Value near 1 should map to the last tier, got %q", last.Label)
	}
}

func TestPrizeTableZeroWeightNeverChosen(t *testing.T) {
	table, err := services.NewPrizeTable([]models.PrizeTier{
		{Label: "a", Weight: 1},
		{Label: "dead", Weight: 0},
		{Label: "b", Weight: 1},
	})
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}

	rng := &mathSource{rng: rand.New(rand.NewSource(42))}
	for i := 0; i < 10000; i++ {
		if got := table.Sample(rng); got.Label == "dead" {
			t.Fatal("Zero-weight tier was sampled")
		}
	}
}

func TestPrizeTableDistribution(t *testing.T) {
	tiers := config.DefaultScratchTiers()
	table, err := services.NewPrizeTable(tiers)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}

	var total float64
	for _, tier := range tiers {
		total += tier.Weight
	}

	const n = 50000
	counts := make(map[string]int)
	rng := &mathSource{rng: rand.New(rand.NewSource(7))}
	for i := 0; i < n; i++ {
		counts[table.Sample(rng).Label]++
	}

	for _, tier := range tiers {
		want := tier.Weight / total
		got := float64(counts[tier.Label]) / n
		if math.Abs(got-want) > 0.01 {
			t.Errorf("Tier %q: expected share ~%.3f, got %.3f", tier.Label, want, got)
		}
	}
}
