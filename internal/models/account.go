package models

import "time"

type Asset string

const (
	AssetSOL  Asset = "SOL"
	AssetDFYR Asset = "DFYR"
)

func (a Asset) Valid() bool {
	return a == AssetSOL || a == AssetDFYR
}

// Account holds everything about a player except balances, which live on
// the Wallet so balance mutation stays a single atomic operation.
type Account struct {
	UserID    string `json:"user_id" redis:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`

	FreeSpins     int       `json:"free_spins"`
	LastSpinAt    time.Time `json:"last_spin_at"`
	LastScratchAt time.Time `json:"last_scratch_at"`

	// LastLoginDay is a UTC day stamp (2006-01-02) so the daily login
	// counter moves at most once per calendar day.
	LastLoginDay string `json:"last_login_day,omitempty"`

	// MissionProgress maps mission id to progress. Boolean missions use 0/1,
	// counter missions count up and never decrease.
	MissionProgress map[string]int64 `json:"mission_progress"`
	ClaimedMissions []string         `json:"claimed_missions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) Progress(missionID string) int64 {
	if a.MissionProgress == nil {
		return 0
	}
	return a.MissionProgress[missionID]
}

func (a *Account) HasClaimed(missionID string) bool {
	for _, id := range a.ClaimedMissions {
		if id == missionID {
			return true
		}
	}
	return false
}

func (a *Account) Clone() *Account {
	cp := *a
	if a.MissionProgress != nil {
		cp.MissionProgress = make(map[string]int64, len(a.MissionProgress))
		for k, v := range a.MissionProgress {
			cp.MissionProgress[k] = v
		}
	}
	cp.ClaimedMissions = append([]string(nil), a.ClaimedMissions...)
	return &cp
}

// Wallet owns the two balances. All mutation goes through the ledger.
type Wallet struct {
	UserID      string  `json:"user_id" redis:"user_id"`
	SolBalance  float64 `json:"sol_balance"`
	DfyrBalance float64 `json:"dfyr_balance"`
}

func (w *Wallet) Balance(asset Asset) float64 {
	if asset == AssetDFYR {
		return w.DfyrBalance
	}
	return w.SolBalance
}

func (w *Wallet) Clone() *Wallet {
	cp := *w
	return &cp
}
