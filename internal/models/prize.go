package models

// PrizeTier is one weighted outcome of a gated action. A tier with no asset
// (or a zero amount) is a "no win" slot on the wheel or card.
type PrizeTier struct {
	Label  string  `json:"label"`
	Asset  Asset   `json:"asset,omitempty"`
	Amount float64 `json:"amount"`
	Weight float64 `json:"weight"`
}

func (p PrizeTier) IsWin() bool {
	return p.Asset.Valid() && p.Amount > 0
}
