package models

import "time"

// ReferralCode is issued lazily, one per account, and never regenerated.
type ReferralCode struct {
	Code       string    `json:"code"`
	OwnerID    string    `json:"owner_id"`
	RedeemedBy []string  `json:"redeemed_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *ReferralCode) HasRedeemed(userID string) bool {
	for _, id := range c.RedeemedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *ReferralCode) Clone() *ReferralCode {
	cp := *c
	cp.RedeemedBy = append([]string(nil), c.RedeemedBy...)
	return &cp
}
