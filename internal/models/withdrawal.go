package models

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
	WithdrawalSent     WithdrawalStatus = "sent"
)

func (s WithdrawalStatus) Valid() bool {
	switch s {
	case WithdrawalPending, WithdrawalApproved, WithdrawalRejected, WithdrawalSent:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalRejected || s == WithdrawalSent
}

// WithdrawalRequest records an escrowed withdrawal awaiting admin review.
// The amount is debited from the wallet the moment the request is filed and
// returned only on rejection. Requests are kept forever for audit.
type WithdrawalRequest struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Amount    float64          `json:"amount"`
	Asset     Asset            `json:"asset"`
	Address   string           `json:"address"`
	Status    WithdrawalStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (w *WithdrawalRequest) Clone() *WithdrawalRequest {
	cp := *w
	return &cp
}
