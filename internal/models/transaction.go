package models

import "time"

type TransactionKind string

const (
	TransactionKindPrize      TransactionKind = "prize"
	TransactionKindMission    TransactionKind = "mission"
	TransactionKindWithdrawal TransactionKind = "withdrawal"
	TransactionKindRefund     TransactionKind = "refund"
)

// Transaction is the audit record written for every balance mutation.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Kind         TransactionKind `json:"kind"`
	Asset        Asset           `json:"asset"`
	Amount       float64         `json:"amount"`
	BalanceAfter float64         `json:"balance_after"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
