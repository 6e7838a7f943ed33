package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const referralCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func NewAccount(userID string, now time.Time) *Account {
	return &Account{
		UserID:          userID,
		Username:        "Anonymous",
		MissionProgress: make(map[string]int64),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func NewWallet(userID string) *Wallet {
	return &Wallet{UserID: userID}
}

func GenerateRequestID() string {
	return fmt.Sprintf("wd_%s", uuid.New().String())
}

func GenerateTransactionID() string {
	return fmt.Sprintf("tx_%s", uuid.New().String())
}

// GenerateReferralCode returns n uppercase alphanumeric characters drawn
// from crypto/rand. Uniqueness is the registry's job, not the generator's.
func GenerateReferralCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(referralCharset)))
	for i := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process is in no state to
			// serve anything; fall back to a fixed char so the retry
			// loop upstream can still terminate.
			b[i] = referralCharset[0]
			continue
		}
		b[i] = referralCharset[v.Int64()]
	}
	return string(b)
}
