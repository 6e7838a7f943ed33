package services

import (
	"errors"
	"fmt"
	"time"
)

// Expected outcomes. These travel back to the handler layer as values so the
// caller can decide user-facing messaging; none of them is a server fault.
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimum        = errors.New("amount below withdrawal minimum")
	ErrInvalidAddress      = errors.New("invalid destination address")
	ErrInvalidTransition   = errors.New("invalid withdrawal transition")
	ErrSelfRedemption      = errors.New("cannot redeem own referral code")
	ErrUnknownCode         = errors.New("unknown referral code")
	ErrAlreadyRedeemed     = errors.New("referral code already redeemed")
	ErrNotEligible         = errors.New("mission not completed")
	ErrAlreadyClaimed      = errors.New("mission reward already claimed")
	ErrUnknownMission      = errors.New("unknown mission")
	ErrRequestNotFound     = errors.New("withdrawal request not found")
)

// CooldownError reports a gated action attempted before its window elapsed.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown: %s remaining", e.Remaining)
}

// ConfigError means the static catalog itself is broken (zero-weight prize
// table, exhausted referral code space, bad mission definition). It aborts
// startup instead of being handled per request.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}
