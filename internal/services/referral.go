package services

import (
	"context"
	"time"

	"spinwheel-backend/internal/models"

	"github.com/rs/zerolog"
)

const (
	referralCodeLen      = 6
	referralCodeAttempts = 64
)

// ReferralRegistry owns code issuance and redemption. One code per account
// for life; a code may be redeemed once per redeeming account and never by
// its owner.
type ReferralRegistry struct {
	store    Store
	missions *MissionTracker
	locks    *KeyedLocks
	log      zerolog.Logger
}

func NewReferralRegistry(store Store, missions *MissionTracker, locks *KeyedLocks, log zerolog.Logger) *ReferralRegistry {
	return &ReferralRegistry{store: store, missions: missions, locks: locks, log: log}
}

// IssueCode returns the account's code, creating it on first call. Codes
// are never regenerated, so repeated calls always return the same value.
func (r *ReferralRegistry) IssueCode(ctx context.Context, userID string) (*models.ReferralCode, error) {
	unlock := r.locks.Lock(userID)
	defer unlock()

	existing, err := r.store.GetCodeByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	for i := 0; i < referralCodeAttempts; i++ {
		rc := &models.ReferralCode{
			Code:      models.GenerateReferralCode(referralCodeLen),
			OwnerID:   userID,
			CreatedAt: time.Now().UTC(),
		}

		ok, err := r.store.CreateCode(ctx, rc)
		if err != nil {
			return nil, err
		}
		if ok {
			return rc, nil
		}
	}

	return nil, &ConfigError{Reason: "referral code space exhausted"}
}

// Redeem records userID against the code and grants the redeemer one free
// spin. The issuer gets no balance reward; their invite mission progress
// moves instead, payable only through an explicit claim.
func (r *ReferralRegistry) Redeem(ctx context.Context, code, userID string) error {
	rc, err := r.store.GetCode(ctx, code)
	if err != nil {
		return err
	}
	if rc.OwnerID == userID {
		return ErrSelfRedemption
	}

	// The store call is the atomic membership check; two racing
	// redemptions of the same code by the same user cannot both pass.
	if err := r.store.AddRedeemer(ctx, code, userID); err != nil {
		return err
	}

	unlock := r.locks.Lock(userID)
	acct, err := r.store.GetAccount(ctx, userID)
	if err != nil {
		unlock()
		return err
	}
	acct.FreeSpins++
	if err := r.store.SaveAccount(ctx, acct); err != nil {
		unlock()
		return err
	}
	unlock()

	if err := r.missions.Record(ctx, rc.OwnerID, models.MissionInviteFriend, 1); err != nil {
		r.log.Error().Err(err).
			Str("owner_id", rc.OwnerID).
			Msg("failed to record invite mission progress")
	}

	if err := r.store.IncrStat(ctx, StatTotalReferrals, 1); err != nil {
		r.log.Error().Err(err).Msg("failed to bump referral stat")
	}

	r.log.Info().
		Str("code", code).
		Str("user_id", userID).
		Str("owner_id", rc.OwnerID).
		Msg("referral code redeemed")

	return nil
}
