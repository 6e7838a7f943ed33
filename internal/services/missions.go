package services

import (
	"context"
	"fmt"
	"time"

	"spinwheel-backend/internal/models"

	"github.com/rs/zerolog"
)

// MissionTracker owns mission progress and reward claims. The catalog is
// static configuration; progress lives on the account.
type MissionTracker struct {
	catalog map[string]models.MissionDefinition
	order   []string
	ledger  *Ledger
	store   Store
	locks   *KeyedLocks
	log     zerolog.Logger
}

func NewMissionTracker(defs []models.MissionDefinition, ledger *Ledger, store Store, locks *KeyedLocks, log zerolog.Logger) (*MissionTracker, error) {
	catalog := make(map[string]models.MissionDefinition, len(defs))
	order := make([]string, 0, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return nil, &ConfigError{Reason: "mission with empty id"}
		}
		if _, dup := catalog[d.ID]; dup {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate mission id %q", d.ID)}
		}
		if d.Kind != models.MissionKindOnce && d.Kind != models.MissionKindCounter {
			return nil, &ConfigError{Reason: fmt.Sprintf("mission %s has unknown kind %q", d.ID, d.Kind)}
		}
		if d.Target <= 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("mission %s has non-positive target", d.ID)}
		}
		if d.RewardAmount <= 0 || !d.RewardAsset.Valid() {
			return nil, &ConfigError{Reason: fmt.Sprintf("mission %s has invalid reward", d.ID)}
		}
		catalog[d.ID] = d
		order = append(order, d.ID)
	}

	return &MissionTracker{
		catalog: catalog,
		order:   order,
		ledger:  ledger,
		store:   store,
		locks:   locks,
		log:     log,
	}, nil
}

// Record advances progress for a mission under the account lock. Boolean
// missions are set once; counters only go up.
func (m *MissionTracker) Record(ctx context.Context, userID, missionID string, value int64) error {
	if _, ok := m.catalog[missionID]; !ok {
		return ErrUnknownMission
	}

	unlock := m.locks.Lock(userID)
	defer unlock()

	acct, err := m.store.GetAccount(ctx, userID)
	if err != nil {
		return err
	}

	if !m.applyProgress(acct, missionID, value) {
		return nil
	}

	return m.store.SaveAccount(ctx, acct)
}

// applyProgress mutates the account in place and reports whether anything
// changed. Callers already hold the account lock.
func (m *MissionTracker) applyProgress(acct *models.Account, missionID string, value int64) bool {
	def, ok := m.catalog[missionID]
	if !ok || value <= 0 {
		return false
	}

	if acct.MissionProgress == nil {
		acct.MissionProgress = make(map[string]int64)
	}

	current := acct.MissionProgress[missionID]
	switch def.Kind {
	case models.MissionKindOnce:
		if current >= 1 {
			return false
		}
		acct.MissionProgress[missionID] = 1
	case models.MissionKindCounter:
		acct.MissionProgress[missionID] = current + value
	}
	return true
}

// Claim pays out a completed mission exactly once.
func (m *MissionTracker) Claim(ctx context.Context, userID, missionID string) (*models.MissionStatus, error) {
	def, ok := m.catalog[missionID]
	if !ok {
		return nil, ErrUnknownMission
	}

	unlock := m.locks.Lock(userID)
	defer unlock()

	acct, err := m.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	if acct.HasClaimed(missionID) {
		return nil, ErrAlreadyClaimed
	}
	if acct.Progress(missionID) < def.Target {
		return nil, ErrNotEligible
	}

	// Mark claimed before paying so a payout failure never leaves the
	// mission claimable twice; the reverse order risks double payment.
	acct.ClaimedMissions = append(acct.ClaimedMissions, missionID)
	if err := m.store.SaveAccount(ctx, acct); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("mission reward: %s", def.Title)
	if _, err := m.ledger.Apply(ctx, userID, def.RewardAsset, def.RewardAmount, models.TransactionKindMission, note); err != nil {
		m.log.Error().Err(err).
			Str("user_id", userID).
			Str("mission_id", missionID).
			Msg("mission payout failed after claim mark")
		return nil, err
	}

	m.log.Info().
		Str("user_id", userID).
		Str("mission_id", missionID).
		Float64("reward", def.RewardAmount).
		Msg("mission reward claimed")

	return m.status(def, acct), nil
}

// Snapshot returns the catalog annotated with the account's progress, in
// catalog order.
func (m *MissionTracker) Snapshot(ctx context.Context, userID string) ([]*models.MissionStatus, error) {
	acct, err := m.store.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]*models.MissionStatus, 0, len(m.order))
	for _, id := range m.order {
		def := m.catalog[id]
		statuses = append(statuses, m.status(def, acct))
	}
	return statuses, nil
}

func (m *MissionTracker) status(def models.MissionDefinition, acct *models.Account) *models.MissionStatus {
	progress := acct.Progress(def.ID)
	return &models.MissionStatus{
		MissionDefinition: def,
		Progress:          progress,
		Completed:         progress >= def.Target,
		Claimed:           acct.HasClaimed(def.ID),
	}
}

// CheckDailyLogin advances the daily login counter at most once per UTC
// calendar day. Called from the profile endpoint on every load.
func (m *MissionTracker) CheckDailyLogin(ctx context.Context, userID string, now time.Time) error {
	day := now.UTC().Format("2006-01-02")

	unlock := m.locks.Lock(userID)
	defer unlock()

	acct, err := m.store.GetAccount(ctx, userID)
	if err != nil {
		return err
	}
	if acct.LastLoginDay == day {
		return nil
	}

	acct.LastLoginDay = day
	m.applyProgress(acct, models.MissionDailyLogin, 1)

	if err := m.store.SaveAccount(ctx, acct); err != nil {
		return err
	}

	if err := m.store.MarkActive(ctx, userID, day); err != nil {
		m.log.Error().Err(err).Str("user_id", userID).Msg("failed to mark daily activity")
	}
	return nil
}
