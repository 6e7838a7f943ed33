package models

type MissionKind string

const (
	// MissionKindOnce is completed by a single event. Progress is 0 or 1
	// and never flips back.
	MissionKindOnce MissionKind = "once"
	// MissionKindCounter accumulates monotonically toward Target.
	MissionKindCounter MissionKind = "counter"
)

const (
	MissionFirstSpin    = "first_spin"
	MissionLuckySpin    = "lucky_spin"
	MissionInviteFriend = "invite_friend"
	MissionJoinChannel  = "join_channel"
	MissionDailyLogin   = "daily_login"
	MissionScratchPlays = "scratch_plays"
)

// MissionDefinition is static catalog data, not per-user state.
type MissionDefinition struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Kind         MissionKind `json:"kind"`
	Target       int64       `json:"target"`
	RewardAsset  Asset       `json:"reward_asset"`
	RewardAmount float64     `json:"reward_amount"`
}

// MissionStatus is the per-user view of one catalog entry.
type MissionStatus struct {
	MissionDefinition
	Progress  int64 `json:"progress"`
	Completed bool  `json:"completed"`
	Claimed   bool  `json:"claimed"`
}
