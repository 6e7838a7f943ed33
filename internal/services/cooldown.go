package services

import "time"

// CheckCooldown reports whether an action last performed at lastAt may run
// again at now given the window. A zero lastAt means the action has never
// run and is always eligible. When blocked, remaining is the time left
// until eligibility.
func CheckCooldown(lastAt time.Time, window time.Duration, now time.Time) (bool, time.Duration) {
	if lastAt.IsZero() {
		return true, 0
	}

	readyAt := lastAt.Add(window)
	if now.Before(readyAt) {
		return false, readyAt.Sub(now)
	}
	return true, 0
}
