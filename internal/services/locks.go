package services

import "sync"

// KeyedLocks serializes work per key. Every per-account action (spin,
// scratch, withdrawal request, redemption, mission claim) runs under the
// account's lock so check-then-mutate sequences stay atomic; withdrawal
// transitions lock on the request id instead. Locks are never removed —
// the population is bounded by the number of accounts and requests seen
// by this process.
type KeyedLocks struct {
	mu sync.Map // key -> *sync.Mutex
}

func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{}
}

// Lock acquires the mutex for key and returns the unlock func.
func (l *KeyedLocks) Lock(key string) func() {
	v, _ := l.mu.LoadOrStore(key, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
