// Package cooldown gates named actions per subject with a minimum interval.
package cooldown

import (
	"sync"
	"time"
)

type key struct {
	subjectID string
	action    string
}

// Registry stores the earliest time each (subject, action) pair may run
// again. Expired entries behave exactly like missing ones.
type Registry struct {
	mu        sync.Mutex
	deadlines map[key]time.Time
	now       func() time.Time
}

func NewRegistry() *Registry {
	return NewRegistryWithClock(time.Now)
}

func NewRegistryWithClock(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		deadlines: make(map[key]time.Time),
		now:       now,
	}
}

// CheckAndArm reports whether the action is still blocked and for how long.
// A blocked call leaves the deadline untouched; an allowed call arms a new
// deadline d from now.
func (r *Registry) CheckAndArm(subjectID, action string, d time.Duration) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	k := key{subjectID: subjectID, action: action}
	if deadline, ok := r.deadlines[k]; ok && now.Before(deadline) {
		return true, deadline.Sub(now)
	}
	r.deadlines[k] = now.Add(d)
	return false, 0
}

// Sweep drops entries whose deadline has passed and returns how many were
// removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for k, deadline := range r.deadlines {
		if !now.Before(deadline) {
			delete(r.deadlines, k)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deadlines)
}
