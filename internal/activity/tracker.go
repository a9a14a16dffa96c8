// Package activity keeps the per-channel listening flag, the last activity
// time and the outstanding idle prompt of each channel.
package activity

import (
	"sort"
	"sync"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
)

type State struct {
	Active         bool
	LastActivityAt time.Time
	// PromptOutstanding is true from the moment an idle prompt is reserved
	// until the user interacts with the channel again.
	PromptOutstanding bool
}

type promptRecord struct {
	token    uint64
	ref      discord.MessageRef
	attached bool
}

type channelState struct {
	active         bool
	lastActivityAt time.Time
	prompt         *promptRecord
}

type Tracker struct {
	mu        sync.Mutex
	channels  map[string]*channelState
	now       func() time.Time
	nextToken uint64
}

func NewTracker() *Tracker {
	return NewTrackerWithClock(time.Now)
}

func NewTrackerWithClock(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		channels: make(map[string]*channelState),
		now:      now,
	}
}

func (t *Tracker) state(channelID string) *channelState {
	st, ok := t.channels[channelID]
	if !ok {
		st = &channelState{}
		t.channels[channelID] = st
	}
	return st
}

// takePrompt must be called with mu held. The returned ref is only valid
// when ok is true; a reservation whose card has not been sent yet is simply
// dropped.
func (st *channelState) takePrompt() (discord.MessageRef, bool) {
	p := st.prompt
	st.prompt = nil
	if p == nil || !p.attached {
		return discord.MessageRef{}, false
	}
	return p.ref, true
}

// Activate marks the channel as listening and returns the outstanding idle
// prompt, if any, so the caller can delete it.
func (t *Tracker) Activate(channelID string) (discord.MessageRef, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(channelID)
	st.active = true
	st.lastActivityAt = t.now()
	return st.takePrompt()
}

// Deactivate stops listening and clears the last activity time.
func (t *Tracker) Deactivate(channelID string) (discord.MessageRef, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(channelID)
	st.active = false
	st.lastActivityAt = time.Time{}
	return st.takePrompt()
}

func (t *Tracker) IsActive(channelID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.channels[channelID]
	return ok && st.active
}

// Touch records activity without changing the listening flag.
func (t *Tracker) Touch(channelID string) (discord.MessageRef, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(channelID)
	st.lastActivityAt = t.now()
	return st.takePrompt()
}

// IdleCandidates lists active channels idle for longer than timeout with no
// outstanding prompt, sorted by channel id.
func (t *Tracker) IdleCandidates(timeout time.Duration) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	var ids []string
	for id, st := range t.channels {
		if isIdle(st, now, timeout) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func isIdle(st *channelState, now time.Time, timeout time.Duration) bool {
	return st.active && st.prompt == nil && now.Sub(st.lastActivityAt) > timeout
}

// ReservePrompt re-checks the idle condition and, when it still holds, marks
// a prompt as outstanding before the card is sent. The token identifies the
// reservation in AttachPrompt and ReleasePrompt.
func (t *Tracker) ReservePrompt(channelID string, timeout time.Duration) (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.channels[channelID]
	if !ok || !isIdle(st, t.now(), timeout) {
		return 0, false
	}
	t.nextToken++
	st.prompt = &promptRecord{token: t.nextToken}
	return t.nextToken, true
}

// AttachPrompt stores the sent card. It returns false when the reservation
// was cleared by user activity in the meantime; the caller then owns the
// card and should delete it.
func (t *Tracker) AttachPrompt(channelID string, token uint64, ref discord.MessageRef) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.channels[channelID]
	if !ok || st.prompt == nil || st.prompt.token != token {
		return false
	}
	st.prompt.ref = ref
	st.prompt.attached = true
	return true
}

// ReleasePrompt drops a reservation whose card could not be sent so the next
// poll can try again.
func (t *Tracker) ReleasePrompt(channelID string, token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.channels[channelID]
	if ok && st.prompt != nil && st.prompt.token == token {
		st.prompt = nil
	}
}

func (t *Tracker) Snapshot(channelID string) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.channels[channelID]
	if !ok {
		return State{}
	}
	return State{
		Active:            st.active,
		LastActivityAt:    st.lastActivityAt,
		PromptOutstanding: st.prompt != nil,
	}
}
