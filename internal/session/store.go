// Package session owns the per-channel model conversation handles.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	session llm.Session
	cfg     llm.SessionConfig
}

type createResult struct {
	entry   *entry
	created bool
}

// Store holds at most one live session per channel. Sessions are created
// lazily and keep the configuration they were created with until Reset.
type Store struct {
	chat llm.ChatService

	mu       sync.Mutex
	sessions map[string]*entry
	// resets counts Reset calls per channel so a creation that raced with a
	// reset is not stored.
	resets map[string]uint64
	group  singleflight.Group
}

func NewStore(chat llm.ChatService) *Store {
	return &Store{
		chat:     chat,
		sessions: make(map[string]*entry),
		resets:   make(map[string]uint64),
	}
}

// GetOrCreate returns the channel's session, creating it with cfg when none
// exists. created reports whether this call created it; callers that joined
// an in-flight creation get false. cfg is ignored for an existing session.
func (s *Store) GetOrCreate(ctx context.Context, channelID string, cfg llm.SessionConfig) (sess llm.Session, created bool, err error) {
	if e, ok := s.lookup(channelID); ok {
		return e.session, false, nil
	}

	ran := false
	v, err, _ := s.group.Do(channelID, func() (any, error) {
		ran = true
		if e, ok := s.lookup(channelID); ok {
			return createResult{entry: e}, nil
		}
		s.mu.Lock()
		gen := s.resets[channelID]
		s.mu.Unlock()

		newSess, err := s.chat.CreateSession(ctx, cfg)
		if err != nil {
			return nil, err
		}
		e := &entry{session: newSess, cfg: cfg}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.resets[channelID] != gen {
			// The handle is single-use: it answers the turns already waiting on
			// this creation and is then dropped, never stored or closed here. The
			// next turn creates a fresh session.
			slog.Warn("session reset while being created; not storing", "channel_id", channelID)
			return createResult{entry: e, created: true}, nil
		}
		s.sessions[channelID] = e
		slog.Info("session created", "channel_id", channelID, "model", cfg.Model, "google_search", cfg.GoogleSearch, "url_context", cfg.URLContext)
		return createResult{entry: e, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	r := v.(createResult)
	return r.entry.session, ran && r.created, nil
}

func (s *Store) lookup(channelID string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[channelID]
	return e, ok
}

// Config returns the configuration the channel's session was created with.
func (s *Store) Config(channelID string) (llm.SessionConfig, bool) {
	e, ok := s.lookup(channelID)
	if !ok {
		return llm.SessionConfig{}, false
	}
	return e.cfg, true
}

func (s *Store) Has(channelID string) bool {
	_, ok := s.lookup(channelID)
	return ok
}

// Reset discards the channel's session and reports whether one existed.
func (s *Store) Reset(channelID string) bool {
	s.mu.Lock()
	e, ok := s.sessions[channelID]
	delete(s.sessions, channelID)
	s.resets[channelID]++
	s.mu.Unlock()

	if !ok {
		return false
	}
	if c, isCloser := e.session.(io.Closer); isCloser {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close session", "error", err, "channel_id", channelID)
		}
	}
	slog.Info("session reset", "channel_id", channelID)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
