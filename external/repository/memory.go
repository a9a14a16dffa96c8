package repository

import (
	"context"
	"sync"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	channels map[string][]repository.TrackedMessage
}

func NewMemoryRepository() repository.MessageRepository {
	return &MemoryRepository{channels: make(map[string][]repository.TrackedMessage)}
}

func (r *MemoryRepository) Append(_ context.Context, input repository.AppendMessageInput) (*repository.TrackedMessage, error) {
	msg := repository.TrackedMessage{
		ID:         uuid.NewString(),
		ChannelID:  input.ChannelID,
		AuthorID:   input.AuthorID,
		AuthorName: input.AuthorName,
		Content:    input.Content,
		SentAt:     input.SentAt,
	}
	r.mu.Lock()
	r.channels[input.ChannelID] = append(r.channels[input.ChannelID], msg)
	r.mu.Unlock()
	return &msg, nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, channelID string, limit int) ([]repository.TrackedMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.channels[channelID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]repository.TrackedMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (r *MemoryRepository) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for channelID, msgs := range r.channels {
		kept := msgs[:0]
		for _, m := range msgs {
			if m.SentAt.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == 0 {
			delete(r.channels, channelID)
			continue
		}
		r.channels[channelID] = kept
	}
	return removed, nil
}
