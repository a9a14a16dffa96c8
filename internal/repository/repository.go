package repository

import (
	"context"
	"time"
)

type AppendMessageInput struct {
	ChannelID  string
	AuthorID   string
	AuthorName string
	Content    string
	SentAt     time.Time
}

type MessageRepository interface {
	Append(ctx context.Context, input AppendMessageInput) (*TrackedMessage, error)
	// ListRecent returns up to limit of the newest messages of a channel in
	// chronological order. A limit of zero or less returns all of them.
	ListRecent(ctx context.Context, channelID string, limit int) ([]TrackedMessage, error)
	// PruneBefore deletes messages sent before cutoff and returns how many
	// were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
