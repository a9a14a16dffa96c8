package repository

import "time"

// TrackedMessage is one user message kept for channel statistics.
type TrackedMessage struct {
	ID         string
	ChannelID  string
	AuthorID   string
	AuthorName string
	Content    string
	SentAt     time.Time
}
