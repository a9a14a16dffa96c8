package repository

import (
	"context"
	"testing"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func appendAt(t *testing.T, repo repository.MessageRepository, channelID, content string, offset time.Duration) *repository.TrackedMessage {
	t.Helper()
	m, err := repo.Append(context.Background(), repository.AppendMessageInput{
		ChannelID:  channelID,
		AuthorID:   "u-1",
		AuthorName: "Budi",
		Content:    content,
		SentAt:     base.Add(offset),
	})
	require.NoError(t, err)
	return m
}

func TestMemoryAppend_AssignsUUID(t *testing.T) {
	repo := NewMemoryRepository()
	m := appendAt(t, repo, "ch-1", "halo", 0)

	_, err := uuid.Parse(m.ID)
	assert.NoError(t, err)
	assert.Equal(t, "halo", m.Content)
}

func TestMemoryListRecent_ReturnsNewestInChronologicalOrder(t *testing.T) {
	repo := NewMemoryRepository()
	for i, text := range []string{"satu", "dua", "tiga", "empat"} {
		appendAt(t, repo, "ch-1", text, time.Duration(i)*time.Minute)
	}
	appendAt(t, repo, "ch-2", "lain", 0)

	got, err := repo.ListRecent(context.Background(), "ch-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tiga", got[0].Content)
	assert.Equal(t, "empat", got[1].Content)

	all, err := repo.ListRecent(context.Background(), "ch-1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryListRecent_ReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	appendAt(t, repo, "ch-1", "asli", 0)

	got, _ := repo.ListRecent(context.Background(), "ch-1", 10)
	got[0].Content = "diubah"

	again, _ := repo.ListRecent(context.Background(), "ch-1", 10)
	assert.Equal(t, "asli", again[0].Content)
}

func TestMemoryPruneBefore(t *testing.T) {
	repo := NewMemoryRepository()
	appendAt(t, repo, "ch-1", "lama", 0)
	appendAt(t, repo, "ch-1", "baru", 2*time.Hour)
	appendAt(t, repo, "ch-2", "lama juga", time.Minute)

	removed, err := repo.PruneBefore(context.Background(), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	left, _ := repo.ListRecent(context.Background(), "ch-1", 10)
	require.Len(t, left, 1)
	assert.Equal(t, "baru", left[0].Content)
	gone, _ := repo.ListRecent(context.Background(), "ch-2", 10)
	assert.Empty(t, gone)
}
