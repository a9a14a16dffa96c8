// Package bot wires the channel state, cooldowns and prompt assembly into
// Discord event handlers.
package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/activity"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/attachment"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/chunk"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/cooldown"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/prompt"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/webhook"
)

const (
	slashCommandActivate   = "activate"
	slashCommandDeactivate = "deactivate"
)

// Generator answers one turn. *prompt.Assembler is the production
// implementation.
type Generator interface {
	Respond(ctx context.Context, req prompt.Request) string
	RespondOnce(ctx context.Context, text string) string
}

type Bot struct {
	cfg        *config.Config
	discord    discord.Client
	generator  Generator
	sessions   *session.Store
	activity   *activity.Tracker
	cooldowns  *cooldown.Registry
	downloader attachment.Downloader
	history    repository.MessageRepository
	reports    webhook.Sender
	now        func() time.Time
	sleep      func(time.Duration)

	mu        sync.RWMutex
	botUserID string
}

func NewBot(
	cfg *config.Config,
	dc discord.Client,
	generator Generator,
	sessions *session.Store,
	tracker *activity.Tracker,
	cooldowns *cooldown.Registry,
	downloader attachment.Downloader,
	history repository.MessageRepository,
	reports webhook.Sender,
) *Bot {
	return &Bot{
		cfg:        cfg,
		discord:    dc,
		generator:  generator,
		sessions:   sessions,
		activity:   tracker,
		cooldowns:  cooldowns,
		downloader: downloader,
		history:    history,
		reports:    reports,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

func (b *Bot) SetBotUserID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.botUserID = id
}

func (b *Bot) getBotUserID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.botUserID
}

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{Name: slashCommandActivate, Description: slashCommandActivateDescription},
		{Name: slashCommandDeactivate, Description: slashCommandDeactivateDescription},
	}
}

// sendChunks posts text as consecutive channel messages, pausing between
// them. It stops at the first failed send and reports whether every chunk
// was delivered.
func (b *Bot) sendChunks(channelID, text string) bool {
	chunks := chunk.Split(text, b.cfg.MessageMaxLength)
	for i, c := range chunks {
		if i > 0 && b.cfg.ChunkSendDelay > 0 {
			b.sleep(b.cfg.ChunkSendDelay)
		}
		if err := b.discord.SendChannelMessage(channelID, c); err != nil {
			slog.Error("failed to send reply chunk", "error", err, "channel_id", channelID, "chunk", i+1, "chunks", len(chunks))
			return false
		}
	}
	return true
}

func (b *Bot) reply(ev discord.MessageEvent, content string) {
	if err := b.discord.ReplyToMessage(ev.Ref(), content); err != nil {
		slog.Error("failed to reply to message", "error", err, "channel_id", ev.ChannelID, "message_id", ev.MessageID)
	}
}

func (b *Bot) deletePrompt(ref discord.MessageRef, ok bool) {
	deleteIdlePrompt(b.discord, ref, ok)
}

// deleteIdlePrompt removes an idle card that user activity made stale.
// Failures are only logged.
func deleteIdlePrompt(dc discord.Client, ref discord.MessageRef, ok bool) {
	if !ok {
		return
	}
	if err := dc.DeleteMessage(ref); err != nil {
		slog.Warn("failed to delete idle prompt", "error", err, "channel_id", ref.ChannelID, "message_id", ref.MessageID)
	}
}

func recoverHandler(handler string, attrs ...any) {
	if r := recover(); r != nil {
		attrs = append(attrs, "handler", handler, "panic", r, "stack", string(debug.Stack()))
		slog.Error("recovered from handler panic", attrs...)
	}
}
