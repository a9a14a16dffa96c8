package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/attachment"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/prompt"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/webhook"
	"github.com/google/uuid"
)

const (
	commandReset      = "reset"
	commandChat       = "chat"
	commandThink      = "think"
	commandCari       = "cari"
	commandGift       = "gift"
	commandTrend      = "trend"
	commandActivate   = "activate"
	commandDeactivate = "deactivate"

	// actionMessage keys the per-author gap between any two messages.
	actionMessage = "message"
	actionTrend   = "trend"
)

var knownCommands = []string{
	commandReset,
	commandChat,
	commandThink,
	commandCari,
	commandGift,
	commandTrend,
	commandActivate,
	commandDeactivate,
}

// parseCommand matches prefix+name case-insensitively when the name is
// followed by whitespace or the end of the message.
func parseCommand(prefix, content string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := content[len(prefix):]
	for _, c := range knownCommands {
		if len(rest) < len(c) || !strings.EqualFold(rest[:len(c)], c) {
			continue
		}
		tail := rest[len(c):]
		if r, _ := utf8.DecodeRuneInString(tail); tail != "" && !unicode.IsSpace(r) {
			continue
		}
		return c, strings.TrimSpace(tail), true
	}
	return "", "", false
}

// HandleMessage runs at most one of a command handler or the implicit
// prompt path for ev.
func (b *Bot) HandleMessage(ev discord.MessageEvent) {
	requestID := uuid.NewString()
	defer recoverHandler("message", "request_id", requestID, "channel_id", ev.ChannelID)

	if ev.AuthorIsBot || ev.AuthorID == b.getBotUserID() {
		return
	}
	if blocked, _ := b.cooldowns.CheckAndArm(ev.AuthorID, actionMessage, b.cfg.MessageGap); blocked {
		slog.Debug("message dropped by per-author gap", "request_id", requestID, "channel_id", ev.ChannelID, "user_id", ev.AuthorID)
		return
	}
	b.deletePrompt(b.activity.Touch(ev.ChannelID))

	ctx := context.Background()
	content := strings.TrimSpace(ev.Content)
	name, args, isCommand := parseCommand(b.cfg.CommandPrefix, content)
	if !isCommand {
		b.track(ctx, ev, content)
		if !b.activity.IsActive(ev.ChannelID) || (content == "" && len(ev.Attachments) == 0) {
			return
		}
		b.generate(ctx, ev, requestID, prompt.Request{
			Prompt:   content,
			VideoURL: prompt.ExtractYouTubeURL(content),
			GIFURL:   prompt.ExtractTenorURL(content),
			PageURLs: prompt.ExtractPageURLs(content),
		})
		return
	}

	slog.Info("command received", "request_id", requestID, "command", name, "channel_id", ev.ChannelID, "user_id", ev.AuthorID)
	switch name {
	case commandReset:
		b.handleReset(ev)
	case commandChat:
		if args == "" {
			b.reply(ev, usageMessage(b.cfg.CommandPrefix, name))
			return
		}
		b.generate(ctx, ev, requestID, prompt.Request{
			Prompt:   args,
			VideoURL: prompt.ExtractYouTubeURL(args),
			GIFURL:   prompt.ExtractTenorURL(args),
			PageURLs: prompt.ExtractPageURLs(args),
		})
	case commandThink:
		if args == "" {
			b.reply(ev, usageMessage(b.cfg.CommandPrefix, name))
			return
		}
		b.generate(ctx, ev, requestID, prompt.Request{Prompt: args, Deep: true})
	case commandCari:
		if args == "" {
			b.reply(ev, usageMessage(b.cfg.CommandPrefix, name))
			return
		}
		b.generate(ctx, ev, requestID, prompt.Request{
			Prompt:      prompt.SearchPrompt(args),
			SearchQuery: args,
			VideoURL:    prompt.ExtractYouTubeURL(args),
			GIFURL:      prompt.ExtractTenorURL(args),
		})
	case commandGift:
		if args == "" {
			b.reply(ev, usageMessage(b.cfg.CommandPrefix, name))
			return
		}
		b.generate(ctx, ev, requestID, prompt.Request{Prompt: args, GIFURL: prompt.ExtractTenorURL(args)})
	case commandTrend:
		b.handleTrend(ctx, ev, requestID)
	case commandActivate, commandDeactivate:
		msg, blocked := b.setListening(ev.ChannelID, ev.AuthorID, name == commandActivate)
		if blocked {
			b.reply(ev, msg)
			return
		}
		if err := b.discord.SendChannelMessage(ev.ChannelID, msg); err != nil {
			slog.Error("failed to send status message", "error", err, "channel_id", ev.ChannelID)
		}
	}
}

func (b *Bot) handleReset(ev discord.MessageEvent) {
	msg := messageResetNothing
	if b.sessions.Reset(ev.ChannelID) {
		msg = messageResetDone
	}
	if err := b.discord.SendChannelMessage(ev.ChannelID, msg); err != nil {
		slog.Error("failed to send reset message", "error", err, "channel_id", ev.ChannelID)
	}
}

// generate validates the first attachment, downloads it, and posts the
// model's answer in chunks while the typing indicator is shown.
func (b *Bot) generate(ctx context.Context, ev discord.MessageEvent, requestID string, req prompt.Request) {
	req.ChannelID = ev.ChannelID

	var att *discord.Attachment
	if len(ev.Attachments) > 0 {
		att = &ev.Attachments[0]
		if !prompt.IsSupportedMIMEType(att.ContentType) {
			slog.Info("unsupported attachment rejected", "request_id", requestID, "content_type", att.ContentType, "filename", att.Filename)
			b.reply(ev, prompt.UnsupportedFormatMessage())
			return
		}
	}

	stop := b.discord.StartTyping(ev.ChannelID)
	defer stop()

	if att != nil {
		limit := b.cfg.MaxFileSizeBytes()
		if int64(att.Size) > limit {
			b.reply(ev, prompt.SizeLimitMessage(att.ContentType, limit))
			return
		}
		data, err := b.downloader.Download(ctx, att.URL, limit)
		if errors.Is(err, attachment.ErrTooLarge) {
			b.reply(ev, prompt.SizeLimitMessage(att.ContentType, limit))
			return
		}
		if err != nil {
			slog.Error("failed to download attachment", "error", err, "request_id", requestID, "filename", att.Filename)
			b.reply(ev, downloadFailedMessage(b.cfg.MaxFileSizeMB))
			return
		}
		req.Media = &prompt.Media{Data: data, MIMEType: att.ContentType}
	}

	started := b.now()
	answer := b.generator.Respond(ctx, req)
	slog.Info("reply generated",
		"request_id", requestID,
		"channel_id", ev.ChannelID,
		"deep", req.Deep,
		"search", req.SearchQuery != "",
		"duration_ms", b.now().Sub(started).Milliseconds(),
	)
	b.sendChunks(ev.ChannelID, answer)
}

func (b *Bot) handleTrend(ctx context.Context, ev discord.MessageEvent, requestID string) {
	if blocked, remaining := b.cooldowns.CheckAndArm(ev.AuthorID, actionTrend, b.cfg.GenerationCooldown); blocked {
		b.reply(ev, cooldownMessage(remaining))
		return
	}
	messages, err := b.history.ListRecent(ctx, ev.ChannelID, b.cfg.TrendMessageLimit)
	if err != nil {
		slog.Error("failed to list tracked messages", "error", err, "request_id", requestID, "channel_id", ev.ChannelID)
		b.reply(ev, messageUnexpectedError)
		return
	}
	if len(messages) == 0 {
		b.reply(ev, messageTrendEmpty)
		return
	}

	stop := b.discord.StartTyping(ev.ChannelID)
	defer stop()
	loc := b.cfg.TrendLocation()
	answer := b.generator.RespondOnce(ctx, buildTrendPrompt(ev.ChannelID, messages, loc))
	slog.Info("trend summary generated", "request_id", requestID, "channel_id", ev.ChannelID, "messages", len(messages))
	if !b.sendChunks(ev.ChannelID, answer) || prompt.IsFailureReply(answer) {
		return
	}
	report := webhook.TrendReport{
		ChannelID:    ev.ChannelID,
		RequestedBy:  ev.AuthorID,
		MessageCount: len(messages),
		PeriodStart:  messages[0].SentAt,
		PeriodEnd:    messages[len(messages)-1].SentAt,
		Timezone:     loc.String(),
		Summary:      answer,
		GeneratedAt:  b.now(),
	}
	if err := b.reports.SendTrendReport(ctx, report); err != nil {
		slog.Warn("failed to publish trend report", "error", err, "request_id", requestID, "channel_id", ev.ChannelID)
	}
}

// track keeps plain messages for trend summaries. Commands are not kept.
func (b *Bot) track(ctx context.Context, ev discord.MessageEvent, content string) {
	if content == "" {
		return
	}
	if _, err := b.history.Append(ctx, repository.AppendMessageInput{
		ChannelID:  ev.ChannelID,
		AuthorID:   ev.AuthorID,
		AuthorName: ev.AuthorName,
		Content:    content,
		SentAt:     b.now(),
	}); err != nil {
		slog.Warn("failed to track message", "error", err, "channel_id", ev.ChannelID)
	}
}

// setListening toggles the channel flag behind the per-user command
// cooldown. blocked reports that msg is a cooldown notice.
func (b *Bot) setListening(channelID, userID string, active bool) (msg string, blocked bool) {
	action := commandDeactivate
	if active {
		action = commandActivate
	}
	if isBlocked, remaining := b.cooldowns.CheckAndArm(userID, action, b.cfg.CommandCooldown); isBlocked {
		return cooldownMessage(remaining), true
	}
	if active {
		b.deletePrompt(b.activity.Activate(channelID))
		slog.Info("channel activated", "channel_id", channelID, "user_id", userID)
		return messageActivated, false
	}
	b.deletePrompt(b.activity.Deactivate(channelID))
	slog.Info("channel deactivated", "channel_id", channelID, "user_id", userID)
	return messageDeactivated, false
}

// Cleanup drops expired cooldowns and, with a retention configured, old
// tracked messages.
func (b *Bot) Cleanup(ctx context.Context) error {
	swept := b.cooldowns.Sweep()
	var pruned int64
	if b.cfg.HistoryRetention > 0 {
		n, err := b.history.PruneBefore(ctx, b.now().Add(-b.cfg.HistoryRetention))
		if err != nil {
			return err
		}
		pruned = n
	}
	slog.Info("performed periodic cleanup", "cooldowns_swept", swept, "messages_pruned", pruned, "cooldowns_live", b.cooldowns.Len())
	return nil
}
