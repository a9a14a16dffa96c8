package bot

import (
	"log/slog"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
)

const messageUnknownCommand = "⚠️ **Perintah tidak dikenal.**"

// HandleSlashCommand answers /activate and /deactivate. Cooldown notices are
// ephemeral; status changes are posted publicly.
func (b *Bot) HandleSlashCommand(event discord.SlashCommandEvent) {
	defer recoverHandler("slash_command", "channel_id", event.ChannelID, "command", event.CommandName)

	slog.Info("slash command received", "guild_id", event.GuildID, "channel_id", event.ChannelID, "user_id", event.UserID, "command", event.CommandName)
	var active bool
	switch event.CommandName {
	case slashCommandActivate:
		active = true
	case slashCommandDeactivate:
		active = false
	default:
		respond(event.RespondEphemeral, messageUnknownCommand, event)
		return
	}

	msg, blocked := b.setListening(event.ChannelID, event.UserID, active)
	if blocked {
		respond(event.RespondEphemeral, msg, event)
		return
	}
	respond(event.RespondPublic, msg, event)
}

func respond(fn func(string) error, content string, event discord.SlashCommandEvent) {
	if fn == nil {
		return
	}
	if err := fn(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName, "channel_id", event.ChannelID)
	}
}
