package bot

import (
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/activity"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/attachment"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/cooldown"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/prompt"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(_ do.Injector) (*activity.Tracker, error) {
		return activity.NewTracker(), nil
	})
	do.Provide(injector, func(_ do.Injector) (*cooldown.Registry, error) {
		return cooldown.NewRegistry(), nil
	})
	do.Provide(injector, func(i do.Injector) (*Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		assembler := do.MustInvoke[*prompt.Assembler](i)
		sessions := do.MustInvoke[*session.Store](i)
		tracker := do.MustInvoke[*activity.Tracker](i)
		cooldowns := do.MustInvoke[*cooldown.Registry](i)
		downloader := do.MustInvoke[attachment.Downloader](i)
		history := do.MustInvoke[repository.MessageRepository](i)
		reports := do.MustInvoke[webhook.Sender](i)
		return NewBot(cfg, dc, assembler, sessions, tracker, cooldowns, downloader, history, reports), nil
	})
	do.Provide(injector, func(i do.Injector) (*Supervisor, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		sessions := do.MustInvoke[*session.Store](i)
		tracker := do.MustInvoke[*activity.Tracker](i)
		return NewSupervisor(dc, tracker, sessions, cfg.InactivityTimeout), nil
	})
}
