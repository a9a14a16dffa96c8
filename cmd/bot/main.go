package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	attachmentimpl "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/attachment"
	configloader "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/external/discord"
	llmimpl "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/llm"
	repositoryimpl "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/repository"
	scraperimpl "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/scraper"
	searchimpl "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/search"
	webhookimpl "github.com/NathanAbrahamSinaga/ChatBot-Discord/external/webhook"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/bot"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	discordpkg "github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/prompt"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/scheduler"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
	"github.com/samber/do/v2"
)

const (
	discordConnectTimeout = 20 * time.Second
	shutdownTimeout       = 10 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "model", cfg.GeminiModel, "deep_model", cfg.GeminiDeepModel)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching discord bot")
	runBot(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	llmimpl.RegisterDI(injector)
	searchimpl.RegisterDI(injector)
	scraperimpl.RegisterDI(injector)
	attachmentimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	prompt.RegisterDI(injector)
	bot.RegisterDI(injector)

	return injector
}

func mustInvoke[T any](injector do.Injector, name string) T {
	v, err := do.Invoke[T](injector)
	if err != nil {
		slog.Error("failed to resolve "+name, "error", err)
		os.Exit(1)
	}
	return v
}

func runBot(cfg *config.Config, injector do.Injector) {
	dc := mustInvoke[discordpkg.Client](injector, "discord client")
	handler := mustInvoke[*bot.Bot](injector, "bot")
	supervisor := mustInvoke[*bot.Supervisor](injector, "idle supervisor")

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")

	botUserID, err := dc.GetBotUserID()
	if err != nil {
		slog.Error("failed to resolve bot user id", "error", err)
		os.Exit(1)
	}
	handler.SetBotUserID(botUserID)

	if err := dc.UpsertSlashCommands(cfg.DiscordGuildID, bot.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", cfg.DiscordGuildID)
		os.Exit(1)
	}

	dc.RegisterMessageHandler(handler.HandleMessage)
	dc.RegisterSlashCommandHandler(handler.HandleSlashCommand)
	dc.RegisterButtonHandler(supervisor.HandleButton)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "prefix", cfg.CommandPrefix)
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	sched, err := scheduler.New(
		scheduler.Job{Name: "idle_supervisor", Every: cfg.IdlePollInterval, Run: func(context.Context) error {
			supervisor.Tick()
			return nil
		}},
		scheduler.Job{Name: "cleanup", Every: cfg.CleanupInterval, Run: handler.Cleanup},
	)
	if err != nil {
		slog.Error("failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stopCancel()
		sched.Stop(stopCtx)
	}()

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}
}
