package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/activity"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
)

type IdleAction int

const (
	IdleActionNew IdleAction = iota + 1
	IdleActionContinue
)

const idleCustomIDPrefix = "idle:"

func (a IdleAction) String() string {
	switch a {
	case IdleActionNew:
		return "new"
	case IdleActionContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// idleCustomID binds a button to the channel the card was sent to.
func idleCustomID(action IdleAction, channelID string) string {
	return idleCustomIDPrefix + action.String() + ":" + channelID
}

func parseIdleCustomID(customID string) (IdleAction, string, bool) {
	rest, ok := strings.CutPrefix(customID, idleCustomIDPrefix)
	if !ok {
		return 0, "", false
	}
	name, channelID, ok := strings.Cut(rest, ":")
	if !ok || channelID == "" {
		return 0, "", false
	}
	switch name {
	case IdleActionNew.String():
		return IdleActionNew, channelID, true
	case IdleActionContinue.String():
		return IdleActionContinue, channelID, true
	}
	return 0, "", false
}

// Supervisor sends one reactivation card per sustained idle period of an
// active channel.
type Supervisor struct {
	discord  discord.Client
	activity *activity.Tracker
	sessions *session.Store
	timeout  time.Duration
}

func NewSupervisor(dc discord.Client, tracker *activity.Tracker, sessions *session.Store, timeout time.Duration) *Supervisor {
	return &Supervisor{
		discord:  dc,
		activity: tracker,
		sessions: sessions,
		timeout:  timeout,
	}
}

// Tick is one poll. A channel whose card could not be sent is retried on
// the next poll.
func (s *Supervisor) Tick() {
	defer recoverHandler("idle_tick")

	for _, channelID := range s.activity.IdleCandidates(s.timeout) {
		token, ok := s.activity.ReservePrompt(channelID, s.timeout)
		if !ok {
			continue
		}
		ref, err := s.discord.SendCard(channelID, s.idleCard(channelID))
		if err != nil {
			slog.Error("failed to send idle prompt", "error", err, "channel_id", channelID)
			s.activity.ReleasePrompt(channelID, token)
			continue
		}
		if !s.activity.AttachPrompt(channelID, token, ref) {
			// The channel saw activity while the card was in flight.
			deleteIdlePrompt(s.discord, ref, true)
			continue
		}
		slog.Info("idle prompt sent", "channel_id", channelID, "message_id", ref.MessageID)
	}
}

func (s *Supervisor) idleCard(channelID string) discord.Card {
	return discord.Card{
		Title:       idleCardTitle,
		Description: fmt.Sprintf(idleCardDescription, idleDuration(s.timeout)),
		Color:       colorBlue,
		Actions: []discord.CardAction{
			{Label: idleNewLabel, CustomID: idleCustomID(IdleActionNew, channelID), Style: discord.ButtonStyleSuccess},
			{Label: idleContinueLabel, CustomID: idleCustomID(IdleActionContinue, channelID), Style: discord.ButtonStylePrimary},
		},
	}
}

// HandleButton applies New or Continue to the channel named in the button.
func (s *Supervisor) HandleButton(event discord.ButtonEvent) {
	defer recoverHandler("button", "channel_id", event.ChannelID, "custom_id", event.CustomID)

	action, channelID, ok := parseIdleCustomID(event.CustomID)
	if !ok {
		slog.Warn("unknown button pressed", "custom_id", event.CustomID, "user_id", event.UserID)
		s.respond(event, discord.Card{Description: messageUnknownAction, Color: colorBlue})
		return
	}

	reply := discord.Card{Description: idleContinueReply, Color: colorBlurple}
	if action == IdleActionNew {
		s.sessions.Reset(channelID)
		reply = discord.Card{Description: idleNewReply, Color: colorGreen}
	}
	ref, hadPrompt := s.activity.Activate(channelID)
	deleteIdlePrompt(s.discord, ref, hadPrompt)
	slog.Info("idle prompt answered", "channel_id", channelID, "user_id", event.UserID, "action", action.String())
	s.respond(event, reply)
}

func (s *Supervisor) respond(event discord.ButtonEvent, card discord.Card) {
	if event.RespondCard == nil {
		return
	}
	if err := event.RespondCard(card); err != nil {
		slog.Error("failed to respond to button", "error", err, "channel_id", event.ChannelID)
	}
}
