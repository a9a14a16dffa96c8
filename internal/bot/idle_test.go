package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleCustomIDRoundTrip(t *testing.T) {
	for _, action := range []IdleAction{IdleActionNew, IdleActionContinue} {
		got, channelID, ok := parseIdleCustomID(idleCustomID(action, "123456"))
		require.True(t, ok)
		assert.Equal(t, action, got)
		assert.Equal(t, "123456", channelID)
	}

	for _, bad := range []string{"", "idle:", "idle:new:", "idle:restart:1", "new_conversation"} {
		_, _, ok := parseIdleCustomID(bad)
		assert.False(t, ok, bad)
	}
}

func TestSupervisorTick_OnePromptPerIdlePeriod(t *testing.T) {
	tb := newTestBot(t)
	tb.message("ch-1", "u-1", "!activate")
	sends := len(tb.discord.sends)

	tb.clock.Advance(10 * time.Minute)
	tb.supervisor.Tick()
	assert.Empty(t, tb.discord.cards, "no prompt at exactly the timeout")

	tb.clock.Advance(time.Second)
	tb.supervisor.Tick()
	require.Len(t, tb.discord.cards, 1)

	for range 5 {
		tb.clock.Advance(5 * time.Second)
		tb.supervisor.Tick()
	}
	assert.Len(t, tb.discord.cards, 1, "no second prompt while one is outstanding")

	tb.message("ch-1", "u-2", "masih di sini")
	tb.clock.Advance(5 * time.Minute)
	tb.supervisor.Tick()
	assert.Len(t, tb.discord.cards, 1)

	tb.clock.Advance(6 * time.Minute)
	tb.supervisor.Tick()
	assert.Len(t, tb.discord.cards, 2)
	assert.Equal(t, sends, len(tb.discord.sends)-1, "only the implicit prompt reply was sent")
}

func TestSupervisorTick_IgnoresInactiveChannels(t *testing.T) {
	tb := newTestBot(t)
	tb.message("ch-1", "u-1", "halo")
	tb.message("ch-2", "u-2", "!activate")
	tb.clock.Advance(time.Second)
	tb.message("ch-2", "u-3", "!deactivate")

	tb.clock.Advance(time.Hour)
	tb.supervisor.Tick()

	assert.Empty(t, tb.discord.cards)
	assert.True(t, tb.supervisor.activity.Snapshot("ch-2").LastActivityAt.IsZero())
}

func TestSupervisorTick_RetriesAfterSendFailure(t *testing.T) {
	tb := newTestBot(t)
	tb.message("ch-1", "u-1", "!activate")
	tb.clock.Advance(11 * time.Minute)

	tb.discord.cardErr = errors.New("missing access")
	tb.supervisor.Tick()
	assert.False(t, tb.tracker.Snapshot("ch-1").PromptOutstanding)

	tb.discord.cardErr = nil
	tb.clock.Advance(5 * time.Second)
	tb.supervisor.Tick()
	assert.Len(t, tb.discord.cards, 1)
	assert.True(t, tb.tracker.Snapshot("ch-1").PromptOutstanding)
}

func TestSupervisorTick_DeletesCardWhenActivityRaced(t *testing.T) {
	tb := newTestBot(t)
	tb.message("ch-1", "u-1", "!activate")
	tb.clock.Advance(11 * time.Minute)
	tb.discord.onSendCard = func(channelID string) {
		tb.tracker.Touch(channelID)
	}

	tb.supervisor.Tick()

	require.Len(t, tb.discord.cards, 1)
	require.Len(t, tb.discord.deleted, 1)
	assert.Equal(t, "card-1", tb.discord.deleted[0].MessageID)
	assert.False(t, tb.tracker.Snapshot("ch-1").PromptOutstanding)
}

func TestIdleCard(t *testing.T) {
	tb := newTestBot(t)
	tb.message("ch-9", "u-1", "!activate")
	tb.clock.Advance(11 * time.Minute)
	tb.supervisor.Tick()

	require.Len(t, tb.discord.cards, 1)
	card := tb.discord.cards[0].card
	assert.Equal(t, "ch-9", tb.discord.cards[0].channelID)
	assert.Equal(t, idleCardTitle, card.Title)
	assert.Equal(t, "Bot telah tidak aktif selama 10 menit. Pilih opsi di bawah untuk melanjutkan:", card.Description)
	assert.Equal(t, colorBlue, card.Color)
	assert.Equal(t, []discord.CardAction{
		{Label: "New", CustomID: "idle:new:ch-9", Style: discord.ButtonStyleSuccess},
		{Label: "Continue", CustomID: "idle:continue:ch-9", Style: discord.ButtonStylePrimary},
	}, card.Actions)
}

func pressButton(tb *testBot, customID string) (discord.Card, bool) {
	var got discord.Card
	responded := false
	tb.supervisor.HandleButton(discord.ButtonEvent{
		ChannelID: "ch-1",
		UserID:    "u-9",
		CustomID:  customID,
		RespondCard: func(c discord.Card) error {
			got = c
			responded = true
			return nil
		},
	})
	return got, responded
}

func TestHandleButton(t *testing.T) {
	setup := func(t *testing.T) *testBot {
		tb := newTestBot(t)
		tb.message("ch-1", "u-1", "!activate")
		_, _, err := tb.sessions.GetOrCreate(t.Context(), "ch-1", testSessionConfig)
		require.NoError(t, err)
		tb.clock.Advance(11 * time.Minute)
		tb.supervisor.Tick()
		require.Len(t, tb.discord.cards, 1)
		return tb
	}

	t.Run("new discards session", func(t *testing.T) {
		tb := setup(t)
		card, ok := pressButton(tb, "idle:new:ch-1")

		require.True(t, ok)
		assert.Equal(t, idleNewReply, card.Description)
		assert.Equal(t, colorGreen, card.Color)
		assert.False(t, tb.sessions.Has("ch-1"))
		st := tb.tracker.Snapshot("ch-1")
		assert.True(t, st.Active)
		assert.False(t, st.PromptOutstanding)
		assert.Equal(t, tb.clock.Now(), st.LastActivityAt)
		require.Len(t, tb.discord.deleted, 1)
	})

	t.Run("continue keeps session", func(t *testing.T) {
		tb := setup(t)
		card, ok := pressButton(tb, "idle:continue:ch-1")

		require.True(t, ok)
		assert.Equal(t, idleContinueReply, card.Description)
		assert.Equal(t, colorBlurple, card.Color)
		assert.True(t, tb.sessions.Has("ch-1"))
		assert.False(t, tb.tracker.Snapshot("ch-1").PromptOutstanding)
		require.Len(t, tb.discord.deleted, 1)
	})

	t.Run("unknown button", func(t *testing.T) {
		tb := setup(t)
		card, ok := pressButton(tb, "something-else")

		require.True(t, ok)
		assert.Equal(t, messageUnknownAction, card.Description)
		assert.True(t, tb.sessions.Has("ch-1"))
		assert.True(t, tb.tracker.Snapshot("ch-1").PromptOutstanding)
	})
}
