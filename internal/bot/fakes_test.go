package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/activity"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/attachment"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/cooldown"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/llm"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/prompt"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/repository"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/session"
	"github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/webhook"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentCard struct {
	channelID string
	card      discord.Card
}

type fakeDiscord struct {
	mu         sync.Mutex
	sends      []string
	replies    []string
	cards      []sentCard
	deleted    []discord.MessageRef
	typing     int
	typingStop int
	cardErr    error
	onSendCard func(channelID string)
	nextID     int
}

func (f *fakeDiscord) Connect(_ context.Context) error { return nil }
func (f *fakeDiscord) Close() error                    { return nil }
func (f *fakeDiscord) GetBotUserID() (string, error)   { return "bot-self", nil }

func (f *fakeDiscord) SendChannelMessage(_ string, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, content)
	return nil
}

func (f *fakeDiscord) ReplyToMessage(_ discord.MessageRef, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, content)
	return nil
}

func (f *fakeDiscord) SendCard(channelID string, card discord.Card) (discord.MessageRef, error) {
	if f.onSendCard != nil {
		f.onSendCard(channelID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cardErr != nil {
		return discord.MessageRef{}, f.cardErr
	}
	f.nextID++
	f.cards = append(f.cards, sentCard{channelID: channelID, card: card})
	return discord.MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("card-%d", f.nextID)}, nil
}

func (f *fakeDiscord) DeleteMessage(ref discord.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeDiscord) StartTyping(_ string) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.typingStop++
	}
}

func (f *fakeDiscord) RegisterMessageHandler(_ func(discord.MessageEvent))           {}
func (f *fakeDiscord) RegisterSlashCommandHandler(_ func(discord.SlashCommandEvent)) {}
func (f *fakeDiscord) RegisterButtonHandler(_ func(discord.ButtonEvent))             {}
func (f *fakeDiscord) UpsertSlashCommands(_ string, _ []discord.SlashCommandDefinition) error {
	return nil
}
func (f *fakeDiscord) Run() error { return nil }

type fakeGenerator struct {
	mu       sync.Mutex
	requests []prompt.Request
	once     []string
	answer   string
	panicMsg string
}

func (g *fakeGenerator) Respond(_ context.Context, req prompt.Request) string {
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	return g.answer
}

func (g *fakeGenerator) RespondOnce(_ context.Context, text string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.once = append(g.once, text)
	return g.answer
}

type fakeDownloader struct {
	data  []byte
	err   error
	calls int
}

func (d *fakeDownloader) Download(_ context.Context, _ string, limit int64) ([]byte, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	if int64(len(d.data)) > limit {
		return nil, attachment.ErrTooLarge
	}
	return d.data, nil
}

type fakeHistory struct {
	mu       sync.Mutex
	messages []repository.TrackedMessage
	listErr  error
	prunedAt []time.Time
}

func (h *fakeHistory) Append(_ context.Context, in repository.AppendMessageInput) (*repository.TrackedMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := repository.TrackedMessage{
		ID:         fmt.Sprintf("m-%d", len(h.messages)+1),
		ChannelID:  in.ChannelID,
		AuthorID:   in.AuthorID,
		AuthorName: in.AuthorName,
		Content:    in.Content,
		SentAt:     in.SentAt,
	}
	h.messages = append(h.messages, m)
	return &m, nil
}

func (h *fakeHistory) ListRecent(_ context.Context, channelID string, limit int) ([]repository.TrackedMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listErr != nil {
		return nil, h.listErr
	}
	var out []repository.TrackedMessage
	for _, m := range h.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (h *fakeHistory) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prunedAt = append(h.prunedAt, cutoff)
	return 0, nil
}

type fakeReports struct {
	mu      sync.Mutex
	reports []webhook.TrendReport
	err     error
}

func (r *fakeReports) SendTrendReport(_ context.Context, report webhook.TrendReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

var testSessionConfig = llm.SessionConfig{Model: "gemini-2.5-flash"}

type stubSession struct{}

func (stubSession) Send(_ context.Context, _ []llm.Part) (llm.Reply, error) {
	return llm.Reply{Text: "ok"}, nil
}

type stubChat struct{}

func (stubChat) CreateSession(_ context.Context, _ llm.SessionConfig) (llm.Session, error) {
	return stubSession{}, nil
}

func (stubChat) UploadFile(_ context.Context, _ []byte, _ string) (llm.FileRef, error) {
	return llm.FileRef{}, errors.New("not supported")
}

type testBot struct {
	bot        *Bot
	supervisor *Supervisor
	clock      *fakeClock
	discord    *fakeDiscord
	generator  *fakeGenerator
	downloader *fakeDownloader
	history    *fakeHistory
	reports    *fakeReports
	sessions   *session.Store
	tracker    *activity.Tracker
	sleeps     []time.Duration
}

func testConfig() *config.Config {
	return &config.Config{
		CommandPrefix:      "!",
		MessageMaxLength:   1900,
		ChunkSendDelay:     500 * time.Millisecond,
		MessageGap:         2 * time.Second,
		CommandCooldown:    30 * time.Second,
		GenerationCooldown: 120 * time.Second,
		InactivityTimeout:  10 * time.Minute,
		MaxFileSizeMB:      25,
		TrendMessageLimit:  50,
		TrendTimezone:      "UTC",
	}
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	tb := &testBot{
		clock:      newFakeClock(),
		discord:    &fakeDiscord{},
		generator:  &fakeGenerator{answer: "jawaban"},
		downloader: &fakeDownloader{},
		history:    &fakeHistory{},
		reports:    &fakeReports{},
		sessions:   session.NewStore(stubChat{}),
	}
	cfg := testConfig()
	tb.tracker = activity.NewTrackerWithClock(tb.clock.Now)
	cooldowns := cooldown.NewRegistryWithClock(tb.clock.Now)
	tb.bot = NewBot(cfg, tb.discord, tb.generator, tb.sessions, tb.tracker, cooldowns, tb.downloader, tb.history, tb.reports)
	tb.bot.now = tb.clock.Now
	tb.bot.sleep = func(d time.Duration) { tb.sleeps = append(tb.sleeps, d) }
	tb.bot.SetBotUserID("bot-self")
	tb.supervisor = NewSupervisor(tb.discord, tb.tracker, tb.sessions, cfg.InactivityTimeout)
	return tb
}

// message sends content as a fresh author so the per-author gap never
// interferes unless a test reuses an author on purpose.
func (tb *testBot) message(channelID, authorID, content string, attachments ...discord.Attachment) {
	tb.bot.HandleMessage(discord.MessageEvent{
		MessageID:   fmt.Sprintf("msg-%d", tb.clock.Now().UnixNano()),
		ChannelID:   channelID,
		AuthorID:    authorID,
		AuthorName:  "name-" + authorID,
		Content:     content,
		Attachments: attachments,
	})
}
