package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/discord"
)

// Discord drops the typing indicator after about ten seconds.
const typingRefreshInterval = 8 * time.Second

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
		done:  make(chan struct{}),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.GetBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.done != nil {
			close(c.done)
		}
		if c.session != nil {
			err = c.session.Close()
		}
	})
	return err
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	_, err := c.session.ChannelMessageSend(channelID, content)
	return err
}

func (c *Client) ReplyToMessage(ref discordpkg.MessageRef, content string) error {
	_, err := c.session.ChannelMessageSendReply(ref.ChannelID, content, &discordgo.MessageReference{
		MessageID: ref.MessageID,
		ChannelID: ref.ChannelID,
	})
	return err
}

func (c *Client) SendCard(channelID string, card discordpkg.Card) (discordpkg.MessageRef, error) {
	msg, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{toEmbed(card)},
		Components: toComponents(card.Actions),
	})
	if err != nil {
		return discordpkg.MessageRef{}, err
	}
	return discordpkg.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

// DeleteMessage treats an already deleted message as success.
func (c *Client) DeleteMessage(ref discordpkg.MessageRef) error {
	err := c.session.ChannelMessageDelete(ref.ChannelID, ref.MessageID)
	if err != nil && isRESTNotFound(err) {
		return nil
	}
	return err
}

func (c *Client) StartTyping(channelID string) func() {
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		ticker := time.NewTicker(typingRefreshInterval)
		defer ticker.Stop()
		for {
			if err := c.session.ChannelTyping(channelID); err != nil {
				slog.Debug("failed to send typing indicator", "error", err, "channel_id", channelID)
			}
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()
	return func() { once.Do(func() { close(stop) }) }
}

func (c *Client) RegisterMessageHandler(handler func(discordpkg.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m == nil || m.Message == nil || m.Author == nil {
			return
		}
		handler(toMessageEvent(m.Message))
	})
}

func toMessageEvent(m *discordgo.Message) discordpkg.MessageEvent {
	event := discordpkg.MessageEvent{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
		AuthorID:    m.Author.ID,
		AuthorName:  preferredDiscordName(m.Author.GlobalName, m.Author.Username, m.Author.ID),
		AuthorIsBot: m.Author.Bot,
		Content:     m.Content,
	}
	if m.Member != nil && m.Member.Nick != "" {
		event.AuthorName = m.Member.Nick
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		event.Attachments = append(event.Attachments, discordpkg.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size,
		})
	}
	return event
}

func (c *Client) RegisterSlashCommandHandler(handler func(discordpkg.SlashCommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID := interactionUserID(ic)
		if userID == "" {
			return
		}
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "command", data.Name, "user_id", userID)
		respond := func(content string, flags discordgo.MessageFlags) error {
			return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: content,
					Flags:   flags,
				},
			})
		}
		handler(discordpkg.SlashCommandEvent{
			GuildID:     ic.GuildID,
			ChannelID:   ic.ChannelID,
			CommandName: data.Name,
			UserID:      userID,
			RespondEphemeral: func(content string) error {
				return respond(content, discordgo.MessageFlagsEphemeral)
			},
			RespondPublic: func(content string) error {
				return respond(content, 0)
			},
		})
	})
}

func (c *Client) RegisterButtonHandler(handler func(discordpkg.ButtonEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		if data.CustomID == "" {
			return
		}
		slog.Info("button interaction received", "channel_id", ic.ChannelID, "custom_id", data.CustomID)
		handler(discordpkg.ButtonEvent{
			ChannelID: ic.ChannelID,
			UserID:    interactionUserID(ic),
			CustomID:  data.CustomID,
			RespondCard: func(card discordpkg.Card) error {
				return s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Embeds:     []*discordgo.MessageEmbed{toEmbed(card)},
						Components: toComponents(card.Actions),
					},
				})
			},
		})
	})
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

func toEmbed(card discordpkg.Card) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       card.Title,
		Description: card.Description,
		Color:       card.Color,
	}
}

func toComponents(actions []discordpkg.CardAction) []discordgo.MessageComponent {
	if len(actions) == 0 {
		return nil
	}
	buttons := make([]discordgo.MessageComponent, 0, len(actions))
	for _, a := range actions {
		style := discordgo.PrimaryButton
		if a.Style == discordpkg.ButtonStyleSuccess {
			style = discordgo.SuccessButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    a.Label,
			Style:    style,
			CustomID: a.CustomID,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// UpsertSlashCommands registers commands for one guild, or globally when
// guildID is empty.
func (c *Client) UpsertSlashCommands(guildID string, defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertSlashCommand(appID, guildID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertSlashCommand(appID, guildID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
	}
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, guildID, payload)
		return err
	}
	if cmd.Description == def.Description {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, guildID, cmd.ID, payload)
	return err
}

func isRESTNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}

func (c *Client) GetBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func preferredDiscordName(globalName, username, fallback string) string {
	if globalName != "" {
		return globalName
	}
	if username != "" {
		return username
	}
	return fallback
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

// Run blocks until Close is called.
func (c *Client) Run() error {
	<-c.done
	return nil
}
