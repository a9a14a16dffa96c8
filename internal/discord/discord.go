package discord

import "context"

type MessageRef struct {
	ChannelID string
	MessageID string
}

type Attachment struct {
	URL         string
	Filename    string
	ContentType string
	Size        int
}

type MessageEvent struct {
	MessageID   string
	ChannelID   string
	GuildID     string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
	Attachments []Attachment
}

func (e MessageEvent) Ref() MessageRef {
	return MessageRef{ChannelID: e.ChannelID, MessageID: e.MessageID}
}

type SlashCommandDefinition struct {
	Name        string
	Description string
}

type SlashCommandEvent struct {
	GuildID          string
	ChannelID        string
	CommandName      string
	UserID           string
	RespondEphemeral func(content string) error
	RespondPublic    func(content string) error
}

type ButtonStyle int

const (
	ButtonStylePrimary ButtonStyle = iota + 1
	ButtonStyleSuccess
)

type CardAction struct {
	Label    string
	CustomID string
	Style    ButtonStyle
}

// Card is a rich embed with up to two action buttons.
type Card struct {
	Title       string
	Description string
	Color       int
	Actions     []CardAction
}

type ButtonEvent struct {
	ChannelID   string
	UserID      string
	CustomID    string
	RespondCard func(card Card) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	GetBotUserID() (string, error)
	SendChannelMessage(channelID, content string) error
	ReplyToMessage(ref MessageRef, content string) error
	SendCard(channelID string, card Card) (MessageRef, error)
	DeleteMessage(ref MessageRef) error
	// StartTyping shows the typing indicator until the returned func is
	// called.
	StartTyping(channelID string) (stop func())
	RegisterMessageHandler(handler func(MessageEvent))
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	RegisterButtonHandler(handler func(ButtonEvent))
	UpsertSlashCommands(guildID string, defs []SlashCommandDefinition) error
	Run() error
}
