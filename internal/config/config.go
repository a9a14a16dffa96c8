package config

import (
	"fmt"
	"net/url"
	"time"
)

// Discord rejects messages above this many characters.
const discordMessageHardLimit = 2000

type Config struct {
	Env string

	GeminiAPIKey           string
	GeminiModel            string
	GeminiDeepModel        string
	GeminiTemperature      float32
	GeminiMaxOutputTokens  int32
	GeminiEnableURLContext bool
	AIRequestTimeout       time.Duration

	DiscordToken   string
	DiscordGuildID string
	CommandPrefix  string

	GoogleAPIKey      string
	GoogleCSEID       string
	SearchLanguage    string
	SearchCountry     string
	SearchResultCount int

	MessageMaxLength   int
	ChunkSendDelay     time.Duration
	MessageGap         time.Duration
	CommandCooldown    time.Duration
	GenerationCooldown time.Duration
	InactivityTimeout  time.Duration
	IdlePollInterval   time.Duration
	CleanupInterval    time.Duration
	MaxFileSizeMB      int
	HTTPTimeout        time.Duration

	DatabaseURL       string
	HistoryRetention  time.Duration
	TrendMessageLimit int
	TrendTimezone     string
	TrendWebhookURL   string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.MessageMaxLength <= 0 || c.MessageMaxLength > discordMessageHardLimit {
		return fmt.Errorf("MESSAGE_MAX_LENGTH must be between 1 and %d, got %d", discordMessageHardLimit, c.MessageMaxLength)
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive, got %d", c.MaxFileSizeMB)
	}
	if c.GeminiMaxOutputTokens <= 0 {
		return fmt.Errorf("GEMINI_MAX_OUTPUT_TOKENS must be positive, got %d", c.GeminiMaxOutputTokens)
	}
	if c.SearchResultCount <= 0 || c.SearchResultCount > 10 {
		return fmt.Errorf("SEARCH_RESULT_COUNT must be between 1 and 10, got %d", c.SearchResultCount)
	}
	for _, d := range c.positiveDurationChecks() {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if c.ChunkSendDelay < 0 {
		return fmt.Errorf("CHUNK_SEND_DELAY must not be negative, got %s", c.ChunkSendDelay)
	}
	if c.HistoryRetention < 0 {
		return fmt.Errorf("HISTORY_RETENTION must not be negative, got %s", c.HistoryRetention)
	}
	if c.TrendMessageLimit <= 0 {
		return fmt.Errorf("TREND_MESSAGE_LIMIT must be positive, got %d", c.TrendMessageLimit)
	}
	if _, err := time.LoadLocation(c.TrendTimezone); err != nil {
		return fmt.Errorf("TREND_TIMEZONE is invalid: %w", err)
	}
	if c.TrendWebhookURL != "" {
		if u, err := url.Parse(c.TrendWebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("TREND_WEBHOOK_URL must be an absolute URL, got %q", c.TrendWebhookURL)
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "GEMINI_API_KEY", value: c.GeminiAPIKey},
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "GOOGLE_API_KEY", value: c.GoogleAPIKey},
		{name: "GOOGLE_CSE_ID", value: c.GoogleCSEID},
		{name: "GEMINI_MODEL", value: c.GeminiModel},
		{name: "GEMINI_DEEP_MODEL", value: c.GeminiDeepModel},
		{name: "COMMAND_PREFIX", value: c.CommandPrefix},
	}
}

type durationField struct {
	name  string
	value time.Duration
}

func (c *Config) positiveDurationChecks() []durationField {
	return []durationField{
		{name: "AI_REQUEST_TIMEOUT", value: c.AIRequestTimeout},
		{name: "MESSAGE_GAP", value: c.MessageGap},
		{name: "COMMAND_COOLDOWN", value: c.CommandCooldown},
		{name: "GENERATION_COOLDOWN", value: c.GenerationCooldown},
		{name: "INACTIVITY_TIMEOUT", value: c.InactivityTimeout},
		{name: "IDLE_POLL_INTERVAL", value: c.IdlePollInterval},
		{name: "CLEANUP_INTERVAL", value: c.CleanupInterval},
		{name: "HTTP_TIMEOUT", value: c.HTTPTimeout},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// MaxFileSizeBytes is the per-part payload cap for attachments.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

// TrendLocation falls back to UTC for a zone Validate would reject.
func (c *Config) TrendLocation() *time.Location {
	loc, err := time.LoadLocation(c.TrendTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
