package config

import (
	"fmt"
	"time"

	internalconfig "github.com/NathanAbrahamSinaga/ChatBot-Discord/internal/config"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                    string        `env:"ENV" envDefault:"production"`
	GeminiAPIKey           string        `env:"GEMINI_API_KEY,required"`
	GeminiModel            string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiDeepModel        string        `env:"GEMINI_DEEP_MODEL" envDefault:"gemini-2.5-pro"`
	GeminiTemperature      float32       `env:"GEMINI_TEMPERATURE" envDefault:"0.9"`
	GeminiMaxOutputTokens  int32         `env:"GEMINI_MAX_OUTPUT_TOKENS" envDefault:"4000"`
	GeminiEnableURLContext bool          `env:"GEMINI_ENABLE_URL_CONTEXT" envDefault:"true"`
	AIRequestTimeout       time.Duration `env:"AI_REQUEST_TIMEOUT" envDefault:"2m"`
	DiscordToken           string        `env:"DISCORD_TOKEN,required"`
	DiscordGuildID         string        `env:"DISCORD_GUILD_ID"`
	CommandPrefix          string        `env:"COMMAND_PREFIX" envDefault:"!"`
	GoogleAPIKey           string        `env:"GOOGLE_API_KEY,required"`
	GoogleCSEID            string        `env:"GOOGLE_CSE_ID,required"`
	SearchLanguage         string        `env:"SEARCH_LANGUAGE" envDefault:"lang_id"`
	SearchCountry          string        `env:"SEARCH_COUNTRY" envDefault:"id"`
	SearchResultCount      int           `env:"SEARCH_RESULT_COUNT" envDefault:"5"`
	MessageMaxLength       int           `env:"MESSAGE_MAX_LENGTH" envDefault:"1900"`
	ChunkSendDelay         time.Duration `env:"CHUNK_SEND_DELAY" envDefault:"500ms"`
	MessageGap             time.Duration `env:"MESSAGE_GAP" envDefault:"2s"`
	CommandCooldown        time.Duration `env:"COMMAND_COOLDOWN" envDefault:"30s"`
	GenerationCooldown     time.Duration `env:"GENERATION_COOLDOWN" envDefault:"120s"`
	InactivityTimeout      time.Duration `env:"INACTIVITY_TIMEOUT" envDefault:"10m"`
	IdlePollInterval       time.Duration `env:"IDLE_POLL_INTERVAL" envDefault:"5s"`
	CleanupInterval        time.Duration `env:"CLEANUP_INTERVAL" envDefault:"5m"`
	MaxFileSizeMB          int           `env:"MAX_FILE_SIZE_MB" envDefault:"25"`
	HTTPTimeout            time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	DatabaseURL            string        `env:"DATABASE_URL"`
	HistoryRetention       time.Duration `env:"HISTORY_RETENTION" envDefault:"0s"`
	TrendMessageLimit      int           `env:"TREND_MESSAGE_LIMIT" envDefault:"50"`
	TrendTimezone          string        `env:"TREND_TIMEZONE" envDefault:"Asia/Jakarta"`
	TrendWebhookURL        string        `env:"TREND_WEBHOOK_URL"`
}

// Load merges an optional .env file into the environment (existing variables
// win) and parses the result.
func Load() (*internalconfig.Config, error) {
	_ = godotenv.Load()

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                    raw.Env,
		GeminiAPIKey:           raw.GeminiAPIKey,
		GeminiModel:            raw.GeminiModel,
		GeminiDeepModel:        raw.GeminiDeepModel,
		GeminiTemperature:      raw.GeminiTemperature,
		GeminiMaxOutputTokens:  raw.GeminiMaxOutputTokens,
		GeminiEnableURLContext: raw.GeminiEnableURLContext,
		AIRequestTimeout:       raw.AIRequestTimeout,
		DiscordToken:           raw.DiscordToken,
		DiscordGuildID:         raw.DiscordGuildID,
		CommandPrefix:          raw.CommandPrefix,
		GoogleAPIKey:           raw.GoogleAPIKey,
		GoogleCSEID:            raw.GoogleCSEID,
		SearchLanguage:         raw.SearchLanguage,
		SearchCountry:          raw.SearchCountry,
		SearchResultCount:      raw.SearchResultCount,
		MessageMaxLength:       raw.MessageMaxLength,
		ChunkSendDelay:         raw.ChunkSendDelay,
		MessageGap:             raw.MessageGap,
		CommandCooldown:        raw.CommandCooldown,
		GenerationCooldown:     raw.GenerationCooldown,
		InactivityTimeout:      raw.InactivityTimeout,
		IdlePollInterval:       raw.IdlePollInterval,
		CleanupInterval:        raw.CleanupInterval,
		MaxFileSizeMB:          raw.MaxFileSizeMB,
		HTTPTimeout:            raw.HTTPTimeout,
		DatabaseURL:            raw.DatabaseURL,
		HistoryRetention:       raw.HistoryRetention,
		TrendMessageLimit:      raw.TrendMessageLimit,
		TrendTimezone:          raw.TrendTimezone,
		TrendWebhookURL:        raw.TrendWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
