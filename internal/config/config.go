// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/NullMeDev/mediabias/internal/apperrors"
)

// Config holds all process configuration
type Config struct {
	HTTPAddr string
	LogLevel string
	LogPath  string

	UserAgent          string
	FetchTimeout       time.Duration
	DirectFetchTimeout time.Duration
	FetchMinBytes      int
	FetchRelays        []string
	FetchRatePerSecond float64
	EnableBrowserFetch bool
	MinBodyLength      int

	NewsAPIKey          string
	GNewsAPIKey         string
	EnableGoogleNewsRSS bool
	SearchTimeout       time.Duration
	SearchRatePerSecond float64
	CoverageLimit       int

	OpenAIAPIKey      string
	HuggingFaceAPIKey string
	ElevenLabsAPIKey  string
	TTSVoice          string

	DatabaseURL      string
	HistoryCapacity  int
	RollupCron       string
	APIRatePerMinute int

	DiscordToken   string
	DiscordAppID   string
	DiscordGuildID string

	RatingsFile string
}

// Load reads an optional .env file and then the process environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without validating it
func FromEnv() *Config {
	return &Config{
		HTTPAddr: GetEnvString("HTTP_ADDR", ":8080"),
		LogLevel: GetEnvString("LOG_LEVEL", "info"),
		LogPath:  GetEnvString("LOG_PATH", ""),

		UserAgent:          GetEnvString("USER_AGENT", "Mozilla/5.0 (compatible; MediaBiasBot/1.0)"),
		FetchTimeout:       GetEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		DirectFetchTimeout: GetEnvDuration("DIRECT_FETCH_TIMEOUT", 10*time.Second),
		FetchMinBytes:      GetEnvInt("FETCH_MIN_BYTES", 500),
		FetchRelays:        GetEnvStringSlice("FETCH_RELAYS", []string{"allorigins", "corsproxy"}),
		FetchRatePerSecond: GetEnvFloat("FETCH_RATE_PER_SECOND", 5),
		EnableBrowserFetch: GetEnvBool("ENABLE_BROWSER_FETCH", false),
		MinBodyLength:      GetEnvInt("MIN_BODY_LENGTH", 100),

		NewsAPIKey:          GetEnvString("NEWS_API_KEY", ""),
		GNewsAPIKey:         GetEnvString("GNEWS_API_KEY", ""),
		EnableGoogleNewsRSS: GetEnvBool("ENABLE_GOOGLE_NEWS_RSS", true),
		SearchTimeout:       GetEnvDuration("SEARCH_TIMEOUT", 10*time.Second),
		SearchRatePerSecond: GetEnvFloat("SEARCH_RATE_PER_SECOND", 2),
		CoverageLimit:       GetEnvInt("COVERAGE_LIMIT", 6),

		OpenAIAPIKey:      GetEnvString("OPENAI_API_KEY", ""),
		HuggingFaceAPIKey: GetEnvString("HUGGINGFACE_API_KEY", ""),
		ElevenLabsAPIKey:  GetEnvString("ELEVENLABS_API_KEY", ""),
		TTSVoice:          GetEnvString("TTS_VOICE", ""),

		DatabaseURL:      GetEnvString("DATABASE_URL", ""),
		HistoryCapacity:  GetEnvInt("HISTORY_CAPACITY", 500),
		RollupCron:       GetEnvString("ROLLUP_CRON", "@hourly"),
		APIRatePerMinute: GetEnvInt("API_RATE_PER_MINUTE", 60),

		DiscordToken:   GetEnvString("DISCORD_TOKEN", ""),
		DiscordAppID:   GetEnvString("DISCORD_APP_ID", ""),
		DiscordGuildID: GetEnvString("DISCORD_GUILD_ID", ""),

		RatingsFile: GetEnvString("RATINGS_FILE", ""),
	}
}

// Validate rejects values the pipeline cannot run with
func (c *Config) Validate() error {
	switch {
	case c.FetchTimeout <= 0:
		return apperrors.NewConfigError("FETCH_TIMEOUT must be positive", nil)
	case c.DirectFetchTimeout <= 0:
		return apperrors.NewConfigError("DIRECT_FETCH_TIMEOUT must be positive", nil)
	case c.SearchTimeout <= 0:
		return apperrors.NewConfigError("SEARCH_TIMEOUT must be positive", nil)
	case c.FetchMinBytes < 0:
		return apperrors.NewConfigError("FETCH_MIN_BYTES must not be negative", nil)
	case c.MinBodyLength <= 0:
		return apperrors.NewConfigError("MIN_BODY_LENGTH must be positive", nil)
	case c.CoverageLimit <= 0:
		return apperrors.NewConfigError("COVERAGE_LIMIT must be positive", nil)
	case c.HistoryCapacity <= 0:
		return apperrors.NewConfigError("HISTORY_CAPACITY must be positive", nil)
	case c.FetchRatePerSecond <= 0:
		return apperrors.NewConfigError("FETCH_RATE_PER_SECOND must be positive", nil)
	case c.SearchRatePerSecond <= 0:
		return apperrors.NewConfigError("SEARCH_RATE_PER_SECOND must be positive", nil)
	case c.APIRatePerMinute <= 0:
		return apperrors.NewConfigError("API_RATE_PER_MINUTE must be positive", nil)
	}

	if (c.DiscordToken == "") != (c.DiscordAppID == "") {
		return apperrors.NewConfigError(
			fmt.Sprintf("DISCORD_TOKEN and DISCORD_APP_ID must be set together (token set: %t)", c.DiscordToken != ""),
			nil,
		)
	}
	return nil
}

// DiscordEnabled reports whether the slash-command front end should start
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordAppID != ""
}
