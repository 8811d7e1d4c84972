package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultAppConfig returns a fully populated configuration pointing at the
// bundled resources directory.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Environment: "dev",
		Server:      ServerConfig{Port: DEFAULT_SERVER_PORT},
		OpenAI: OpenAIConfig{
			BaseURL:           DEFAULT_OPENAI_ENDPOINT_BASE,
			Model:             DEFAULT_OPENAI_MODEL,
			MaxTokens:         DEFAULT_OPENAI_MAX_TOKENS,
			Temperature:       DEFAULT_OPENAI_TEMPERATURE,
			TimeoutSeconds:    DEFAULT_OPENAI_TIMEOUT_SECONDS,
			RequestsPerMinute: DEFAULT_OPENAI_REQUESTS_PER_MINUTE,
		},
		Redis: RedisConfig{
			Address:              DEFAULT_REDIS_DB_ADDRESS,
			DB:                   DEFAULT_REDIS_DB,
			InterestHistoryLimit: DEFAULT_INTEREST_HISTORY_LIMIT,
		},
		Data: DataConfig{
			Root:           GetResourcePath(""),
			TicketsCSV:     TICKETS_RESOURCE,
			HoursCSV:       HOURS_RESOURCE,
			ClosuresCSV:    CLOSURES_RESOURCE,
			VenuesCSV:      VENUES_RESOURCE,
			CoursesCSV:     COURSES_RESOURCE,
			VisitorInfoTXT: VISITOR_INFO_RESOURCE,
			EnvEduNotesTXT: ENV_EDU_NOTES_RESOURCE,
			RefreshMinutes: DEFAULT_REFERENCE_REFRESH_MINUTES,
		},
		Courses: CoursesConfig{
			ValidYear:              DEFAULT_COURSE_DATA_YEAR,
			ValidMonth:             DEFAULT_COURSE_DATA_MONTH,
			WeekdayWindowPolicy:    WeekdayWindowNow,
			InternalCategoryPrefix: DEFAULT_INTERNAL_CATEGORY_PREFIX,
			InternalVenuePrefix:    DEFAULT_INTERNAL_VENUE_PREFIX,
			ContextMaxRows:         DEFAULT_COURSE_CONTEXT_MAX_ROWS,
		},
		Reply: ReplyConfig{
			MaxChars:        DEFAULT_REPLY_MAX_CHARS,
			NearbyTopN:      DEFAULT_NEARBY_TOP_N,
			UTCOffsetHours:  DEFAULT_UTC_OFFSET_HOURS,
			OfficialSiteURL: DEFAULT_OFFICIAL_SITE_URL,
			TicketInfoURL:   DEFAULT_TICKET_INFO_URL,
		},
	}
}

// LoadAppConfig reads path (or ./config.yml when path is empty) over the
// defaults, applies environment overrides and validates the result. A
// missing ./config.yml is not an error; a missing explicit path is.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	explicit := path != ""
	if !explicit {
		path = "config.yml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		log.Printf("[Config] %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section of cfg.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("LINE_CHANNEL_SECRET"); v != "" {
		cfg.Line.ChannelSecret = v
	}
	if v := os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"); v != "" {
		cfg.Line.ChannelToken = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		cfg.Redis.Address = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("[Config] ignoring invalid PORT %q", v)
		}
	}
}
