package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// WeekdayWindowPolicy decides whether a weekday mentioned without a concrete
// date is refused while the current date lies outside the course data month.
type WeekdayWindowPolicy string

const (
	// WeekdayWindowNow refuses pure weekday queries when now is outside the window.
	WeekdayWindowNow WeekdayWindowPolicy = "now"
	// WeekdayWindowIgnore always answers pure weekday queries from the loaded data.
	WeekdayWindowIgnore WeekdayWindowPolicy = "ignore"
)

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// LineConfig contains LINE messaging channel credentials
type LineConfig struct {
	ChannelSecret string `yaml:"channelSecret"`
	ChannelToken  string `yaml:"channelToken"`
}

// OpenAIConfig contains the generative completion service configuration
type OpenAIConfig struct {
	APIKey            string  `yaml:"apiKey"`
	BaseURL           string  `yaml:"baseURL" validate:"required,url"`
	Model             string  `yaml:"model" validate:"required"`
	MaxTokens         int     `yaml:"maxTokens" validate:"gt=0"`
	Temperature       float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds" validate:"gt=0"`
	RequestsPerMinute int     `yaml:"requestsPerMinute" validate:"gte=0"`
}

// RedisConfig contains the geo cache / interest log configuration
type RedisConfig struct {
	Enabled              bool   `yaml:"enabled"`
	Address              string `yaml:"address" validate:"required_if=Enabled true"`
	Password             string `yaml:"password"`
	DB                   int    `yaml:"db" validate:"gte=0"`
	InterestHistoryLimit int    `yaml:"interestHistoryLimit" validate:"gte=0"`
}

// DataConfig locates the reference data files
type DataConfig struct {
	Root           string `yaml:"root"`
	TicketsCSV     string `yaml:"ticketsCSV" validate:"required"`
	HoursCSV       string `yaml:"hoursCSV" validate:"required"`
	ClosuresCSV    string `yaml:"closuresCSV" validate:"required"`
	VenuesCSV      string `yaml:"venuesCSV" validate:"required"`
	CoursesCSV     string `yaml:"coursesCSV" validate:"required"`
	VisitorInfoTXT string `yaml:"visitorInfoTXT" validate:"required"`
	EnvEduNotesTXT string `yaml:"envEduNotesTXT" validate:"required"`
	RefreshMinutes int    `yaml:"refreshMinutes" validate:"gte=0"`
}

// Path resolves a data file name against Root.
func (d DataConfig) Path(name string) string {
	if filepath.IsAbs(name) || d.Root == "" {
		return name
	}
	return filepath.Join(d.Root, name)
}

// CoursesConfig describes the validity window of the loaded course table
type CoursesConfig struct {
	ValidYear              int                 `yaml:"validYear" validate:"gte=2000"`
	ValidMonth             int                 `yaml:"validMonth" validate:"gte=1,lte=12"`
	WeekdayWindowPolicy    WeekdayWindowPolicy `yaml:"weekdayWindowPolicy" validate:"oneof=now ignore"`
	InternalCategoryPrefix string              `yaml:"internalCategoryPrefix"`
	InternalVenuePrefix    string              `yaml:"internalVenuePrefix"`
	ContextMaxRows         int                 `yaml:"contextMaxRows" validate:"gt=0"`
}

// ReplyConfig shapes outgoing replies
type ReplyConfig struct {
	MaxChars        int    `yaml:"maxChars" validate:"gt=100"`
	NearbyTopN      int    `yaml:"nearbyTopN" validate:"gt=0"`
	UTCOffsetHours  int    `yaml:"utcOffsetHours" validate:"gte=-12,lte=14"`
	OfficialSiteURL string `yaml:"officialSiteURL" validate:"required,url"`
	TicketInfoURL   string `yaml:"ticketInfoURL" validate:"required,url"`
}

// Location returns the fixed-offset zone all weekday computations use.
func (r ReplyConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", r.UTCOffsetHours), r.UTCOffsetHours*3600)
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Environment string        `yaml:"environment" validate:"oneof=dev prod"`
	Server      ServerConfig  `yaml:"server"`
	Line        LineConfig    `yaml:"line"`
	OpenAI      OpenAIConfig  `yaml:"openai"`
	Redis       RedisConfig   `yaml:"redis"`
	Data        DataConfig    `yaml:"data"`
	Courses     CoursesConfig `yaml:"courses"`
	Reply       ReplyConfig   `yaml:"reply"`
}
