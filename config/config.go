package config

import (
	"os"
	"path/filepath"
)

// Server defaults
const DEFAULT_SERVER_PORT = 5001

// Redis defaults
const DEFAULT_REDIS_DB_ADDRESS = "redis:6379"
const DEFAULT_REDIS_DB = 0
const DEFAULT_INTEREST_HISTORY_LIMIT = 50

// OpenAI defaults
const DEFAULT_OPENAI_ENDPOINT_BASE = "https://api.openai.com/v1"
const DEFAULT_OPENAI_MODEL = "gpt-3.5-turbo"
const DEFAULT_OPENAI_MAX_TOKENS = 1200
const DEFAULT_OPENAI_TEMPERATURE = 0.7
const DEFAULT_OPENAI_TIMEOUT_SECONDS = 30
const DEFAULT_OPENAI_REQUESTS_PER_MINUTE = 60

// Reference data refresher config
const DEFAULT_REFERENCE_REFRESH_MINUTES = 30

// Course data validity window
const DEFAULT_COURSE_DATA_YEAR = 2026
const DEFAULT_COURSE_DATA_MONTH = 2
const DEFAULT_COURSE_CONTEXT_MAX_ROWS = 120
const DEFAULT_INTERNAL_CATEGORY_PREFIX = "D_"
const DEFAULT_INTERNAL_VENUE_PREFIX = "E_"

// Reply shaping
const DEFAULT_REPLY_MAX_CHARS = 4500
const DEFAULT_NEARBY_TOP_N = 6
const DEFAULT_UTC_OFFSET_HOURS = 8
const DEFAULT_OFFICIAL_SITE_URL = "https://www.zoo.gov.taipei"
const DEFAULT_TICKET_INFO_URL = "https://www.zoo.gov.taipei/cp.aspx?n=763493FD7ECCAA11&s=F3BC09EC36168CB6"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const TICKETS_RESOURCE = "visitor_tickets.csv"
const HOURS_RESOURCE = "visitor_hours.csv"
const CLOSURES_RESOURCE = "venue_closures.csv"
const VENUES_RESOURCE = "zoo_areas.csv"
const COURSES_RESOURCE = "courses-February.csv"
const VISITOR_INFO_RESOURCE = "visitor_info.txt"
const ENV_EDU_NOTES_RESOURCE = "env_edu_notes.txt"

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
