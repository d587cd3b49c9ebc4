package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultStylesheet = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css"
	defaultPlotly     = "https://cdn.plot.ly/plotly-2.35.2.min.js"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ReviewsPath      string
	ReviewsSource    string
	ReviewsDelimiter rune
	ReviewsSheet     string
	ReviewsTable     string
	TopicsPath       string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	FocusSize               int
	MinTopicMentions        int
	DropUnassignedTopicRows bool

	Port           string
	AllowedOrigins []string
	StylesheetURL  string
	PlotlyURL      string

	ChromeBin    string
	SnapshotPath string
	MaxRetries   int

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ReviewsPath:      getEnv("REVIEWS_PATH", "reviews.csv"),
		ReviewsSource:    strings.ToLower(getEnv("REVIEWS_SOURCE", "")),
		ReviewsDelimiter: getEnvRune("REVIEWS_DELIMITER", ','),
		ReviewsSheet:     getEnv("REVIEWS_SHEET", ""),
		ReviewsTable:     getEnv("REVIEWS_TABLE", "reviews"),
		TopicsPath:       getEnv("TOPICS_PATH", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard"),
		PostgresDB:       getEnv("POSTGRES_DB", "reviews_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		FocusSize:               getEnvInt("FOCUS_SIZE", 12),
		MinTopicMentions:        getEnvInt("MIN_TOPIC_MENTIONS", 40),
		DropUnassignedTopicRows: getEnvBool("DROP_UNASSIGNED_TOPIC_ROWS", false),

		Port:           getEnv("PORT", "8050"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		StylesheetURL:  getEnv("STYLESHEET_URL", defaultStylesheet),
		PlotlyURL:      getEnv("PLOTLY_URL", defaultPlotly),

		ChromeBin:    getEnv("CHROME_BIN", ""),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./output/dashboard.png"),
		MaxRetries:   getEnvInt("MAX_RETRIES", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// SourceKind resolves which loader reads the reviews: an explicit
// REVIEWS_SOURCE wins, otherwise the file extension decides.
func (c *Config) SourceKind() string {
	if c.ReviewsSource != "" {
		return c.ReviewsSource
	}
	if strings.HasSuffix(strings.ToLower(c.ReviewsPath), ".xlsx") {
		return "xlsx"
	}
	return "csv"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvRune(key string, fallback rune) rune {
	val := os.Getenv(key)
	if val == `\t` {
		return '\t'
	}
	if r := []rune(val); len(r) == 1 {
		return r[0]
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
