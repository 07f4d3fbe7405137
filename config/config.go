package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultRFPEndpoint is the listing endpoint of the RFP sourcing API.
const DefaultRFPEndpoint = "https://construction-projects-sourcer-api.onrender.com/api/rfps/"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListenAddr  string
	RFPEndpoint string
	DataSource  string
	HTTPTimeout time.Duration
	SubmitDelay time.Duration
	Locale      string
	LogLevel    string

	SessionBackend string
	SessionTTL     time.Duration
	SessionCookie  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	ConnectRetries int

	CSVOutputPath string
	SnapshotPath  string
	ChromeBin     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		RFPEndpoint: getEnv("RFP_ENDPOINT", DefaultRFPEndpoint),
		DataSource:  getEnv("DATA_SOURCE", "live"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		SubmitDelay: getEnvDuration("SUBMIT_DELAY", time.Second),
		Locale:      getEnv("LOCALE", "en-US"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionCookie:  getEnv("SESSION_COOKIE", "sitescope_session"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "sitescope"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "sitescope"),
		PostgresDB:       getEnv("POSTGRES_DB", "sitescope"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ConnectRetries: getEnvInt("CONNECT_RETRIES", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/projects.csv"),
		SnapshotPath:  getEnv("SNAPSHOT_PATH", "./output/results.png"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
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

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("1s", "250ms") or a bare
// integer number of milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
