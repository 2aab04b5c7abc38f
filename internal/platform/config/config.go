package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Entry sequence backends.
const (
	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
)

// Event publisher kinds.
const (
	PublisherNone  = "none"
	PublisherKafka = "kafka"
	PublisherRedis = "redis"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	JWTSecret      string
	JWTIssuer      string
	JWTExpiry      time.Duration
	RateLimit      string // ulule/limiter formatted rate, e.g. "100-M"
	AllowedOrigins []string
	MigrationsPath string
	AutoMigrate    bool
	ReportCurrency string

	EntrySequenceBackend  string
	ConflictRetryAttempts int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventPublisher     string
	KafkaBrokers       []string
	KafkaTopic         string
	RedisEventsChannel string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "ledger-engine")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("AUTO_MIGRATE", false)
	viper.SetDefault("REPORT_CURRENCY", "USD")
	viper.SetDefault("ENTRY_SEQUENCE_BACKEND", SequenceBackendPostgres)
	viper.SetDefault("CONFLICT_RETRY_ATTEMPTS", 3)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("EVENT_PUBLISHER", PublisherNone)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "ledger-events")
	viper.SetDefault("REDIS_EVENTS_CHANNEL", "ledger-events")

	// Values from the environment override the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:           viper.GetString("PGSQL_URL"),
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:         viper.GetBool("ENABLE_DB_CHECK"),
		LogLevel:              strings.ToLower(viper.GetString("LOG_LEVEL")),
		JWTSecret:             viper.GetString("JWT_SECRET"),
		JWTIssuer:             viper.GetString("JWT_ISSUER"),
		RateLimit:             viper.GetString("RATE_LIMIT"),
		AllowedOrigins:        splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		MigrationsPath:        viper.GetString("MIGRATIONS_PATH"),
		AutoMigrate:           viper.GetBool("AUTO_MIGRATE"),
		ReportCurrency:        strings.ToUpper(viper.GetString("REPORT_CURRENCY")),
		EntrySequenceBackend:  strings.ToLower(viper.GetString("ENTRY_SEQUENCE_BACKEND")),
		ConflictRetryAttempts: viper.GetInt("CONFLICT_RETRY_ATTEMPTS"),
		RedisAddr:             viper.GetString("REDIS_ADDR"),
		RedisPassword:         viper.GetString("REDIS_PASSWORD"),
		RedisDB:               viper.GetInt("REDIS_DB"),
		EventPublisher:        strings.ToLower(viper.GetString("EVENT_PUBLISHER")),
		KafkaBrokers:          splitList(viper.GetString("KAFKA_BROKERS")),
		KafkaTopic:            viper.GetString("KAFKA_TOPIC"),
		RedisEventsChannel:    viper.GetString("REDIS_EVENTS_CHANNEL"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiry = jwtExpiry

	switch cfg.EntrySequenceBackend {
	case SequenceBackendPostgres, SequenceBackendRedis:
	default:
		log.Printf("Warning: Unknown ENTRY_SEQUENCE_BACKEND ('%s'). Defaulting to %s.\n", cfg.EntrySequenceBackend, SequenceBackendPostgres)
		cfg.EntrySequenceBackend = SequenceBackendPostgres
	}

	switch cfg.EventPublisher {
	case PublisherNone, PublisherKafka, PublisherRedis:
	default:
		log.Printf("Warning: Unknown EVENT_PUBLISHER ('%s'). Events will not be published.\n", cfg.EventPublisher)
		cfg.EventPublisher = PublisherNone
	}

	if cfg.ConflictRetryAttempts < 1 {
		log.Printf("Warning: CONFLICT_RETRY_ATTEMPTS must be at least 1 (got %d). Defaulting to 3.\n", cfg.ConflictRetryAttempts)
		cfg.ConflictRetryAttempts = 3
	}

	return cfg, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
