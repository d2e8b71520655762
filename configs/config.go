package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort         = "8000"
	DefaultStoreDriver  = "postgres"
	DefaultStoreTimeout = 10 * time.Second
	DefaultAMQPExchange = "college_crp"
)

var loadEnv sync.Once

// Config returns the value of key, reading .env into the environment on first use.
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})
	return os.Getenv(key)
}

type Settings struct {
	Port         string
	StoreDriver  string
	DatabaseURL  string
	MongoURL     string
	DBName       string
	StoreTimeout time.Duration
	CORSOrigins  string

	OverdueSweepSchedule string
	ReconcileSchedule    string

	AMQPURL      string
	AMQPExchange string

	BrevoAPIKey     string
	EmailSender     string
	EmailSenderName string

	CloudinaryURL string
}

func Load() (Settings, error) {
	return load(Config)
}

func load(get func(string) string) (Settings, error) {
	s := Settings{
		Port:                 withDefault(get("PORT"), DefaultPort),
		StoreDriver:          strings.ToLower(withDefault(get("STORE_DRIVER"), DefaultStoreDriver)),
		DatabaseURL:          get("DATABASE_URL"),
		MongoURL:             get("MONGO_URL"),
		DBName:               get("DB_NAME"),
		StoreTimeout:         DefaultStoreTimeout,
		CORSOrigins:          withDefault(get("CORS_ORIGINS"), "*"),
		OverdueSweepSchedule: strings.TrimSpace(get("OVERDUE_SWEEP_SCHEDULE")),
		ReconcileSchedule:    strings.TrimSpace(get("RECONCILE_SCHEDULE")),
		AMQPURL:              get("AMQP_URL"),
		AMQPExchange:         withDefault(get("AMQP_EXCHANGE"), DefaultAMQPExchange),
		BrevoAPIKey:          get("BREVO_API_KEY"),
		EmailSender:          get("EMAIL_SENDER"),
		EmailSenderName:      withDefault(get("EMAIL_SENDER_NAME"), "College Accounts Office"),
		CloudinaryURL:        get("CLOUDINARY_URL"),
	}

	if raw := get("STORE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return s, fmt.Errorf("STORE_TIMEOUT: %w", err)
		}
		s.StoreTimeout = d
	}

	return s, s.Validate()
}

// Validate reports every invalid setting at once.
func (s Settings) Validate() error {
	var errs []error

	if n, err := strconv.Atoi(s.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid TCP port, got %q", s.Port))
	}
	if s.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}

	switch s.StoreDriver {
	case "postgres", "sqlite":
		if s.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for store driver %s", s.StoreDriver))
		}
	case "mongo":
		if s.MongoURL == "" {
			errs = append(errs, errors.New("MONGO_URL is required for store driver mongo"))
		}
		if s.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is required for store driver mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of postgres, sqlite, mongo, got %q", s.StoreDriver))
	}

	if s.BrevoAPIKey != "" && s.EmailSender == "" {
		errs = append(errs, errors.New("EMAIL_SENDER is required when BREVO_API_KEY is set"))
	}

	return errors.Join(errs...)
}

// AllowOrigins formats CORS_ORIGINS for the fiber cors middleware.
func (s Settings) AllowOrigins() string {
	parts := strings.Split(s.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

func (s Settings) MailEnabled() bool {
	return s.BrevoAPIKey != "" && s.EmailSender != ""
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
