package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvLLMKey    = "GROQ_API_KEY"
	EnvSearchKey = "SERPER_API_KEY"

	DefaultLLMBaseURL     = "https://api.groq.com/openai/v1"
	DefaultLLMModel       = "llama-3.3-70b-versatile"
	DefaultLLMTemperature = 0.7
	DefaultSearchURL      = "https://google.serper.dev/search"
	DefaultMigrationsPath = "file://migrations"
	DefaultPort           = "8080"
)

var ErrMissingCredentials = errors.New("missing required credentials")

// MissingCredentialsError names every required variable that was unset.
type MissingCredentialsError struct {
	Keys []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("%s: please set %s in your environment or .env file",
		ErrMissingCredentials, strings.Join(e.Keys, " and "))
}

func (e *MissingCredentialsError) Unwrap() error { return ErrMissingCredentials }

type Config struct {
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float64

	SearchAPIKey string
	SearchURL    string

	DatabaseURL    string
	MigrationsPath string

	TelegramToken string
	DoctorChatID  int64

	Port     string
	FontPath string
}

// LoadDotEnv preloads .env.local and .env from the working directory. Values
// already present in the environment win.
func LoadDotEnv() {
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Printf("config: failed to load %s: %v", p, err)
			continue
		}
		log.Printf("config: loaded env from %s", p)
	}
}

// Load reads the configuration from the environment. Both service keys are
// required; nothing else is.
func Load() (Config, error) {
	cfg := Config{
		LLMAPIKey:      strings.TrimSpace(os.Getenv(EnvLLMKey)),
		LLMBaseURL:     getenv("LLM_BASE_URL", DefaultLLMBaseURL),
		LLMModel:       getenv("LLM_MODEL", DefaultLLMModel),
		LLMTemperature: DefaultLLMTemperature,
		SearchAPIKey:   strings.TrimSpace(os.Getenv(EnvSearchKey)),
		SearchURL:      getenv("SERPER_URL", DefaultSearchURL),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MigrationsPath: getenv("MIGRATIONS_PATH", DefaultMigrationsPath),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		Port:           getenv("PORT", DefaultPort),
		FontPath:       strings.TrimSpace(os.Getenv("REPORT_FONT_PATH")),
	}

	var missing []string
	if cfg.LLMAPIKey == "" {
		missing = append(missing, EnvLLMKey)
	}
	if cfg.SearchAPIKey == "" {
		missing = append(missing, EnvSearchKey)
	}
	if len(missing) > 0 {
		return Config{}, &MissingCredentialsError{Keys: missing}
	}

	if v := strings.TrimSpace(os.Getenv("LLM_TEMPERATURE")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TEMPERATURE %q: %w", v, err)
		}
		cfg.LLMTemperature = t
	}

	if v := strings.TrimSpace(os.Getenv("DOCTOR_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("Warning: DOCTOR_CHAT_ID %q is invalid, reports will not be forwarded", v)
		} else {
			cfg.DoctorChatID = id
		}
	}

	return cfg, nil
}

// TelegramEnabled reports whether finished reports should be forwarded.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.DoctorChatID != 0
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
