package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	DefaultLang string

	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityUseCDN     bool
	SanityToken      string
	SanityBaseURL    string
	SanityRPS        int
	FetchTimeout     time.Duration
	FetchWorkers     int

	FormsEndpoint  string
	FormsAccessKey string

	RedisAddr    string
	RedisPass    string
	RedisDB      int
	SubmitLimit  int
	SubmitWindow time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		DefaultLang: env("DEFAULT_LANG", "pt"),

		SanityProjectID:  env("SANITY_PROJECT_ID", "55mw0v3t"),
		SanityDataset:    env("SANITY_DATASET", "production"),
		SanityAPIVersion: env("SANITY_API_VERSION", "2024-01-01"),
		SanityUseCDN:     boolean("SANITY_USE_CDN", false),
		SanityToken:      env("SANITY_TOKEN", ""),
		SanityBaseURL:    env("SANITY_BASE_URL", ""),
		SanityRPS:        atoi("SANITY_RPS", 10),
		FetchTimeout:     time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		FetchWorkers:     atoi("FETCH_WORKERS", 5),

		FormsEndpoint:  env("FORMS_ENDPOINT", "https://api.web3forms.com/submit"),
		FormsAccessKey: env("FORMS_ACCESS_KEY", ""),

		RedisAddr:    env("REDIS_ADDR", ""),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		SubmitLimit:  atoi("SUBMIT_LIMIT", 5),
		SubmitWindow: time.Duration(atoi("SUBMIT_WINDOW_SECONDS", 600)) * time.Second,
	}
	if c.FormsAccessKey == "" {
		log.Warn().Msg("FORMS_ACCESS_KEY is empty; form submissions will fail")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolean(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-boolean setting")
		return def
	}
	return b
}
