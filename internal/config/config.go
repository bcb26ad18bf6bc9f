package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"gifty/pkg/region"
)

const EnvPrefix = "GIFTY"

const (
	SlotBackendMemory   = "memory"
	SlotBackendRedis    = "redis"
	SlotBackendPostgres = "postgres"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	Slots   SlotsConfig
	DB      DBConfig
	Redis   RedisConfig
	LLM     LLMConfig
	Voice   VoiceConfig
	Search  SearchConfig
	Maps    MapsConfig
	Mail    MailConfig
	Presets PresetsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := region.Parse(c.App.DefaultRegion); err != nil {
		return fmt.Errorf("GIFTY_DEFAULT_REGION: %w", err)
	}
	switch c.Slots.Backend {
	case SlotBackendMemory:
	case SlotBackendRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("slot backend redis needs GIFTY_REDIS_URL or GIFTY_REDIS_ADDR")
		}
	case SlotBackendPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("slot backend postgres needs GIFTY_DB_DSN")
		}
	default:
		return fmt.Errorf("unknown slot backend %q", c.Slots.Backend)
	}
	return nil
}

type AppConfig struct {
	Env           string   `envconfig:"GIFTY_APP_ENV" default:"dev"`
	Port          string   `envconfig:"GIFTY_APP_PORT" default:"8080"`
	LogLevel      string   `envconfig:"GIFTY_LOG_LEVEL" default:"info"`
	LogFormat     string   `envconfig:"GIFTY_LOG_FORMAT" default:"json"`
	LogWarnStack  bool     `envconfig:"GIFTY_LOG_WARN_STACK" default:"false"`
	DefaultRegion string   `envconfig:"GIFTY_DEFAULT_REGION" default:"IN"`
	CORSOrigins   []string `envconfig:"GIFTY_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) Region() region.Region {
	r, err := region.Parse(a.DefaultRegion)
	if err != nil {
		return region.Default
	}
	return r
}

type SessionConfig struct {
	Secret string        `envconfig:"GIFTY_SESSION_SECRET" default:"change-me"`
	Issuer string        `envconfig:"GIFTY_SESSION_ISSUER" default:"gifty"`
	TTL    time.Duration `envconfig:"GIFTY_SESSION_TTL" default:"720h"`
}

type SlotsConfig struct {
	Backend string        `envconfig:"GIFTY_SLOT_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"GIFTY_SLOT_TTL" default:"720h"`
}

type DBConfig struct {
	DSN             string        `envconfig:"GIFTY_DB_DSN"`
	SQLitePath      string        `envconfig:"GIFTY_DB_SQLITE_PATH" default:"gifty.db"`
	AutoMigrate     bool          `envconfig:"GIFTY_DB_AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"GIFTY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIFTY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIFTY_DB_CONN_MAX_LIFETIME" default:"1h"`
}

// Postgres reports whether a postgres DSN is configured. Without one the service keeps its
// tables in a local sqlite file.
func (db DBConfig) Postgres() bool {
	return db.DSN != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"GIFTY_REDIS_URL"`
	Address      string        `envconfig:"GIFTY_REDIS_ADDR"`
	Password     string        `envconfig:"GIFTY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIFTY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIFTY_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"GIFTY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIFTY_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"GIFTY_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type LLMConfig struct {
	Provider  string        `envconfig:"GIFTY_LLM_PROVIDER" default:"openai"`
	Model     string        `envconfig:"GIFTY_LLM_MODEL"`
	APIKey    string        `envconfig:"GIFTY_LLM_API_KEY"`
	BaseURL   string        `envconfig:"GIFTY_LLM_BASE_URL"`
	MaxTokens int           `envconfig:"GIFTY_LLM_MAX_TOKENS" default:"1000"`
	CacheTTL  time.Duration `envconfig:"GIFTY_LLM_CACHE_TTL" default:"1h"`
}

type VoiceConfig struct {
	APIKey          string `envconfig:"GIFTY_OPENAI_API_KEY"`
	TranscribeModel string `envconfig:"GIFTY_VOICE_TRANSCRIBE_MODEL" default:"whisper-1"`
	SpeechModel     string `envconfig:"GIFTY_VOICE_SPEECH_MODEL" default:"tts-1"`
	SpeechVoice     string `envconfig:"GIFTY_VOICE_SPEECH_VOICE" default:"nova"`
	Language        string `envconfig:"GIFTY_VOICE_LANGUAGE" default:"en"`
}

type SearchConfig struct {
	APIKey   string        `envconfig:"GIFTY_SEARCH_API_KEY"`
	EngineID string        `envconfig:"GIFTY_SEARCH_ENGINE_ID"`
	CacheTTL time.Duration `envconfig:"GIFTY_SEARCH_CACHE_TTL" default:"24h"`
}

type MapsConfig struct {
	APIKey         string        `envconfig:"GIFTY_GOOGLE_MAPS_API_KEY"`
	RadiusMeters   float64       `envconfig:"GIFTY_MAPS_RADIUS_METERS" default:"5000"`
	StoreTypes     []string      `envconfig:"GIFTY_MAPS_STORE_TYPES" default:"shopping_mall,store,department_store,electronics_store,home_goods_store"`
	GeocodeTTL     time.Duration `envconfig:"GIFTY_MAPS_GEOCODE_TTL" default:"168h"`
	RequestTimeout time.Duration `envconfig:"GIFTY_MAPS_TIMEOUT" default:"10s"`
}

type MailConfig struct {
	Host     string `envconfig:"GIFTY_SMTP_HOST"`
	Port     int    `envconfig:"GIFTY_SMTP_PORT" default:"587"`
	Username string `envconfig:"GIFTY_SMTP_USERNAME"`
	Password string `envconfig:"GIFTY_SMTP_PASSWORD"`
	From     string `envconfig:"GIFTY_SMTP_FROM" default:"gifty@localhost"`
	FromName string `envconfig:"GIFTY_SMTP_FROM_NAME" default:"Gifty"`
	AppURL   string `envconfig:"GIFTY_APP_URL" default:"http://localhost:5173"`
}

func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type PresetsConfig struct {
	Path string `envconfig:"GIFTY_PRESETS_PATH"`
}
