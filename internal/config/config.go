package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Dataset  DatasetConfig
	Upload   UploadConfig
	View     ViewConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SessionConfig struct {
	Store         string // memory | redis
	TTL           time.Duration
	SweepInterval time.Duration
}

type DatasetConfig struct {
	Source       string // none | file | postgres
	Path         string
	Table        string
	FallbackEPSG int
}

type UploadConfig struct {
	MaxBytes     int
	RatePerMin   int
	AllowedTypes []string
}

type ViewConfig struct {
	ListLimit       int
	ClickToleranceM float64
}

type LogConfig struct {
	Level string
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	DatasetNone     = "none"
	DatasetFile     = "file"
	DatasetPostgres = "postgres"
)

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return fromViper(viper.GetViper()), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			AllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Store:         strings.ToLower(v.GetString("SESSION_STORE")),
			TTL:           time.Duration(v.GetInt("SESSION_TTL")) * time.Second,
			SweepInterval: time.Duration(v.GetInt("SESSION_SWEEP_INTERVAL")) * time.Second,
		},
		Dataset: DatasetConfig{
			Source:       strings.ToLower(v.GetString("DATASET_SOURCE")),
			Path:         v.GetString("DATASET_PATH"),
			Table:        v.GetString("DATASET_TABLE"),
			FallbackEPSG: v.GetInt("INGEST_FALLBACK_EPSG"),
		},
		Upload: UploadConfig{
			MaxBytes:     v.GetInt("UPLOAD_MAX_BYTES"),
			RatePerMin:   v.GetInt("UPLOAD_RATE_PER_MIN"),
			AllowedTypes: parseList(v.GetString("UPLOAD_ALLOWED_TYPES")),
		},
		View: ViewConfig{
			ListLimit:       v.GetInt("LIST_LIMIT"),
			ClickToleranceM: v.GetFloat64("CLICK_TOLERANCE_M"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	cfg.applyDefaults()
	return cfg
}

// applyDefaults - значения по умолчанию для незаданных параметров
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.AllowOrigins == "" {
		c.Server.AllowOrigins = "*"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Session.Store == "" {
		c.Session.Store = StoreMemory
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 2 * time.Hour
	}
	if c.Session.SweepInterval == 0 {
		c.Session.SweepInterval = time.Minute
	}
	if c.Dataset.Source == "" {
		c.Dataset.Source = DatasetFile
	}
	if c.Dataset.Path == "" {
		c.Dataset.Path = "data/sample/default.json"
	}
	if c.Dataset.Table == "" {
		c.Dataset.Table = "housing_projects"
	}
	if c.Dataset.FallbackEPSG == 0 {
		// UTM 36N - проекция, в которой ведутся исходные анкеты
		c.Dataset.FallbackEPSG = 32636
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = 50 << 20
	}
	if c.Upload.RatePerMin == 0 {
		c.Upload.RatePerMin = 10
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{"xlsx", "csv", "geojson", "json"}
	}
	if c.View.ListLimit == 0 {
		c.View.ListLimit = 50
	}
	if c.View.ClickToleranceM == 0 {
		c.View.ClickToleranceM = 25
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения для драйвера pgx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=housing-dashboard",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
