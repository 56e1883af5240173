package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowOrigins)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, DatasetFile, cfg.Dataset.Source)
	assert.Equal(t, 32636, cfg.Dataset.FallbackEPSG)
	assert.Equal(t, 50, cfg.View.ListLimit)
	assert.Equal(t, []string{"xlsx", "csv", "geojson", "json"}, cfg.Upload.AllowedTypes)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("API_PORT", 9090)
	v.Set("SESSION_STORE", "Redis")
	v.Set("SESSION_TTL", 60)
	v.Set("DATASET_SOURCE", "postgres")
	v.Set("UPLOAD_ALLOWED_TYPES", " CSV, geojson ,")
	v.Set("REDIS_HOST", "cache")
	v.Set("REDIS_PORT", 6380)

	cfg := fromViper(v)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, time.Minute, cfg.Session.TTL)
	assert.Equal(t, DatasetPostgres, cfg.Dataset.Source)
	assert.Equal(t, []string{"csv", "geojson"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "housing", SSLMode: "disable"}
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=housing sslmode=disable application_name=housing-dashboard",
		d.DSN(),
	)
}
