package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CONNECT_RETRIES", "")

	cfg := FromEnv()
	assert.Equal(t, SourceCSV, cfg.DataSource)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.ConnectRetries)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_SOURCE", SourcePostgres)
	t.Setenv("DATA_PATH", "/tmp/reviews.csv")
	t.Setenv("CONNECT_RETRIES", "9")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := FromEnv()
	assert.Equal(t, SourcePostgres, cfg.DataSource)
	assert.Equal(t, "/tmp/reviews.csv", cfg.DataPath)
	assert.Equal(t, 9, cfg.ConnectRetries)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("CONNECT_RETRIES", "many")
	assert.Equal(t, 5, FromEnv().ConnectRetries)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "reviews",
		PostgresSSLMode:  "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=reviews sslmode=require", cfg.DSN())
}
