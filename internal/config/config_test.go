package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rail-fusion/internal/config"
	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pipeline"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, domain.NullPolicyDrop, cfg.Pipeline.NullPolicy)
	assert.Equal(t, domain.DefaultYears.From, cfg.Pipeline.YearFrom)
	assert.Equal(t, domain.DefaultYears.To, cfg.Pipeline.YearTo)
	assert.Equal(t, pipeline.DefaultTolerance, cfg.Pipeline.Tolerance)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Fetch.Pause)
	assert.Equal(t, time.Hour, cfg.Cache.QueryTTL)
	assert.Equal(t, "redis", cfg.Notify.Backend)
	assert.NotEmpty(t, cfg.Worker.ConsumerName)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadFile_EnvFileAndOverrides(t *testing.T) {
	// Arrange
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "API_PORT=9090\nPIPELINE_NULL_POLICY=fill-na\nPIPELINE_YEAR_FROM=2019\nPIPELINE_YEAR_TO=2020\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))
	t.Setenv("PIPELINE_CONCURRENT", "true")

	// Act
	cfg, err := config.LoadFile(envFile)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, domain.NullPolicyFill, cfg.Pipeline.NullPolicy)
	assert.True(t, cfg.Pipeline.Concurrent)

	opts := cfg.Pipeline.Options(pipeline.DefaultColumns())
	assert.Equal(t, domain.YearRange{From: 2019, To: 2020}, opts.Years)
	assert.NoError(t, opts.Validate())
}

func TestLoadFile_InvalidNullPolicy(t *testing.T) {
	t.Setenv("PIPELINE_NULL_POLICY", "keep-na")

	_, err := config.LoadFile("")

	assert.Error(t, err)
}

func TestLoadFile_InvalidYearRange(t *testing.T) {
	t.Setenv("PIPELINE_YEAR_FROM", "2023")
	t.Setenv("PIPELINE_YEAR_TO", "2015")

	_, err := config.LoadFile("")

	assert.Error(t, err)
}

func TestConfig_Addresses(t *testing.T) {
	cfg := &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Redis:    config.RedisConfig{Host: "redis", Port: 6379},
		Database: config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "rail", SSLMode: "disable"},
	}

	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddr())
	assert.Equal(t, "redis:6379", cfg.GetRedisAddr())
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=rail sslmode=disable", cfg.GetDatabaseDSN())
}
