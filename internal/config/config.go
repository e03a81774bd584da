package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pipeline"
	"github.com/rail-fusion/internal/pkg/validator"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Pipeline PipelineConfig
	Fetch    FetchConfig
	Notify   NotifyConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Host string
	Port int `validate:"gt=0,lte=65535"`
	Env  string
}

type DatabaseConfig struct {
	// Enabled включает сохранение результатов в PostGIS
	Enabled         bool
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

type CacheConfig struct {
	QueryTTL time.Duration `validate:"gt=0"`
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string `validate:"required"`
	ConsumerName      string
	StreamReadTimeout time.Duration
	MaxRetries        int `validate:"gte=0"`
}

type PipelineConfig struct {
	RawDir      string            `validate:"required"`
	OutputDir   string            `validate:"required"`
	SourcesFile string
	NullPolicy  domain.NullPolicy `validate:"oneof=drop-na fill-na"`
	YearFrom    int               `validate:"gte=1900"`
	YearTo      int               `validate:"gtefield=YearFrom"`
	Tolerance   float64           `validate:"gt=0"`
	Concurrent  bool
	// WriteIntermediate сохраняет промежуточные таблицы рядом с итоговыми
	WriteIntermediate bool
}

type FetchConfig struct {
	Timeout time.Duration `validate:"gt=0"`
	Pause   time.Duration `validate:"gte=0"`
}

type NotifyConfig struct {
	Backend     string `validate:"oneof=none redis nats"`
	NATSURL     string
	NATSSubject string
}

type MetricsConfig struct {
	PushgatewayURL string `validate:"omitempty,url"`
	JobName        string
}

// Load reads .env from the working directory when present, then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads configuration from envFile (optional) and the environment.
func LoadFile(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
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
		Cache: CacheConfig{
			QueryTTL: time.Duration(v.GetInt("CACHE_QUERY_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:      v.GetString("WORKER_CONSUMER_NAME"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
		Pipeline: PipelineConfig{
			RawDir:            v.GetString("PIPELINE_RAW_DIR"),
			OutputDir:         v.GetString("PIPELINE_OUTPUT_DIR"),
			SourcesFile:       v.GetString("PIPELINE_SOURCES_FILE"),
			NullPolicy:        domain.NullPolicy(v.GetString("PIPELINE_NULL_POLICY")),
			YearFrom:          v.GetInt("PIPELINE_YEAR_FROM"),
			YearTo:            v.GetInt("PIPELINE_YEAR_TO"),
			Tolerance:         v.GetFloat64("PIPELINE_TOLERANCE"),
			Concurrent:        v.GetBool("PIPELINE_CONCURRENT"),
			WriteIntermediate: v.GetBool("PIPELINE_WRITE_INTERMEDIATE"),
		},
		Fetch: FetchConfig{
			Timeout: time.Duration(v.GetInt("FETCH_TIMEOUT")) * time.Second,
			Pause:   time.Duration(v.GetInt("FETCH_PAUSE")) * time.Millisecond,
		},
		Notify: NotifyConfig{
			Backend:     strings.ToLower(v.GetString("NOTIFY_BACKEND")),
			NATSURL:     v.GetString("NATS_URL"),
			NATSSubject: v.GetString("NATS_SUBJECT"),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: v.GetString("METRICS_PUSHGATEWAY_URL"),
			JobName:        v.GetString("METRICS_JOB_NAME"),
		},
	}

	if cfg.Worker.ConsumerName == "" {
		host, _ := os.Hostname()
		cfg.Worker.ConsumerName = fmt.Sprintf("fusion-worker-%s-%d", host, os.Getpid())
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "rail_fusion")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 3600)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 600)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_QUERY_TTL", 3600)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_CONSUMER_GROUP", "fusion-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	v.SetDefault("WORKER_MAX_RETRIES", 3)

	v.SetDefault("PIPELINE_RAW_DIR", "data/raw")
	v.SetDefault("PIPELINE_OUTPUT_DIR", "data/processed")
	v.SetDefault("PIPELINE_SOURCES_FILE", "configs/sources.yaml")
	v.SetDefault("PIPELINE_NULL_POLICY", string(domain.NullPolicyDrop))
	v.SetDefault("PIPELINE_YEAR_FROM", domain.DefaultYears.From)
	v.SetDefault("PIPELINE_YEAR_TO", domain.DefaultYears.To)
	v.SetDefault("PIPELINE_TOLERANCE", pipeline.DefaultTolerance)
	v.SetDefault("PIPELINE_WRITE_INTERMEDIATE", true)

	v.SetDefault("FETCH_TIMEOUT", 10)
	v.SetDefault("FETCH_PAUSE", 100)

	v.SetDefault("NOTIFY_BACKEND", "redis")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT", "railfusion.done")

	v.SetDefault("METRICS_JOB_NAME", "rail_fusion")
}

// Options собирает параметры пайплайна из конфигурации и манифеста колонок
func (c PipelineConfig) Options(columns pipeline.Columns) pipeline.Options {
	return pipeline.Options{
		NullPolicy: c.NullPolicy,
		Years:      domain.YearRange{From: c.YearFrom, To: c.YearTo},
		Tolerance:  c.Tolerance,
		Concurrent: c.Concurrent,
		Columns:    columns,
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
