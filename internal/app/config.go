package app

import (
	"fmt"

	server "github.com/admin/zodira/astro-api/internal/adapters/primary/http"
	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	astroApi "github.com/admin/zodira/astro-api/internal/adapters/secondary/astroApi"
	kafkaAdapter "github.com/admin/zodira/astro-api/internal/adapters/secondary/kafka"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/disk"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/redis"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/s3"
	"github.com/admin/zodira/astro-api/internal/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// имена Kafka-подключений в ZODIRA_KAFKA_<i>_NAME
const (
	kafkaPredictionRequests  = "prediction_requests"
	kafkaPredictionResponses = "prediction_responses"
)

type Config struct {
	Postgres *pg.Config                `envconfig:"POSTGRES"`
	Log      *logger.Config            `envconfig:"LOG"`
	Server   *server.Config            `envconfig:"APISERVER"`
	Auth     *middlewares.AuthConfig   `envconfig:"AUTH"`
	AstroAPI *astroApi.Config          `envconfig:"ASTRO_API"`
	Cache    *CacheConfig              `envconfig:"CACHE"`
	Disk     *disk.Config              `envconfig:"DISK"`
	Redis    *redisAdapter.Config      `envconfig:"REDIS"`
	S3       *s3.Config                `envconfig:"S3"`
	Kafka    kafkaAdapter.KafkaConfigs `envconfig:"KAFKA"`
	Jobs     *JobsConfig               `envconfig:"JOBS"`
}

// CacheConfig хранилище ответов провайдера: disk, redis, s3 или memory
type CacheConfig struct {
	Backend string `envconfig:"BACKEND" default:"disk"`
}

type JobsConfig struct {
	Enabled bool `envconfig:"ENABLED" default:"true"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	// envconfig не умеет определять размер слайса, подключения Kafka читаются по индексам
	if err := cfg.Kafka.Load(envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load kafka config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "disk", "redis", "s3", "memory":
	default:
		return fmt.Errorf("invalid cache backend %q", c.Cache.Backend)
	}
	if c.AstroAPI.ApiKey == "" {
		return fmt.Errorf("astro api key is required")
	}
	return nil
}
