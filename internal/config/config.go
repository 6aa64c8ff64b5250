package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Worker   WorkerConfig   `yaml:"worker"`
	Retry    RetryConfig    `yaml:"retry"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Carousel CarouselConfig `yaml:"carousel"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"dealers"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"dealer-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
	PublicURL string `yaml:"public_url" env:"MINIO_PUBLIC_URL"`
	// Disabled simulates a storage tier without object uploads; every upload takes the inline path.
	Disabled bool `yaml:"disabled" env:"MINIO_DISABLED" env-default:"false"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	ImageTopic string   `yaml:"image_topic" env:"KAFKA_IMAGE_TOPIC" env-default:"dealer-image-tasks"`
	GroupID    string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"dealer-image-workers"`
}

type WorkerConfig struct {
	Concurrency  int `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"4"`
	TaskAttempts int `yaml:"task_attempts" env:"WORKER_TASK_ATTEMPTS" env-default:"3"`
}

// RetryConfig defaults to a single attempt: remote calls are one-shot.
type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"1"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"200ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

type PipelineConfig struct {
	InlineCeilingBytes int64 `yaml:"inline_ceiling_bytes" env:"PIPELINE_INLINE_CEILING_BYTES" env-default:"262144"`
	MaxPixels          int   `yaml:"max_pixels" env:"PIPELINE_MAX_PIXELS" env-default:"40000000"`
	MaxUploadBytes     int64 `yaml:"max_upload_bytes" env:"PIPELINE_MAX_UPLOAD_BYTES" env-default:"33554432"`
}

type CarouselConfig struct {
	MaxSize int `yaml:"max_size" env:"CAROUSEL_MAX_SIZE" env-default:"17"`
}

// MustLoad reads .env (if any), then CONFIG_PATH (if set), then the environment.
func MustLoad() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

// TaskRetryStrategy is the in-process retry budget of one image task. It keeps
// the delay and backoff of the default strategy.
func (c *Config) TaskRetryStrategy() retry.Strategy {
	s := c.DefaultRetryStrategy()
	if c.Worker.TaskAttempts > s.Attempts {
		s.Attempts = c.Worker.TaskAttempts
	}
	return s
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	attempts := c.Retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return retry.Strategy{
		Attempts: attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}
