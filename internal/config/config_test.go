package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := MustLoad()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "dealer-image-tasks", cfg.Kafka.ImageTopic)
	assert.Equal(t, 17, cfg.Carousel.MaxSize)
	assert.Equal(t, int64(256<<10), cfg.Pipeline.InlineCeilingBytes)
	assert.Equal(t, 1, cfg.Retry.Attempts)
	assert.Equal(t, 3, cfg.Worker.TaskAttempts)
}

func TestMustLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("MINIO_DISABLED", "true")

	cfg, err := MustLoad()
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Worker.Concurrency)
	assert.True(t, cfg.MinIO.Disabled)
}

func TestMustLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CAROUSEL_MAX_SIZE=5\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CAROUSEL_MAX_SIZE") })

	cfg, err := MustLoad()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Carousel.MaxSize)
}

func TestMustLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \"9090\"\ncarousel:\n  max_size: 9\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := MustLoad()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Addr)
	assert.Equal(t, 9, cfg.Carousel.MaxSize)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestDBDSN(t *testing.T) {
	cfg := &Config{DB: DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable"}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.DBDSN())
}

func TestDefaultRetryStrategy_AtLeastOneAttempt(t *testing.T) {
	cfg := &Config{Retry: RetryConfig{Attempts: 0, Delay: time.Second, Backoff: 2}}

	s := cfg.DefaultRetryStrategy()
	assert.Equal(t, 1, s.Attempts)
	assert.Equal(t, time.Second, s.Delay)
	assert.Equal(t, 2.0, s.Backoff)
}

func TestTaskRetryStrategy(t *testing.T) {
	cfg := &Config{
		Retry:  RetryConfig{Attempts: 1, Delay: 200 * time.Millisecond, Backoff: 2},
		Worker: WorkerConfig{TaskAttempts: 3},
	}

	s := cfg.TaskRetryStrategy()
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, 200*time.Millisecond, s.Delay)
	assert.Equal(t, 2.0, s.Backoff)

	cfg.Worker.TaskAttempts = 0
	assert.Equal(t, 1, cfg.TaskRetryStrategy().Attempts)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
