package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, StorageDriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "fitness_planner", cfg.Database.Name)
	assert.Equal(t, "kv", cfg.Database.Collection)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignExpiry)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.TextModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.AI.ImageModel)
	assert.Equal(t, 180*time.Second, cfg.AI.Timeout)
	assert.Equal(t, LimitConfig{Limit: 5, Interval: time.Minute}, cfg.RateLimit.Plan)
	assert.Equal(t, LimitConfig{Limit: 5, Interval: time.Minute}, cfg.RateLimit.Image)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
storage:
  driver: memory
ai:
  text_model: gemini-test
ratelimit:
  alternatives:
    limit: 2
    interval: 30s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("AI_API_KEY", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address, "env wins over file")
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "gemini-test", cfg.AI.TextModel)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, LimitConfig{Limit: 2, Interval: 30 * time.Second}, cfg.RateLimit.Alternatives)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_NAME=from_dotenv\n"), 0o600))
	// Registered with t.Setenv so the variable godotenv sets is restored afterwards.
	t.Setenv("DATABASE_NAME", "")
	require.NoError(t, os.Unsetenv("DATABASE_NAME"))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Database.Name)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
