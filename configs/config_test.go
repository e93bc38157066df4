package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/Keoroanthony/go-foodorders/configs"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "us-east-1", cfg.Email.AWSRegion)
	assert.Equal(t, 10, cfg.App.LoginRate)
	assert.True(t, cfg.App.Seed)
	assert.False(t, cfg.OIDC.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("AT_USERNAME", "sandbox")
	t.Setenv("AT_API_KEY", "key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "redis://cache:6379/2", cfg.Storage.RedisURL)
	assert.True(t, cfg.AfricaTalking.Enabled())
	assert.Equal(t, "AFRICASTKNG", cfg.AfricaTalking.SenderID)
}

func TestPostgresDSN(t *testing.T) {
	c := config.StorageConfig{
		PostgresHost: "db", PostgresUser: "u", PostgresPass: "p",
		PostgresDB: "food", PostgresPort: "5433", TimeZone: "Africa/Nairobi",
	}
	assert.Equal(t, "host=db user=u password=p dbname=food port=5433 sslmode=disable TimeZone=Africa/Nairobi", c.PostgresDSN())
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("Missing file is not an error", func(t *testing.T) {
		assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
	})

	t.Run("Loads variables from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("FOODORDERS_TEST_VALUE=hello\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("FOODORDERS_TEST_VALUE") })

		require.NoError(t, config.LoadDotEnv(path))
		assert.Equal(t, "hello", os.Getenv("FOODORDERS_TEST_VALUE"))
	})
}
