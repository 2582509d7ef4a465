package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// parse runs a command with the real flag set and returns the built config.
func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	for _, key := range []string{"JWT_SECRET", "APP_ENV"} {
		t.Setenv(key, "") // restored after the test
		require.NoError(t, os.Unsetenv(key))
	}

	var (
		cfg    *Config
		cfgErr error
	)
	cmd := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, cfgErr = NewFromCLI(cmd)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return cfg, cfgErr
}

func TestNewFromCLI_Defaults(t *testing.T) {
	cfg, err := parse(t, "--env", "development")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "voting/votes", cfg.MQTT.Topic)
	assert.Empty(t, cfg.MQTT.Broker)
}

func TestNewFromCLI_DevelopmentFallbackSecret(t *testing.T) {
	cfg, err := parse(t, "--env", "development")
	require.NoError(t, err)

	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
}

func TestNewFromCLI_DefaultEnvRequiresSecret(t *testing.T) {
	_, err := parse(t)

	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestNewFromCLI_DefaultEnvIsProduction(t *testing.T) {
	cfg, err := parse(t, "--jwt-secret", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.False(t, cfg.IsDevelopment())
}

func TestNewFromCLI_ProductionRequiresSecret(t *testing.T) {
	_, err := parse(t, "--env", "production")

	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestNewFromCLI_ProductionWithSecret(t *testing.T) {
	cfg, err := parse(t, "--env", "production", "--jwt-secret", "s3cret", "--port", "9090")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
}

func TestNewFromCLI_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voting.toml")
	content := `
[server]
port = 4000

[database]
driver = "postgres"
dsn = "host=localhost dbname=voting"

[mqtt]
topic = "elections/votes"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := parse(t, "--config", path, "--env", "development")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=voting", cfg.Database.DSN)
	assert.Equal(t, "elections/votes", cfg.MQTT.Topic)
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"development", true},
		{"Development", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Env: tt.env}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}
