package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/pkg/config"
	"github.com/dmitrymomot/streamkit/pkg/stream"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "streamkit", cfg.Service)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 64, cfg.BufferSize)
	assert.Equal(t, "drop_newest", cfg.OverflowPolicy)
	assert.Equal(t, 0, cfg.MaxPublishers)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STREAMKIT_BUFFER_SIZE", "8")
	t.Setenv("STREAMKIT_OVERFLOW_POLICY", "block")
	t.Setenv("STREAMKIT_MAX_PUBLISHERS", "2")
	t.Setenv("STREAMKIT_TICK_INTERVAL", "1s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.BufferSize)
	assert.Equal(t, "block", cfg.OverflowPolicy)
	assert.Equal(t, 2, cfg.MaxPublishers)
	assert.Equal(t, time.Second, cfg.TickInterval)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("STREAMKIT_BUFFER_SIZE", "many")

	_, err := config.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STREAMKIT_SERVICE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STREAMKIT_SERVICE") })

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Service)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on invalid config", func(t *testing.T) {
		t.Setenv("STREAMKIT_MAX_PUBLISHERS", "x")
		assert.Panics(t, func() { config.MustLoad() })
	})

	t.Run("returns config", func(t *testing.T) {
		assert.NotPanics(t, func() {
			cfg := config.MustLoad()
			assert.Equal(t, "streamkit", cfg.Service)
		})
	})
}

func TestConfig_Policy(t *testing.T) {
	tests := []struct {
		name    string
		policy  string
		want    stream.OverflowPolicy
		wantErr bool
	}{
		{name: "empty defaults to drop newest", policy: "", want: stream.DropNewest},
		{name: "drop newest", policy: "drop_newest", want: stream.DropNewest},
		{name: "drop oldest", policy: "drop_oldest", want: stream.DropOldest},
		{name: "block", policy: "block", want: stream.Block},
		{name: "unknown", policy: "spill", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.Config{OverflowPolicy: tt.policy}.Policy()
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrInvalidPolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := config.Config{
		Env:            "production",
		Service:        "svc",
		LogLevel:       "debug",
		LogFormat:      "json",
		BufferSize:     4,
		OverflowPolicy: "drop_oldest",
		MaxPublishers:  1,
	}

	valuesOpts, err := cfg.ValuesOptions()
	require.NoError(t, err)
	assert.Len(t, valuesOpts, 2)
	assert.Len(t, cfg.FlatMapOptions(), 1)

	logOpts, err := cfg.LoggerOptions()
	require.NoError(t, err)
	assert.Len(t, logOpts, 3)

	t.Run("invalid level", func(t *testing.T) {
		bad := cfg
		bad.LogLevel = "loud"
		_, err := bad.LoggerOptions()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid format", func(t *testing.T) {
		bad := cfg
		bad.LogFormat = "xml"
		_, err := bad.LoggerOptions()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid policy", func(t *testing.T) {
		bad := cfg
		bad.OverflowPolicy = "spill"
		_, err := bad.ValuesOptions()
		assert.ErrorIs(t, err, config.ErrInvalidPolicy)
	})
}
