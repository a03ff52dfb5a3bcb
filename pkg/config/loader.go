package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/streamkit/pkg/logger"
	"github.com/dmitrymomot/streamkit/pkg/stream"
)

// Config holds the tunables of a streamkit process.
type Config struct {
	Env     string `env:"STREAMKIT_ENV" envDefault:"development"`
	Service string `env:"STREAMKIT_SERVICE" envDefault:"streamkit"`

	LogLevel  string `env:"STREAMKIT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"STREAMKIT_LOG_FORMAT" envDefault:"text"`

	// BufferSize and OverflowPolicy configure channel bridges built with stream.Values.
	BufferSize     int    `env:"STREAMKIT_BUFFER_SIZE" envDefault:"64"`
	OverflowPolicy string `env:"STREAMKIT_OVERFLOW_POLICY" envDefault:"drop_newest"`

	// MaxPublishers caps concurrently active FlatMap inner publishers; 0 means unlimited.
	MaxPublishers int `env:"STREAMKIT_MAX_PUBLISHERS" envDefault:"0"`

	TickInterval time.Duration `env:"STREAMKIT_TICK_INTERVAL" envDefault:"250ms"`
}

// Load reads .env files and parses the environment into a Config.
//
// With no arguments the default .env in the working directory is loaded if it
// exists. Named files must exist. Variables already set in the process
// environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		// The default .env file is optional.
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, errors.Join(ErrLoadingEnvFile, err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
	return cfg
}

// Policy maps OverflowPolicy to a stream.OverflowPolicy.
func (c Config) Policy() (stream.OverflowPolicy, error) {
	switch c.OverflowPolicy {
	case "", "drop_newest":
		return stream.DropNewest, nil
	case "drop_oldest":
		return stream.DropOldest, nil
	case "block":
		return stream.Block, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, c.OverflowPolicy)
	}
}

// ValuesOptions returns the stream.Values options described by the config.
func (c Config) ValuesOptions() ([]stream.ValuesOption, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	return []stream.ValuesOption{
		stream.WithBufferSize(c.BufferSize),
		stream.WithOverflowPolicy(policy),
	}, nil
}

// FlatMapOptions returns the stream.FlatMap options described by the config.
func (c Config) FlatMapOptions() []stream.FlatMapOption {
	return []stream.FlatMapOption{stream.WithMaxPublishers(c.MaxPublishers)}
}

// LoggerOptions returns logger options for the configured environment, level and format.
func (c Config) LoggerOptions() ([]logger.Option, error) {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	format, err := logger.ParseFormat(c.LogFormat)
	if err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	return []logger.Option{
		logger.WithEnvironment(c.Env, c.Service),
		logger.WithLevel(level),
		logger.WithFormat(format),
	}, nil
}
