// Package config loads streamkit settings from the environment.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - Load reads one or more `.env` files (the default `.env` is optional) and
//     parses the environment into Config using field tags.
//   - MustLoad panics on failure, for processes that cannot start without config.
//
// Config is a plain value owned by the caller; there is no process-wide cache.
// Helper methods translate it into options for the other packages:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatalf("loading config: %v", err)
//	}
//	logOpts, err := cfg.LoggerOptions()
//	if err != nil {
//	    log.Fatalf("configuring logger: %v", err)
//	}
//	l := logger.New(logOpts...)
//
//	valuesOpts, err := cfg.ValuesOptions()
//	if err != nil {
//	    l.Error("bad overflow policy", logger.Error(err))
//	}
//	values := stream.Values(ctx, pub, valuesOpts...)
//
// # Environment
//
//	STREAMKIT_ENV             development | production (default development)
//	STREAMKIT_SERVICE         service name attached to log records
//	STREAMKIT_LOG_LEVEL       debug | info | warn | error (default info)
//	STREAMKIT_LOG_FORMAT      text | json (default text)
//	STREAMKIT_BUFFER_SIZE     channel buffer for stream.Values (default 64)
//	STREAMKIT_OVERFLOW_POLICY drop_newest | drop_oldest | block
//	STREAMKIT_MAX_PUBLISHERS  FlatMap concurrency cap, 0 = unlimited
//	STREAMKIT_TICK_INTERVAL   period of interval publishers (default 250ms)
//
// # Error Handling
//
// Errors wrap the sentinels ErrParsingConfig, ErrLoadingEnvFile and
// ErrInvalidPolicy; compare with errors.Is.
package config
