// Package logger provides a small factory around Go's slog package with
// functional options and attribute helpers that keep key names consistent
// across streamkit.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("playground"),
//	    logger.WithOutput(os.Stderr),
//	)
//	log.Info("subject completed",
//	    logger.Component("passthrough_subject"),
//	    logger.Count(3),
//	)
//
// # Configuration
//
//   - WithDevelopment / WithProduction / WithEnvironment: defaults per environment.
//   - WithFormat / WithTextFormatter / WithJSONFormatter: output format.
//   - WithLevel / WithLevelVar: minimum level, fixed or adjustable at runtime.
//   - WithSource: caller file and line on every record.
//   - WithOutput: destination writer.
//   - WithAttr: static attributes on every record.
//
// The engine itself is silent by default: components that log accept a
// *slog.Logger and fall back to Discard.
//
// # Error Handling
//
// Error produces an attribute only for a non-nil error, so
//
//	log.Info("stream terminated", logger.Error(err))
//
// needs no nil check. WithFormat panics on an unknown format; use ParseFormat and ParseLevel
// to validate user input first.
package logger
