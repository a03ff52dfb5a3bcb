package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format names a handler encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Environment names understood by WithEnvironment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// ParseFormat validates a format name, ignoring case and surrounding spaces.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f != FormatJSON && f != FormatText {
		return "", fmt.Errorf("logger: unknown format %q, want %q or %q", s, FormatJSON, FormatText)
	}
	return f, nil
}

// ParseLevel parses a level name such as "debug", "warn" or "error+2".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// Option adjusts how New builds a logger.
type Option func(*settings)

type settings struct {
	level  slog.Leveler
	format Format
	w      io.Writer
	source bool
	attrs  []slog.Attr
}

// WithLevel sets a fixed minimum level.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithLevelVar makes the minimum level follow v, so it can change at runtime.
func WithLevelVar(v *slog.LevelVar) Option {
	return func(s *settings) {
		if v != nil {
			s.level = v
		}
	}
}

// WithFormat sets the encoding. It panics on an unknown format so that a bad
// configuration fails at startup.
func WithFormat(f Format) Option {
	parsed, err := ParseFormat(string(f))
	if err != nil {
		panic(err)
	}
	return func(s *settings) { s.format = parsed }
}

// WithTextFormatter is WithFormat(FormatText).
func WithTextFormatter() Option { return WithFormat(FormatText) }

// WithJSONFormatter is WithFormat(FormatJSON).
func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput redirects records to w. A nil writer keeps the current one.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.w = w
		}
	}
}

// WithSource adds the caller's file and line to every record.
func WithSource() Option {
	return func(s *settings) { s.source = true }
}

// WithAttr attaches attrs to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithDevelopment selects debug-level text output tagged with service.
func WithDevelopment(service string) Option {
	return func(s *settings) {
		s.level, s.format = slog.LevelDebug, FormatText
		s.attrs = append(s.attrs, processAttrs(service, EnvDevelopment)...)
	}
}

// WithProduction selects info-level JSON output tagged with service.
func WithProduction(service string) Option {
	return func(s *settings) {
		s.level, s.format = slog.LevelInfo, FormatJSON
		s.attrs = append(s.attrs, processAttrs(service, EnvProduction)...)
	}
}

// WithEnvironment is WithProduction for "production" or "prod", WithDevelopment otherwise.
func WithEnvironment(env, service string) Option {
	if env == EnvProduction || env == "prod" {
		return WithProduction(service)
	}
	return WithDevelopment(service)
}

func processAttrs(service, env string) []slog.Attr {
	attrs := []slog.Attr{slog.String("env", env)}
	if service != "" {
		attrs = append([]slog.Attr{slog.String("service", service)}, attrs...)
	}
	return attrs
}

// SetAsDefault installs l as the process-wide slog logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// Discard returns a logger that drops every record. Library types default to it.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// New builds a logger. Without options it writes info-level JSON to stdout.
func New(opts ...Option) *slog.Logger {
	s := settings{level: slog.LevelInfo, format: FormatJSON, w: os.Stdout}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	ho := &slog.HandlerOptions{Level: s.level, AddSource: s.source}
	var h slog.Handler = slog.NewJSONHandler(s.w, ho)
	if s.format == FormatText {
		h = slog.NewTextHandler(s.w, ho)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	return slog.New(h)
}
