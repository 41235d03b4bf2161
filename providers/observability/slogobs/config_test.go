package slogobs

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"  debug  ", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogLevelString(t *testing.T) {
	for _, level := range []slog.Level{LevelTrace, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		name := LogLevelString(level)
		if got := ParseLogLevel(name); got != level {
			t.Errorf("ParseLogLevel(LogLevelString(%v)) = %v", level, got)
		}
	}
	if got := LogLevelString(slog.Level(2)); got != "LEVEL(2)" {
		t.Errorf("LogLevelString(2) = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"compact", FormatCompact},
		{"PRETTY", FormatPretty},
		{" json ", FormatJSON},
		{"xml", FormatCompact},
		{"", FormatCompact},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantFormat Format
		wantLevel  slog.Level
	}{
		{
			name:       "defaults",
			env:        map[string]string{},
			wantFormat: FormatCompact,
			wantLevel:  slog.LevelInfo,
		},
		{
			name:       "generic variables",
			env:        map[string]string{"LOG_FORMAT": "json", "LOG_LEVEL": "error"},
			wantFormat: FormatJSON,
			wantLevel:  slog.LevelError,
		},
		{
			name: "prefixed variables win",
			env: map[string]string{
				"LOG_FORMAT": "json", "LOG_LEVEL": "error",
				"AIRECOVER_LOG_FORMAT": "pretty", "AIRECOVER_LOG_LEVEL": "trace",
			},
			wantFormat: FormatPretty,
			wantLevel:  LevelTrace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"AIRECOVER_LOG_FORMAT", "AIRECOVER_LOG_LEVEL", "LOG_FORMAT", "LOG_LEVEL"} {
				t.Setenv(name, tt.env[name])
			}

			cfg := defaultConfig()
			if cfg.format != tt.wantFormat {
				t.Errorf("format = %v, want %v", cfg.format, tt.wantFormat)
			}
			if cfg.level != tt.wantLevel {
				t.Errorf("level = %v, want %v", cfg.level, tt.wantLevel)
			}
			if cfg.output != os.Stderr {
				t.Error("default output should be os.Stderr")
			}
		})
	}
}

func TestApplyOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	cfg := applyOptions(
		WithFormat(FormatJSON),
		WithLevel(slog.LevelDebug),
		WithOutput(buf),
		WithColors(true),
		WithLogger(logger),
	)

	if cfg.format != FormatJSON || cfg.level != slog.LevelDebug || cfg.output != buf || !cfg.colors || cfg.logger != logger {
		t.Errorf("applyOptions = %+v", cfg)
	}
}
