package slogobs

import (
	"os"
	"strings"
)

// Format is a log output format.
type Format string

const (
	// FormatCompact writes one line per record with logfmt style attributes.
	FormatCompact Format = "compact"

	// FormatPretty writes the message followed by one indented line per attribute.
	FormatPretty Format = "pretty"

	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// ParseFormat maps a case-insensitive name to a Format. Unknown names yield
// FormatCompact.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPretty:
		return FormatPretty
	case FormatJSON:
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads AIRECOVER_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	for _, name := range []string{"AIRECOVER_LOG_FORMAT", "LOG_FORMAT"} {
		if value := os.Getenv(name); value != "" {
			return ParseFormat(value)
		}
	}
	return FormatCompact
}

func (f Format) String() string {
	return string(f)
}
