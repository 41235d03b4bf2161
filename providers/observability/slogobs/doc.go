// Package slogobs implements observability.Provider with log/slog.
//
// Spans, counters and histograms are written as DEBUG records; failures
// reported by the extractor surface at WARN. Counter and histogram values
// are also kept in memory and exposed through [Observer.Snapshot], which the
// CLI uses for its run summary.
//
// Output format and level default to AIRECOVER_LOG_FORMAT and
// AIRECOVER_LOG_LEVEL (falling back to LOG_FORMAT and LOG_LEVEL) and can be
// set with [WithFormat], [WithLevel], [WithOutput], [WithColors] and
// [WithLogger].
package slogobs
