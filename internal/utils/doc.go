// Package utils holds small helpers shared by the airecover packages: the
// JSON POST helper used by the backend client, bounded previews of model
// output for diagnostics, and a stopwatch for pipeline latency.
package utils
