// Package logging configures the slog loggers used across anisync.
//
// Loggers are constructed once at command startup and passed into each
// component; no package reads ambient logger state. Component loggers carry a
// standardized "component" attribute so console and JSON output stay
// greppable.
package logging
