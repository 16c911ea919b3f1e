// Package logging assembles structured slog loggers used across squeeze.
//
// It owns the console and JSON handlers, level parsing, and output plumbing,
// including an optional size-rotated log file. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command
// emits records with the same shape.
package logging
