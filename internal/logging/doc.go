// Package logging constructs the slog loggers used across burnish and defines
// the attribute helpers and standardized field keys components log with.
//
// Two output formats are supported: a human-oriented console format for
// interactive runs and JSON for log files and scripting. Components never
// build handlers themselves; they receive a *slog.Logger and annotate it via
// NewComponentLogger and WithContext.
package logging
