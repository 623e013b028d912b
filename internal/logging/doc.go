// Package logging provides structured logging for the applink CLI using slog.
//
// The text handler colorizes levels when stderr is a terminal and masks
// attribute values that look like app secrets. JSON output is available for
// CI logs, and [MultiHandler] fans records out to an additional --log-file.
//
// Verbosity maps to levels through [LevelFromVerbosity]: no flag shows
// warnings, -v shows each platform step, -vv each patch, -vvv every
// detection decision ([LevelTrace]).
//
// Loggers travel through context with [NewContext] and [FromContext]. Tests
// use [ForTest] so output only appears on failure or with -v.
package logging
