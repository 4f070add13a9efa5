// Package logger builds the process-wide structured logger.
//
// Loggers are plain *slog.Logger values with a shared, adjustable level
// and a ReplaceAttr hook that masks credentials and issued tokens before
// they reach the output. Request handlers carry a logger in the context
// enriched with the request id; use L to fetch it.
package logger
