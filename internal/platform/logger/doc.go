// Package logger provides structured logging for the application on top of
// log/slog. Request-scoped loggers travel in the context so that stores and
// services log with the trace and user attributes attached by middleware.
package logger
