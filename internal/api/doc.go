// Package api adapts HTTP requests to the application services. Handlers
// decode and validate input, call one service, and map the outcome to a
// JSON, PNG or XLSX response. Error responses carry a safe message and a
// trace ID; the underlying error is only logged, and only after redaction.
package api
