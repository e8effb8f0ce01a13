// Package config handles configuration loading, parsing, and validation
// from environment variables (HRT_ prefix) and an optional YAML file. It
// provides type-safe access to the settings the server, the kinetic model
// and the transfer layer need.
package config
