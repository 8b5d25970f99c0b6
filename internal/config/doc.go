// Package config provides engine settings: loading from TOML or YAML
// files, environment variable overrides, validation with recoverable
// fallbacks, and live reload via file watching.
package config
