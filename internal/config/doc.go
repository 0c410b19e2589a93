// Package config loads the relay configuration from YAML with secrets
// resolved from the environment.
package config
