// Package auth enforces optional API key authentication on the HTTP API.
package auth
