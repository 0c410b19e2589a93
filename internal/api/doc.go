// Package api serves the HTTP surface: event ingestion, processing
// history, and health.
package api
