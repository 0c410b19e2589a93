// Package ws streams processing records to WebSocket clients as
// notifications are handled.
package ws
