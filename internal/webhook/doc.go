// Package webhook posts rendered card messages to a Microsoft Teams
// incoming-webhook URL.
package webhook
