// Package metrics counts processing activity and exposes it in the
// Prometheus text exposition format.
package metrics
