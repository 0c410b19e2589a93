// Package notify drives the notification pipeline: parse, classify,
// render, deliver, record.
package notify
