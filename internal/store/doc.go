// Package store keeps a bounded in-memory history of processed
// notifications for the query API and the live stream.
package store
