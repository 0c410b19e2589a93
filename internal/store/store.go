package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Processing outcomes recorded per notification.
const (
	OutcomeDelivered      = "delivered"
	OutcomeDeliveryFailed = "delivery_failed"
	OutcomeError          = "error"
)

// Record is the result of processing one inbound notification. Kind is
// empty when processing failed before classification.
type Record struct {
	Kind        string    `json:"kind,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	MessageID   string    `json:"message_id,omitempty"`
	Outcome     string    `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Store is a thread-safe bounded history of processing records. The
// newest records win: once capacity is reached the oldest record is
// dropped on every Add. A background goroutine (Run) periodically evicts
// records older than the retention window.
type Store struct {
	mu        sync.RWMutex
	records   []Record
	capacity  int
	retention time.Duration
	now       func() time.Time // injectable for deterministic tests
}

// New creates a Store holding at most capacity records for up to
// retention each.
func New(capacity int, retention time.Duration) *Store {
	return &Store{
		records:   make([]Record, 0, capacity),
		capacity:  capacity,
		retention: retention,
		now:       time.Now,
	}
}

// Add appends rec to the history, dropping the oldest records when the
// capacity is exceeded.
func (s *Store) Add(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
}

// List returns the records within the retention window, newest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := s.now().Add(-s.retention)
	out := make([]Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].ProcessedAt.After(cutoff) {
			out = append(out, s.records[i])
		}
	}
	return out
}

// Count returns the total number of records currently held, including
// expired ones not yet evicted.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Evict removes records whose ProcessedAt is older than now minus the
// retention window. It returns the number of records removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.retention)
	kept := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ProcessedAt.After(cutoff) {
			kept = append(kept, r)
		}
	}
	removed := len(s.records) - len(kept)
	s.records = kept
	return removed
}

// Run starts the background retention eviction loop. It ticks at half the
// retention interval (minimum 1 second). Run blocks until ctx is
// cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.retention / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted expired records", "count", n)
			}
		}
	}
}
