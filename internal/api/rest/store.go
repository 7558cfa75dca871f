package rest

import (
	"sync"
	"time"
)

// ReportStore holds the most recent rendered report. The daemon writes
// after each analysis run; HTTP readers take copies under the lock.
type ReportStore struct {
	mu        sync.RWMutex
	report    string
	updatedAt time.Time
}

// NewReportStore creates an empty report store
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Set replaces the stored report
func (s *ReportStore) Set(report string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
	s.updatedAt = time.Now().UTC()
}

// Get returns the stored report and when it was produced. ok is false
// until the first Set.
func (s *ReportStore) Get() (report string, updatedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.updatedAt, !s.updatedAt.IsZero()
}
