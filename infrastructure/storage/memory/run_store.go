// Package memory provides in-memory implementations of storage interfaces.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/run"
)

// RunStore is an in-memory implementation of run.Store.
type RunStore struct {
	records map[string]run.Record
	mu      sync.RWMutex
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		records: make(map[string]run.Record),
	}
}

// Save persists a new record.
func (s *RunStore) Save(ctx context.Context, rec run.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if rec.ID == "" {
		return run.ErrInvalidRunID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return run.ErrRunExists
	}

	s.records[rec.ID] = rec
	return nil
}

// Get retrieves a record by run ID.
func (s *RunStore) Get(ctx context.Context, id string) (run.Record, error) {
	if err := ctx.Err(); err != nil {
		return run.Record{}, err
	}

	if id == "" {
		return run.Record{}, run.ErrInvalidRunID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return run.Record{}, run.ErrRunNotFound
	}
	return rec, nil
}

// Delete removes a record by run ID.
func (s *RunStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if id == "" {
		return run.ErrInvalidRunID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return run.ErrRunNotFound
	}

	delete(s.records, id)
	return nil
}

// List returns records matching the filter, newest first.
func (s *RunStore) List(ctx context.Context, filter run.ListFilter) ([]run.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	result := make([]run.Record, 0, len(s.records))
	for _, rec := range s.records {
		if filter.Matches(rec) {
			result = append(result, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].ID > result[j].ID
		}
		return result[i].StartTime.After(result[j].StartTime)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []run.Record{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the number of records matching the filter.
func (s *RunStore) Count(ctx context.Context, filter run.ListFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, rec := range s.records {
		if filter.Matches(rec) {
			count++
		}
	}
	return count, nil
}

// Summary returns aggregate statistics.
func (s *RunStore) Summary(ctx context.Context, filter run.ListFilter) (run.Summary, error) {
	if err := ctx.Err(); err != nil {
		return run.Summary{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := run.Summary{ByErrorKind: make(map[agent.ErrorKind]int64)}
	var total time.Duration

	for _, rec := range s.records {
		if !filter.Matches(rec) {
			continue
		}
		summary.TotalRuns++
		total += rec.Duration()

		switch rec.Status {
		case agent.RunStatusCompleted:
			summary.CompletedRuns++
		case agent.RunStatusFailed:
			summary.FailedRuns++
			if rec.ErrorKind != "" {
				summary.ByErrorKind[rec.ErrorKind]++
			}
		}
	}

	if summary.TotalRuns > 0 {
		summary.AverageDuration = total / time.Duration(summary.TotalRuns)
	}

	return summary, nil
}

// Ensure RunStore implements run.Store and run.SummaryProvider
var (
	_ run.Store           = (*RunStore)(nil)
	_ run.SummaryProvider = (*RunStore)(nil)
)
