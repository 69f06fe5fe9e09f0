package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/react-agent/application"
	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/run"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/memory"
)

// listOnlyStore hides the memory store's native summary.
type listOnlyStore struct {
	run.Store
}

func seedStore(t *testing.T) *memory.RunStore {
	t.Helper()

	store := memory.NewRunStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []run.Record{
		{ID: "a", Question: "capital of France", Status: agent.RunStatusCompleted, Answer: "Paris",
			StartTime: base, EndTime: base.Add(2 * time.Second)},
		{ID: "b", Question: "election X", Status: agent.RunStatusFailed, ErrorKind: agent.KindBudgetExceeded,
			StartTime: base.Add(time.Minute), EndTime: base.Add(time.Minute + 4*time.Second)},
		{ID: "c", Question: "election Y", Status: agent.RunStatusFailed, ErrorKind: agent.KindSearchUnavailable,
			StartTime: base.Add(2 * time.Minute), EndTime: base.Add(2*time.Minute + 6*time.Second)},
	}
	for _, rec := range records {
		if err := store.Save(context.Background(), rec); err != nil {
			t.Fatalf("Save(%s) error = %v", rec.ID, err)
		}
	}
	return store
}

func TestHistoryService_NoStore(t *testing.T) {
	t.Parallel()

	svc := application.NewHistoryService(nil)
	ctx := context.Background()

	if _, err := svc.Recent(ctx, run.ListFilter{}); !errors.Is(err, application.ErrNoRunStore) {
		t.Errorf("Recent() error = %v, want %v", err, application.ErrNoRunStore)
	}
	if _, err := svc.Get(ctx, "a"); !errors.Is(err, application.ErrNoRunStore) {
		t.Errorf("Get() error = %v, want %v", err, application.ErrNoRunStore)
	}
	if _, err := svc.Summary(ctx, run.ListFilter{}); !errors.Is(err, application.ErrNoRunStore) {
		t.Errorf("Summary() error = %v, want %v", err, application.ErrNoRunStore)
	}
	if _, err := svc.Count(ctx, run.ListFilter{}); !errors.Is(err, application.ErrNoRunStore) {
		t.Errorf("Count() error = %v, want %v", err, application.ErrNoRunStore)
	}
	if err := svc.Delete(ctx, "a"); !errors.Is(err, application.ErrNoRunStore) {
		t.Errorf("Delete() error = %v, want %v", err, application.ErrNoRunStore)
	}
}

func TestHistoryService_CountDelete(t *testing.T) {
	t.Parallel()

	svc := application.NewHistoryService(seedStore(t))
	ctx := context.Background()

	failed := run.ListFilter{Status: []agent.RunStatus{agent.RunStatusFailed}, Limit: 1}
	n, err := svc.Count(ctx, failed)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count(failed) = %d, want 2 regardless of limit", n)
	}

	if err := svc.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "b"); !errors.Is(err, run.ErrRunNotFound) {
		t.Errorf("Get() after delete error = %v, want %v", err, run.ErrRunNotFound)
	}
	if err := svc.Delete(ctx, "b"); !errors.Is(err, run.ErrRunNotFound) {
		t.Errorf("Delete() twice error = %v, want %v", err, run.ErrRunNotFound)
	}
}

func TestHistoryService_Recent(t *testing.T) {
	t.Parallel()

	svc := application.NewHistoryService(seedStore(t))

	records, err := svc.Recent(context.Background(), run.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Errorf("order = %s, %s, want c, b", records[0].ID, records[1].ID)
	}

	rec, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.Answer != "Paris" {
		t.Errorf("Answer = %q, want Paris", rec.Answer)
	}
}

func TestHistoryService_Summary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store run.Store
	}{
		{"native", seedStore(t)},
		{"from listing", listOnlyStore{seedStore(t)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := application.NewHistoryService(tt.store)
			summary, err := svc.Summary(context.Background(), run.ListFilter{})
			if err != nil {
				t.Fatalf("Summary() error = %v", err)
			}
			if summary.TotalRuns != 3 {
				t.Errorf("TotalRuns = %d, want 3", summary.TotalRuns)
			}
			if summary.CompletedRuns != 1 || summary.FailedRuns != 2 {
				t.Errorf("Completed, Failed = %d, %d, want 1, 2", summary.CompletedRuns, summary.FailedRuns)
			}
			if summary.ByErrorKind[agent.KindBudgetExceeded] != 1 {
				t.Errorf("ByErrorKind[budget_exceeded] = %d, want 1", summary.ByErrorKind[agent.KindBudgetExceeded])
			}
			if summary.AverageDuration != 4*time.Second {
				t.Errorf("AverageDuration = %v, want %v", summary.AverageDuration, 4*time.Second)
			}
		})
	}
}
