package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/react-agent/domain/agent"
	"github.com/felixgeelhaar/react-agent/domain/run"
	"github.com/felixgeelhaar/react-agent/infrastructure/storage/sqlite"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRunStore(t *testing.T) *sqlite.RunStore {
	t.Helper()

	dsn := "file:" + t.TempDir() + "/runs.db?mode=rwc"
	store, err := sqlite.NewRunStore(sqlite.DefaultConfig(), sqlite.WithDSN(dsn))
	if err != nil {
		t.Fatalf("NewRunStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(id, question string, offset time.Duration, kind agent.ErrorKind) run.Record {
	rec := run.Record{
		ID:          id,
		Question:    question,
		Status:      agent.RunStatusCompleted,
		Answer:      "answer " + id,
		Iterations:  2,
		Completions: 2,
		Searches:    1,
		StartTime:   base.Add(offset),
		EndTime:     base.Add(offset + time.Second),
	}
	if kind != "" {
		rec.Status = agent.RunStatusFailed
		rec.Answer = ""
		rec.ErrorKind = kind
		rec.Error = string(kind)
	}
	return rec
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store := newTestRunStore(t)
	ctx := context.Background()
	rec := record("run-1", "Who won election X?", 0, "")

	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Question != rec.Question {
		t.Errorf("Question = %q, want %q", got.Question, rec.Question)
	}
	if got.Answer != rec.Answer {
		t.Errorf("Answer = %q, want %q", got.Answer, rec.Answer)
	}
	if got.Searches != 1 || got.Completions != 2 {
		t.Errorf("Searches/Completions = %d/%d, want 1/2", got.Searches, got.Completions)
	}
	if !got.StartTime.Equal(rec.StartTime) {
		t.Errorf("StartTime = %v, want %v", got.StartTime, rec.StartTime)
	}
	if got.Duration() != time.Second {
		t.Errorf("Duration() = %v, want %v", got.Duration(), time.Second)
	}
}

func TestRunStore_Errors(t *testing.T) {
	store := newTestRunStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, record("dup", "q", 0, "")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate", store.Save(ctx, record("dup", "q", 0, "")), run.ErrRunExists},
		{"empty id save", store.Save(ctx, run.Record{}), run.ErrInvalidRunID},
		{"missing get", getErr(store, "nope"), run.ErrRunNotFound},
		{"empty id get", getErr(store, ""), run.ErrInvalidRunID},
		{"missing delete", store.Delete(ctx, "nope"), run.ErrRunNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("error = %v, want %v", tt.err, tt.want)
			}
		})
	}
}

func getErr(store *sqlite.RunStore, id string) error {
	_, err := store.Get(context.Background(), id)
	return err
}

func TestRunStore_ListAndCount(t *testing.T) {
	store := newTestRunStore(t)
	ctx := context.Background()

	for _, rec := range []run.Record{
		record("r1", "What is the capital of France?", 0, ""),
		record("r2", "Who won election X?", time.Minute, ""),
		record("r3", "gibberish 100%", 2*time.Minute, agent.KindParse),
		record("r4", "offline", 3*time.Minute, agent.KindModelUnavailable),
	} {
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error = %v", rec.ID, err)
		}
	}

	tests := []struct {
		name   string
		filter run.ListFilter
		want   []string
	}{
		{"all newest first", run.ListFilter{}, []string{"r4", "r3", "r2", "r1"}},
		{"failed", run.ListFilter{Status: []agent.RunStatus{agent.RunStatusFailed}}, []string{"r4", "r3"}},
		{"by kind", run.ListFilter{ErrorKinds: []agent.ErrorKind{agent.KindParse}}, []string{"r3"}},
		{"question pattern", run.ListFilter{QuestionPattern: "france"}, []string{"r1"}},
		{"literal percent", run.ListFilter{QuestionPattern: "100%"}, []string{"r3"}},
		{"time window", run.ListFilter{FromTime: base.Add(time.Minute), ToTime: base.Add(3 * time.Minute)}, []string{"r3", "r2"}},
		{"limit", run.ListFilter{Limit: 1}, []string{"r4"}},
		{"offset only", run.ListFilter{Offset: 3}, []string{"r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(List()) = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("List()[%d].ID = %s, want %s", i, got[i].ID, id)
				}
			}

			count, err := store.Count(ctx, run.ListFilter{
				Status:          tt.filter.Status,
				ErrorKinds:      tt.filter.ErrorKinds,
				FromTime:        tt.filter.FromTime,
				ToTime:          tt.filter.ToTime,
				QuestionPattern: tt.filter.QuestionPattern,
			})
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if tt.filter.Limit == 0 && tt.filter.Offset == 0 && count != int64(len(tt.want)) {
				t.Errorf("Count() = %d, want %d", count, len(tt.want))
			}
		})
	}
}

func TestRunStore_Summary(t *testing.T) {
	store := newTestRunStore(t)
	ctx := context.Background()

	for _, rec := range []run.Record{
		record("r1", "a", 0, ""),
		record("r2", "b", time.Minute, agent.KindBudgetExceeded),
		record("r3", "c", 2*time.Minute, agent.KindBudgetExceeded),
	} {
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error = %v", rec.ID, err)
		}
	}

	summary, err := store.Summary(ctx, run.ListFilter{})
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.TotalRuns != 3 {
		t.Errorf("TotalRuns = %d, want 3", summary.TotalRuns)
	}
	if summary.CompletedRuns != 1 || summary.FailedRuns != 2 {
		t.Errorf("Completed/Failed = %d/%d, want 1/2", summary.CompletedRuns, summary.FailedRuns)
	}
	if summary.ByErrorKind[agent.KindBudgetExceeded] != 2 {
		t.Errorf("ByErrorKind[budget_exceeded] = %d, want 2", summary.ByErrorKind[agent.KindBudgetExceeded])
	}
	if summary.AverageDuration != time.Second {
		t.Errorf("AverageDuration = %v, want %v", summary.AverageDuration, time.Second)
	}
}

func TestRunStore_Delete(t *testing.T) {
	store := newTestRunStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, record("gone", "q", 0, ""))
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "gone"); !errors.Is(err, run.ErrRunNotFound) {
		t.Errorf("Get() error = %v, want %v", err, run.ErrRunNotFound)
	}
}

func TestWithDSN(t *testing.T) {
	t.Parallel()

	cfg := sqlite.DefaultConfig()
	sqlite.WithDSN("")(&cfg)
	if cfg.DSN != sqlite.DefaultConfig().DSN {
		t.Errorf("DSN = %q, want the default after an empty override", cfg.DSN)
	}

	sqlite.WithDSN("/tmp/x.db")(&cfg)
	if cfg.DSN != "/tmp/x.db" {
		t.Errorf("DSN = %q, want /tmp/x.db", cfg.DSN)
	}
}
