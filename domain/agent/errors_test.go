package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NewError(KindParse, errors.New("no action")))

	if !errors.Is(err, ErrParse) {
		t.Error("errors.Is(err, ErrParse) = false, want true")
	}
	if errors.Is(err, ErrBudgetExceeded) {
		t.Error("errors.Is(err, ErrBudgetExceeded) = true, want false")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(KindModelUnavailable, cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestErrorKind_MessagesAreDistinct(t *testing.T) {
	seen := make(map[string]ErrorKind)
	for _, k := range AllErrorKinds() {
		msg := k.Message()
		if msg == "" {
			t.Errorf("%s.Message() is empty", k)
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("%s and %s share message %q", k, prev, msg)
		}
		seen[msg] = k
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   ErrorKind
		wantOK bool
	}{
		{"nil", nil, "", false},
		{"typed", NewError(KindModelAuth, nil), KindModelAuth, true},
		{"wrapped", fmt.Errorf("x: %w", ErrSearchUnavailable), KindSearchUnavailable, true},
		{"context", context.Canceled, KindCanceled, true},
		{"plain", errors.New("boom"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("KindOf() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeQuestion(t *testing.T) {
	q, err := NormalizeQuestion("  What is the capital of France?\n")
	if err != nil {
		t.Fatalf("NormalizeQuestion() error = %v", err)
	}
	if q != "What is the capital of France?" {
		t.Errorf("NormalizeQuestion() = %q", q)
	}

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err := NormalizeQuestion(blank)
		if !errors.Is(err, ErrInputRejected) {
			t.Errorf("NormalizeQuestion(%q) error = %v, want ErrInputRejected", blank, err)
		}
	}
}
