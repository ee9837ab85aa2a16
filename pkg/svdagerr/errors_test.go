package svdagerr

import (
	"errors"
	"strings"
	"testing"
)

func TestKindErrorIsMatchesSentinel(t *testing.T) {
	err := Wrap(ErrCycle, "node B (kind=noise)", errors.New("dfs visited B while on stack"))

	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected errors.Is to match ErrCycle")
	}
	if errors.Is(err, ErrMissingInput) {
		t.Fatalf("did not expect errors.Is to match an unrelated kind")
	}
}

func TestKindErrorWithoutCause(t *testing.T) {
	err := New(ErrNotFound, "world acme-craft")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is to match ErrNotFound")
	}
	if err.Error() == "" {
		t.Fatalf("expected a non-empty error message")
	}
}

func TestKindErrorMessageIncludesContext(t *testing.T) {
	err := Wrap(ErrCacheCorruption, "chunk (3,0,-2)", errors.New("bad magic"))
	msg := err.Error()
	if msg == "" {
		t.Fatalf("expected non-empty message")
	}
	// Context must be present for operator debugging.
	if !strings.Contains(msg, "chunk (3,0,-2)") {
		t.Fatalf("expected message to include context, got %q", msg)
	}
	if !errors.Is(err, ErrCacheCorruption) {
		t.Fatalf("expected errors.Is to succeed")
	}
}
