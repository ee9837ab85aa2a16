package svdagerr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Match with errors.Is(err, svdagerr.ErrCycle) etc.
var (
	// ErrNotFound indicates a world directory or required config is absent
	// and no defaults are configured.
	ErrNotFound = errors.New("not found")

	// ErrCycle indicates a node graph contains a cycle.
	ErrCycle = errors.New("cycle detected in node graph")

	// ErrMissingInput indicates a node demanded a required input that no
	// producer supplied.
	ErrMissingInput = errors.New("missing required input")

	// ErrMissingOutput indicates the executor found no candidate for a
	// required sink output.
	ErrMissingOutput = errors.New("missing required output")

	// ErrConfig indicates registry misconfiguration, a malformed graph
	// descriptor, or a malformed material table.
	ErrConfig = errors.New("configuration error")

	// ErrCacheCorruption indicates a magic-number mismatch, truncated
	// buffer, or version mismatch in a cached file.
	ErrCacheCorruption = errors.New("cache corruption")

	// ErrInternal covers everything else: I/O failure, GPU submission
	// failure, and other unclassified failures.
	ErrInternal = errors.New("internal error")
)

// KindError wraps one of the sentinel kinds with the node/chunk context
// needed to diagnose a failure before it surfaces to the caller.
type KindError struct {
	Kind    error
	Context string // e.g. "node graph_exec_synthesis (kind=...)" or "chunk (3,0,-2)"
	Err     error
}

func (e *KindError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Context, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Context, e.Kind, e.Err)
}

func (e *KindError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap annotates err with kind and a human-readable context string.
func Wrap(kind error, context string, err error) error {
	return &KindError{Kind: kind, Context: context, Err: err}
}

// New builds a KindError without an underlying cause.
func New(kind error, context string) error {
	return &KindError{Kind: kind, Context: context}
}
