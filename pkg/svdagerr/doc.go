// Package svdagerr defines the error kinds the core pipeline distinguishes.
//
// Callers identify a kind with errors.Is against the package's sentinel
// values; the wrapped error still carries node/chunk context in its message
// via the standard fmt.Errorf("...: %w", err) wrapping style.
package svdagerr
