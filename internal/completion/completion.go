// Package completion wraps the external text-generation provider behind a
// small interface. The rest of the application only sees Completer and the
// opaque ErrGenerationFailed; provider-specific detail stays in this package
// (and in the server-side logs).
package completion

import (
	"context"
	"errors"
)

// ErrGenerationFailed is the single failure kind surfaced to callers for any
// provider-side problem: transport error, non-2xx status, quota, malformed
// response, or missing content. Details are logged, never returned.
var ErrGenerationFailed = errors.New("failed to generate response")

// Completer produces an assistant reply for a user prompt.
//
// Implementations must honor the provided context for cancellation and
// should bound the call with their own timeout as well.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
// Useful for stubbing the provider in tests.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
