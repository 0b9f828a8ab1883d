// Package probe implements ordered fallback across a list of same-purpose
// candidates (network endpoints, executable names). Candidates are tried in
// order; the first success wins and no further candidates are attempted.
package probe

import (
	"context"
	"fmt"
	"strings"
)

// Attempt is a single named candidate.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// ExhaustedError is returned when every candidate failed. It records the
// candidate names in the order they were tried.
type ExhaustedError struct {
	Attempts []string
	Errs     []error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all candidates failed: %s", strings.Join(e.Attempts, ", "))
}

// Unwrap exposes the per-candidate errors for errors.Is/As.
func (e *ExhaustedError) Unwrap() []error {
	return e.Errs
}

// First runs the attempts in order and returns the first successful result
// along with the name of the candidate that produced it. If the context is
// cancelled between attempts, the context error is returned immediately.
// When all attempts fail the error is an *ExhaustedError.
func First[T any](ctx context.Context, attempts []Attempt[T]) (T, string, error) {
	var zero T
	exhausted := &ExhaustedError{}
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}
		result, err := a.Run(ctx)
		if err == nil {
			return result, a.Name, nil
		}
		exhausted.Attempts = append(exhausted.Attempts, a.Name)
		exhausted.Errs = append(exhausted.Errs, fmt.Errorf("%s: %w", a.Name, err))
	}
	return zero, "", exhausted
}
