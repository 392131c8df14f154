// Package runner executes learner-submitted Python source and captures its
// output. Failures are returned as errors; callers render them as text and
// never propagate them to the transport.
package runner

import "context"

// Runner executes source text and returns captured stdout.
type Runner interface {
	Run(ctx context.Context, source string) (string, error)
}
