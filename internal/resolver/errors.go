package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrRewriteAborted is matched by every RewriteError.
	ErrRewriteAborted = errors.New("dependency rewrite aborted")

	// ErrNoIndex means Intercept was called without a workspace index.
	ErrNoIndex = errors.New("no workspace index")
)

// RewriteError reports the dependency whose decision could not be computed.
// The dependency list it accompanies is the caller's original, unmodified.
type RewriteError struct {
	Dependency string
	Position   int
	Err        error
}

func (e *RewriteError) Error() string {
	name := e.Dependency
	if name == "" {
		name = fmt.Sprintf("#%d", e.Position)
	}
	return fmt.Sprintf("dependency rewrite aborted at %s: %v; no dependencies were changed", name, e.Err)
}

func (e *RewriteError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRewriteAborted) true for any *RewriteError.
func (e *RewriteError) Is(target error) bool { return target == ErrRewriteAborted }
