package builder

import (
	"errors"
	"fmt"
)

// Build failures are terminal. A failed step aborts the whole sequence,
// nothing is retried, and no artifact is published.
var (
	ErrUnresolvableBaseImage = errors.New("base image reference cannot be resolved")
	ErrMissingBuildFile      = errors.New("missing build-context file")
	ErrDependencyInstall     = errors.New("dependency installation failed")
	ErrBuildFailed           = errors.New("image build failed")
)

// StepError identifies which provisioning step aborted a build.
type StepError struct {
	Step  string
	Index int // 1-based position in the sequence
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
