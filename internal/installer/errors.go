package installer

import (
	"errors"
	"fmt"
)

var (
	// ErrCleanup marks a failure removing compiled artifacts or the stale
	// installed copy.
	ErrCleanup = errors.New("cleanup failed")

	// ErrCopy marks a failure copying the source tree.
	ErrCopy = errors.New("copy failed")

	// ErrSameLocation is returned when the destination package directory is
	// the source directory itself.
	ErrSameLocation = errors.New("source and destination are the same directory")
)

// Step identifies one stage of an install run.
type Step int

const (
	StepResolveSource Step = iota + 1
	StepResolveDestination
	StepDecide
	StepCleanSource
	StepRemoveStale
	StepCopy
)

func (s Step) String() string {
	switch s {
	case StepResolveSource:
		return "resolve-source"
	case StepResolveDestination:
		return "resolve-destination"
	case StepDecide:
		return "decide"
	case StepCleanSource:
		return "clean-source"
	case StepRemoveStale:
		return "remove-stale"
	case StepCopy:
		return "copy"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// StepError wraps the error of a failed step.
type StepError struct {
	Step Step
	Path string
	Err  error
}

func (e *StepError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Step, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
