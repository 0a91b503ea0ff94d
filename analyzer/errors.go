package analyzer

import (
	"errors"
	"fmt"
)

var (
	ErrMissingStepMeta   = errors.New("step meta is missing")
	ErrMissingParentStep = errors.New("parent step is missing")
	ErrMissingPipeline   = errors.New("parent pipeline is missing")
	ErrMissingStore      = errors.New("graph store is missing")
	ErrMissingFactory    = errors.New("node factory is missing")
)

// StepError reports a step that could not be analyzed
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("failed to analyze step: %v", e.Err)
	}
	return fmt.Sprintf("failed to analyze step %v: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// IsPrecondition reports whether err (or any error in its chain) is a failed analysis precondition
func IsPrecondition(err error) bool {
	for _, candidate := range []error{ErrMissingStepMeta, ErrMissingParentStep, ErrMissingPipeline, ErrMissingStore, ErrMissingFactory} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func stepError(step string, err error) error {
	return &StepError{Step: step, Err: err}
}
