package eval

import (
	"fmt"
)

// UnboundVariableError reports an unresolved identifier that got evaluated
// or called.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("variable `%s` is unbound", e.Name)
}

// StepLimitError reports that an evaluator ran out of its step budget.
type StepLimitError struct {
	Limit int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("reduction limit of %d steps exceeded", e.Limit)
}

// EvaluationError adds one frame of context to a failure. Frames nest,
// giving a readable chain from the statement down to the root cause.
type EvaluationError struct {
	Context string
	Err     error
}

func (e *EvaluationError) Error() string {
	return e.Context + ": " + e.Err.Error()
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// Trace lists the context frames from the outermost one inwards.
func (e *EvaluationError) Trace() []string {
	var trace []string
	var err error = e
	for {
		frame, ok := err.(*EvaluationError)
		if !ok {
			return trace
		}
		trace = append(trace, frame.Context)
		err = frame.Err
	}
}

func executing(name string, err error) error {
	return &EvaluationError{Context: fmt.Sprintf("failure executing `%s`", name), Err: err}
}

func calling(err error) error {
	return &EvaluationError{Context: "failure calling a function", Err: err}
}
