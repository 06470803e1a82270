// Package stage models the outcome of optional pipeline stages.
//
// Optional stages (metadata embedding, code signing, UI build) can finish
// three ways: they ran and succeeded, they were intentionally not
// applicable, or they were attempted and failed. Collapsing the last two
// into a boolean hides real failures behind intentional skips, so each
// stage reports an Outcome instead.
package stage

import "fmt"

// Status is the result classification of an optional stage.
type Status int

const (
	// Succeeded means the stage ran to completion.
	Succeeded Status = iota
	// Skipped means the stage was intentionally not applicable.
	Skipped
	// Failed means the stage was attempted and did not complete.
	Failed
)

// Outcome describes how an optional stage finished.
type Outcome struct {
	Status Status
	Reason string
}

// Succeed returns a successful outcome.
func Succeed() Outcome {
	return Outcome{Status: Succeeded}
}

// Skip returns a skipped outcome with the reason the stage did not apply.
func Skip(format string, args ...any) Outcome {
	return Outcome{Status: Skipped, Reason: fmt.Sprintf(format, args...)}
}

// Fail returns a failed outcome with the reason the attempt failed.
func Fail(format string, args ...any) Outcome {
	return Outcome{Status: Failed, Reason: fmt.Sprintf(format, args...)}
}

// String renders the outcome for logs.
func (o Outcome) String() string {
	switch o.Status {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped: " + o.Reason
	case Failed:
		return "failed: " + o.Reason
	default:
		return "unknown"
	}
}
