package trade

import (
	"fmt"
	"strings"
)

// Violation is one failed validation rule: which field, which constraint.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError reports one or more rejected input fields. Nothing is
// persisted and no audit entry is written when validation fails.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "invalid trade: " + strings.Join(msgs, "; ")
}

// NotFoundError reports a lookup for a trade id that does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("trade %d not found", e.ID)
}

// ConflictError reports an optimistic-concurrency failure: the trade was
// modified between the caller's read and its update. The caller should
// re-read and retry.
type ConflictError struct {
	ID       int64
	Expected int64
	Actual   int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("trade %d modified concurrently (version %d, expected %d): re-read and retry",
		e.ID, e.Actual, e.Expected)
}

// UniquenessError reports a duplicate trade reference reaching the
// store. The allocator makes this structurally impossible, so seeing one
// means an allocator bug, not a retryable condition.
type UniquenessError struct {
	Reference string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("duplicate trade reference %q: sequence allocator invariant violated", e.Reference)
}
