// Package persistence provides standardized error types for the local workflow repository.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrRecordNotFound indicates no local workflow file matched.
	ErrRecordNotFound = errors.New("workflow file not found")

	// ErrAmbiguousMatch indicates more than one local workflow file matched.
	ErrAmbiguousMatch = errors.New("workflow file match is ambiguous")

	// ErrInvalidSnapshot indicates a workflow file is not a valid snapshot envelope.
	ErrInvalidSnapshot = errors.New("invalid workflow snapshot")

	// ErrInvalidCategory indicates a category outside the fixed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidFilter indicates a malformed path filter.
	ErrInvalidFilter = errors.New("invalid path filter")
)

// RecordError wraps repository errors with the file they concern.
type RecordError struct {
	Op         string   // Operation being performed (e.g., "Load", "Save", "Find")
	Path       string   // Path relative to the repository root
	Err        error    // Underlying error
	Candidates []string // Files the caller may have meant, if any
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for record errors.
func (e *RecordError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRecordError creates a new record error with context.
func NewRecordError(op, path string, err error) *RecordError {
	return &RecordError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// IsRecordNotFound checks if an error indicates no local file matched.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsAmbiguousMatch checks if an error indicates several local files matched.
func IsAmbiguousMatch(err error) bool {
	return errors.Is(err, ErrAmbiguousMatch)
}

// IsInvalidSnapshot checks if an error indicates a malformed workflow file.
func IsInvalidSnapshot(err error) bool {
	return errors.Is(err, ErrInvalidSnapshot)
}

// CandidatesOf returns the candidate list carried by a RecordError, if any.
func CandidatesOf(err error) []string {
	var recordErr *RecordError
	if errors.As(err, &recordErr) {
		return recordErr.Candidates
	}

	return nil
}
