// Package services reconciles local workflow snapshots with a remote n8n instance.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/n8nsync/pkg/persistence"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrNameRequired     = errors.New("workflow name is required")
	ErrSameName         = errors.New("new name equals the current name")

	// Batch outcomes. The accompanying result still carries every item.
	ErrExportIncomplete = errors.New("some workflows could not be exported")
	ErrPartialImport    = errors.New("some workflows failed to import")
	ErrInvalidFiles     = errors.New("some workflow files are invalid")
)

// NotFoundError reports a name that matched no remote workflow, with every
// name that was available.
type NotFoundError struct {
	Op         string
	Name       string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: workflow %q not found", e.Op, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrWorkflowNotFound
}

// IsNotFound reports whether err means a remote workflow or local file was missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) || persistence.IsRecordNotFound(err)
}

// CandidatesOf returns the alternatives attached to a not-found or ambiguous error.
func CandidatesOf(err error) []string {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Candidates
	}

	return persistence.CandidatesOf(err)
}

// ItemError ties a failure to the workflow it happened on.
type ItemError struct {
	Path string
	Name string
	Err  error
}

func (e *ItemError) Error() string {
	label := e.Path
	if label == "" {
		label = e.Name
	}

	return fmt.Sprintf("%s: %v", label, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func batchError(sentinel error, failures []*ItemError) error {
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Error())
	}

	return fmt.Errorf("%w (%d): %s", sentinel, len(failures), strings.Join(msgs, "; "))
}
