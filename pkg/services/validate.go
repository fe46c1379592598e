package services

import (
	"context"
	"fmt"

	"github.com/dukex/n8nsync/pkg/layout"
	"github.com/dukex/n8nsync/pkg/persistence"
)

// ValidatedFile is a file that loaded cleanly.
type ValidatedFile struct {
	Path        string
	Name        string
	Placeholder bool

	// ExpectedPath is where an export would write this workflow. It differs
	// from Path for files that were moved or renamed by hand.
	ExpectedPath string
}

// Misplaced reports whether the file lives somewhere export would not put it.
func (f ValidatedFile) Misplaced() bool {
	return f.ExpectedPath != f.Path
}

type ValidateResult struct {
	Valid   []ValidatedFile
	Invalid []*ItemError
}

// ValidateFiles loads every matching local file without touching the network.
func ValidateFiles(ctx context.Context, repo persistence.WorkflowRepository, filter string) (*ValidateResult, error) {
	records, err := repo.List(ctx, persistence.ListOptions{Filter: filter})
	if err != nil {
		return nil, fmt.Errorf("failed to list local workflows: %w", err)
	}

	result := &ValidateResult{}

	for _, record := range records {
		path := record.RelativePath()

		snapshot, err := repo.Load(ctx, record)
		if err != nil {
			result.Invalid = append(result.Invalid, &ItemError{Path: path, Err: err})

			continue
		}

		result.Valid = append(result.Valid, ValidatedFile{
			Path:         path,
			Name:         snapshot.Name,
			Placeholder:  snapshot.IsPlaceholder(),
			ExpectedPath: string(layout.Categorize(snapshot.Name)) + "/" + layout.DeriveFilename(snapshot.Name),
		})
	}

	if len(result.Invalid) > 0 {
		return result, batchError(ErrInvalidFiles, result.Invalid)
	}

	return result, nil
}
