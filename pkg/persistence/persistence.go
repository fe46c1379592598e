// Package persistence provides the local workflow repository abstraction.
package persistence

import (
	"context"
	"path"

	"github.com/dukex/n8nsync/pkg/models"
)

// Record locates one snapshot file in the repository.
type Record struct {
	Category models.Category `json:"category" validate:"required"`
	Filename string          `json:"filename" validate:"required"`
}

// RelativePath returns "<category>/<filename>".
func (r Record) RelativePath() string {
	return path.Join(string(r.Category), r.Filename)
}

// ListOptions narrows a repository listing.
type ListOptions struct {
	// Filter is a path fragment matched against RelativePath. When it contains
	// glob metacharacters it is matched as a doublestar pattern instead.
	Filter string
}

// WorkflowRepository reads and writes sanitized workflow snapshots.
type WorkflowRepository interface {
	// Save overwrites <category>/<stem>.json with the snapshot.
	Save(ctx context.Context, category models.Category, stem string, snapshot *models.Snapshot) (Record, error)

	// Load reads and validates one snapshot.
	Load(ctx context.Context, record Record) (*models.Snapshot, error)

	// List returns records in category order, then filename order.
	List(ctx context.Context, opts ListOptions) ([]Record, error)

	// Find resolves a "category/name" target to exactly one record.
	Find(ctx context.Context, target string) (Record, error)

	// StoredName returns the workflow name held by an existing file, if the
	// file exists.
	StoredName(ctx context.Context, category models.Category, stem string) (string, bool, error)
}
