package cmd

import (
	"fmt"
	"strings"

	"github.com/dukex/n8nsync/pkg/persistence/file"
)

var supportedPersistenceProviders = []string{"file"}

// NewRepository opens the workflows directory. A bare path or a file:// URL
// is accepted.
func NewRepository(workflowsDir string) (*file.WorkflowRepository, error) {
	provider := parsePersistenceProvider(workflowsDir)
	if provider != "file" {
		return nil, fmt.Errorf("unsupported workflows location %q: only %v are supported", workflowsDir, supportedPersistenceProviders)
	}

	return file.NewWorkflowRepository(workflowsDir), nil
}

func parsePersistenceProvider(location string) string {
	scheme, _, found := strings.Cut(location, "://")
	if !found {
		return "file"
	}

	return scheme
}
