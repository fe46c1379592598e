package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSyncer_ExportThenImport_UpdatesSameRemote(t *testing.T) {
	syncer, remote, _ := newTestSyncer(t)

	remoteList := []*models.Workflow{remoteWorkflow(t, "wf-1", "Xero Sync")}
	remote.On("ListWorkflows", mock.Anything).Return(remoteList, nil)
	remote.On("UpdateWorkflow", mock.Anything, "wf-1", specNamed("Xero Sync")).
		Return(&models.Workflow{ID: "wf-1", Name: "Xero Sync"}, nil)

	_, err := syncer.Export(context.Background())
	require.NoError(t, err)

	result, err := syncer.ImportAll(context.Background(), ImportOptions{})
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, ImportedWorkflow{ID: "wf-1", Name: "Xero Sync", Path: "finance/xero-sync.json", Action: ActionUpdate}, result.Updated[0])

	remote.AssertNotCalled(t, "CreateWorkflow", mock.Anything, mock.Anything)
	remote.AssertExpectations(t)
}

func TestSyncer_ImportAll_IsolatesFailures(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	ctx := context.Background()

	for stem, name := range map[string]string{"invoice-a": "Invoice A", "invoice-b": "Invoice B", "invoice-c": "Invoice C"} {
		_, err := repo.Save(ctx, models.CategoryFinance, stem, localSnapshot(t, name))
		require.NoError(t, err)
	}

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{}, nil)
	remote.On("CreateWorkflow", mock.Anything, specNamed("Invoice A")).Return(&models.Workflow{ID: "new-a"}, nil)
	remote.On("CreateWorkflow", mock.Anything, specNamed("Invoice B")).Return(nil, errors.New("HTTP 400: bad request"))
	remote.On("CreateWorkflow", mock.Anything, specNamed("Invoice C")).Return(&models.Workflow{ID: "new-c"}, nil)

	result, err := syncer.ImportAll(ctx, ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialImport)
	require.NotNil(t, result)

	require.Len(t, result.Created, 2)
	assert.Equal(t, "new-a", result.Created[0].ID)
	assert.Equal(t, "new-c", result.Created[1].ID)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "finance/invoice-b.json", result.Failed[0].Path)
	assert.Contains(t, result.Failed[0].Error(), "bad request")

	remote.AssertNumberOfCalls(t, "CreateWorkflow", 3)
}

func TestSyncer_ImportAll_InvalidFileDoesNotStopRun(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, models.CategoryAdmin, "broken", &models.Snapshot{Name: "Broken"})
	require.NoError(t, err)
	writeFile(t, repo.Path(persistence.Record{Category: models.CategoryAdmin, Filename: "broken.json"}), `{"name": 12}`)

	_, err = repo.Save(ctx, models.CategoryUtils, "cleanup", localSnapshot(t, "Cleanup"))
	require.NoError(t, err)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{{ID: "r-1", Name: "Cleanup"}}, nil)
	remote.On("UpdateWorkflow", mock.Anything, "r-1", specNamed("Cleanup")).Return(&models.Workflow{ID: "r-1"}, nil)

	result, err := syncer.ImportAll(ctx, ImportOptions{})
	require.ErrorIs(t, err, ErrPartialImport)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "admin/broken.json", result.Failed[0].Path)
	assert.True(t, persistence.IsInvalidSnapshot(result.Failed[0]))
	assert.Len(t, result.Updated, 1)
}

func TestSyncer_ImportAll_SkipsAndFilters(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		opts        ImportOptions
		wantCreated []string
		wantUpdated []string
		wantSkipped map[string]string
	}{
		{
			name:        "all files",
			opts:        ImportOptions{},
			wantCreated: []string{"shopify/shopify-cart.json"},
			wantUpdated: []string{"finance/xero-sync.json"},
			wantSkipped: map[string]string{"utils/todo.json": "skip-placeholder"},
		},
		{
			name:        "update only",
			opts:        ImportOptions{UpdateOnly: true},
			wantUpdated: []string{"finance/xero-sync.json"},
			wantSkipped: map[string]string{
				"shopify/shopify-cart.json": "skip-no-match",
				"utils/todo.json":           "skip-placeholder",
			},
		},
		{
			name:        "path fragment",
			opts:        ImportOptions{Filter: "finance/"},
			wantUpdated: []string{"finance/xero-sync.json"},
		},
		{
			name:        "glob",
			opts:        ImportOptions{Filter: "shop*/*.json"},
			wantCreated: []string{"shopify/shopify-cart.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer, remote, repo := newTestSyncer(t)

			_, err := repo.Save(ctx, models.CategoryFinance, "xero-sync", localSnapshot(t, "Xero Sync"))
			require.NoError(t, err)
			_, err = repo.Save(ctx, models.CategoryShopify, "shopify-cart", localSnapshot(t, "Shopify Cart"))
			require.NoError(t, err)
			_, err = repo.Save(ctx, models.CategoryUtils, "todo", &models.Snapshot{Name: "Todo"})
			require.NoError(t, err)

			remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{{ID: "r-1", Name: "Xero Sync"}}, nil)
			remote.On("UpdateWorkflow", mock.Anything, "r-1", specNamed("Xero Sync")).Return(&models.Workflow{ID: "r-1"}, nil)
			remote.On("CreateWorkflow", mock.Anything, specNamed("Shopify Cart")).Return(&models.Workflow{ID: "r-2"}, nil)

			result, err := syncer.ImportAll(ctx, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCreated, paths(result.Created))
			assert.Equal(t, tt.wantUpdated, paths(result.Updated))

			skipped := map[string]string{}
			for _, s := range result.Skipped {
				skipped[s.Path] = s.Reason
			}

			if tt.wantSkipped == nil {
				tt.wantSkipped = map[string]string{}
			}

			assert.Equal(t, tt.wantSkipped, skipped)
		})
	}
}

func TestSyncer_ImportAll_DryRunMakesNoWrites(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, models.CategoryFinance, "xero-sync", localSnapshot(t, "Xero Sync"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, models.CategoryShopify, "shopify-cart", localSnapshot(t, "Shopify Cart"))
	require.NoError(t, err)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{{ID: "r-1", Name: "Xero Sync"}}, nil)

	result, err := syncer.ImportAll(ctx, ImportOptions{DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	assert.Empty(t, result.Updated)
	assert.Equal(t, []ImportedWorkflow{
		{ID: "r-1", Name: "Xero Sync", Path: "finance/xero-sync.json", Action: ActionUpdate},
		{Name: "Shopify Cart", Path: "shopify/shopify-cart.json", Action: ActionCreate},
	}, result.Planned)

	remote.AssertNotCalled(t, "CreateWorkflow", mock.Anything, mock.Anything)
	remote.AssertNotCalled(t, "UpdateWorkflow", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncer_ImportAll_RemoteListFailure(t *testing.T) {
	syncer, remote, _ := newTestSyncer(t)

	remote.On("ListWorkflows", mock.Anything).Return(nil, errors.New("timeout"))

	result, err := syncer.ImportAll(context.Background(), ImportOptions{})
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestSyncer_ImportAll_InvalidFilter(t *testing.T) {
	syncer, remote, _ := newTestSyncer(t)

	_, err := syncer.ImportAll(context.Background(), ImportOptions{Filter: "sales/[a"})
	require.ErrorIs(t, err, persistence.ErrInvalidFilter)
	remote.AssertNotCalled(t, "ListWorkflows", mock.Anything)
}

func paths(items []ImportedWorkflow) []string {
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Path)
	}

	return out
}
