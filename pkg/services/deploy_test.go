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

func seedDeployRepo(t *testing.T, repo persistence.WorkflowRepository) {
	t.Helper()

	ctx := context.Background()

	_, err := repo.Save(ctx, models.CategorySales, "tner-sync-invoices", localSnapshot(t, "TNER Sync Invoices"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, models.CategorySales, "tner-sync-orders", localSnapshot(t, "TNER Sync Orders"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, models.CategoryFinance, "xero-sync", localSnapshot(t, "Xero Sync"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, models.CategoryUtils, "draft", &models.Snapshot{Name: "Draft"})
	require.NoError(t, err)
}

func TestSyncer_Deploy_CreateAndActivate(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	seedDeployRepo(t, repo)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{}, nil)
	remote.On("CreateWorkflow", mock.Anything, specNamed("Xero Sync")).Return(&models.Workflow{ID: "new-1", Name: "Xero Sync"}, nil)
	remote.On("ActivateWorkflow", mock.Anything, "new-1").Return(nil)

	result, err := syncer.Deploy(context.Background(), "finance/xero", DeployOptions{Activate: true})
	require.NoError(t, err)

	assert.Equal(t, ActionCreate, result.Action)
	assert.Equal(t, "new-1", result.ID)
	assert.Equal(t, "finance/xero-sync.json", result.Path)
	assert.True(t, result.Activated)
	remote.AssertExpectations(t)
}

func TestSyncer_Deploy_UpdateSkipsActivationWhenActive(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	seedDeployRepo(t, repo)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{{ID: "r-9", Name: "Xero Sync", Active: true}}, nil)
	remote.On("UpdateWorkflow", mock.Anything, "r-9", specNamed("Xero Sync")).Return(&models.Workflow{ID: "r-9"}, nil)

	result, err := syncer.Deploy(context.Background(), "finance/xero-sync.json", DeployOptions{Activate: true})
	require.NoError(t, err)

	assert.Equal(t, ActionUpdate, result.Action)
	assert.Equal(t, "r-9", result.ID)
	assert.True(t, result.AlreadyActive)
	assert.False(t, result.Activated)
	remote.AssertNotCalled(t, "ActivateWorkflow", mock.Anything, mock.Anything)
}

func TestSyncer_Deploy_UpdateWithoutActivate(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	seedDeployRepo(t, repo)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{{ID: "r-1", Name: "TNER Sync Orders"}}, nil)
	remote.On("UpdateWorkflow", mock.Anything, "r-1", specNamed("TNER Sync Orders")).Return(&models.Workflow{ID: "r-1"}, nil)

	result, err := syncer.Deploy(context.Background(), "sales/orders", DeployOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sales/tner-sync-orders.json", result.Path)
	remote.AssertNotCalled(t, "ActivateWorkflow", mock.Anything, mock.Anything)
}

func TestSyncer_Deploy_ResolutionFailures(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		check          func(error) bool
		wantCandidates []string
	}{
		{
			name:           "nothing matches",
			target:         "sales/hoz",
			check:          persistence.IsRecordNotFound,
			wantCandidates: []string{"finance/xero-sync", "sales/tner-sync-invoices", "sales/tner-sync-orders", "utils/draft"},
		},
		{
			name:           "ambiguous",
			target:         "sales/tner",
			check:          persistence.IsAmbiguousMatch,
			wantCandidates: []string{"sales/tner-sync-invoices.json", "sales/tner-sync-orders.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer, remote, repo := newTestSyncer(t)
			seedDeployRepo(t, repo)

			result, err := syncer.Deploy(context.Background(), tt.target, DeployOptions{})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, tt.check(err))
			assert.Equal(t, tt.wantCandidates, CandidatesOf(err))
			remote.AssertNotCalled(t, "ListWorkflows", mock.Anything)
		})
	}
}

func TestSyncer_Deploy_Placeholder(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	seedDeployRepo(t, repo)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{}, nil)

	result, err := syncer.Deploy(context.Background(), "utils/draft", DeployOptions{Activate: true})
	require.NoError(t, err)
	assert.Equal(t, ActionSkipPlaceholder, result.Action)
	remote.AssertNotCalled(t, "CreateWorkflow", mock.Anything, mock.Anything)
}

func TestSyncer_Deploy_RemoteFailureIsFatal(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	seedDeployRepo(t, repo)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{}, nil)
	remote.On("CreateWorkflow", mock.Anything, mock.Anything).Return(nil, errors.New("HTTP 500"))

	result, err := syncer.Deploy(context.Background(), "finance/xero", DeployOptions{Activate: true})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "HTTP 500")
	remote.AssertNotCalled(t, "ActivateWorkflow", mock.Anything, mock.Anything)
}

func TestSyncer_Deploy_ActivationFailure(t *testing.T) {
	syncer, remote, repo := newTestSyncer(t)
	seedDeployRepo(t, repo)

	remote.On("ListWorkflows", mock.Anything).Return([]*models.Workflow{{ID: "r-9", Name: "Xero Sync"}}, nil)
	remote.On("UpdateWorkflow", mock.Anything, "r-9", mock.Anything).Return(&models.Workflow{ID: "r-9"}, nil)
	remote.On("ActivateWorkflow", mock.Anything, "r-9").Return(errors.New("workflow has no trigger"))

	result, err := syncer.Deploy(context.Background(), "finance/xero", DeployOptions{Activate: true})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, ActionUpdate, result.Action)
	assert.False(t, result.Activated)
	assert.Contains(t, err.Error(), "no trigger")
}
