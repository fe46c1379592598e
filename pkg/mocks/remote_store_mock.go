package mocks

import (
	"context"

	"github.com/dukex/n8nsync/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockRemoteStore is a mock implementation of services.RemoteStore.
type MockRemoteStore struct {
	mock.Mock
}

func (m *MockRemoteStore) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Workflow), args.Error(1)
}

func (m *MockRemoteStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockRemoteStore) CreateWorkflow(ctx context.Context, spec models.WorkflowSpec) (*models.Workflow, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockRemoteStore) UpdateWorkflow(ctx context.Context, id string, spec models.WorkflowSpec) (*models.Workflow, error) {
	args := m.Called(ctx, id, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Workflow), args.Error(1)
}

func (m *MockRemoteStore) ActivateWorkflow(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
