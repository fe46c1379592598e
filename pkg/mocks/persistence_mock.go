package mocks

import (
	"context"

	"github.com/dukex/n8nsync/pkg/models"
	"github.com/dukex/n8nsync/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockWorkflowRepository is a mock implementation of persistence.WorkflowRepository.
type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) Save(ctx context.Context, category models.Category, stem string, snapshot *models.Snapshot) (persistence.Record, error) {
	args := m.Called(ctx, category, stem, snapshot)

	return args.Get(0).(persistence.Record), args.Error(1)
}

func (m *MockWorkflowRepository) Load(ctx context.Context, record persistence.Record) (*models.Snapshot, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Snapshot), args.Error(1)
}

func (m *MockWorkflowRepository) List(ctx context.Context, opts persistence.ListOptions) ([]persistence.Record, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]persistence.Record), args.Error(1)
}

func (m *MockWorkflowRepository) Find(ctx context.Context, target string) (persistence.Record, error) {
	args := m.Called(ctx, target)

	return args.Get(0).(persistence.Record), args.Error(1)
}

func (m *MockWorkflowRepository) StoredName(ctx context.Context, category models.Category, stem string) (string, bool, error) {
	args := m.Called(ctx, category, stem)

	return args.String(0), args.Bool(1), args.Error(2)
}
