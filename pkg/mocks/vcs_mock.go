package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockVersionControl is a mock implementation of services.VersionControl.
type MockVersionControl struct {
	mock.Mock
}

func (m *MockVersionControl) Commit(ctx context.Context, path, message string) (bool, error) {
	args := m.Called(ctx, path, message)

	return args.Bool(0), args.Error(1)
}

func (m *MockVersionControl) Push(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
