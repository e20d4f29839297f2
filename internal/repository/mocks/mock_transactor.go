package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransactor records the lock key and runs fn inline unless an error is configured.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) InScope(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
