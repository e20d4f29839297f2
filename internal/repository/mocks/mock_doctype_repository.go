package mocks

import (
	"context"

	"designator/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockCustomDocTypeRepository struct {
	mock.Mock
}

func (m *MockCustomDocTypeRepository) Create(ctx context.Context, t *model.CustomDocType) (*model.CustomDocType, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockCustomDocTypeRepository) FindByID(ctx context.Context, id string) (*model.CustomDocType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockCustomDocTypeRepository) FindByCode(ctx context.Context, code string) (*model.CustomDocType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockCustomDocTypeRepository) List(ctx context.Context) ([]model.CustomDocType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomDocType), args.Error(1)
}

func (m *MockCustomDocTypeRepository) UpdateName(ctx context.Context, id, name string) (*model.CustomDocType, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockCustomDocTypeRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
