package mocks

import (
	"context"

	"designator/internal/catalog"
	"designator/internal/model"
	"designator/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocTypeService struct {
	mock.Mock
}

func (m *MockDocTypeService) Create(ctx context.Context, in service.CreateDocTypeInput) (*model.CustomDocType, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockDocTypeService) List(ctx context.Context) ([]model.CustomDocType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomDocType), args.Error(1)
}

func (m *MockDocTypeService) Get(ctx context.Context, id string) (*model.CustomDocType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockDocTypeService) Rename(ctx context.Context, id, name string) (*model.CustomDocType, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CustomDocType), args.Error(1)
}

func (m *MockDocTypeService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocTypeService) Catalog(ctx context.Context, std model.Standard) ([]catalog.Entry, error) {
	args := m.Called(ctx, std)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Entry), args.Error(1)
}
