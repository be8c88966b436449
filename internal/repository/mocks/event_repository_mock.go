package mocks

import (
	"context"
	"encoding/json"

	"go-gin-events/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

func NewMockEventRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventRepository {
	m := &MockEventRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventRepository) FetchAll(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return rawResult(args)
}

func (m *MockEventRepository) Insert(ctx context.Context, event model.NewEvent) (json.RawMessage, error) {
	args := m.Called(ctx, event)
	return rawResult(args)
}

func (m *MockEventRepository) Update(ctx context.Context, params model.UpdateEventParams) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	return rawResult(args)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	return rawResult(args)
}

func rawResult(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
