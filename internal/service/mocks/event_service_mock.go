package mocks

import (
	"context"
	"encoding/json"

	"go-gin-events/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockEventService struct {
	mock.Mock
}

func NewMockEventService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventService {
	m := &MockEventService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventService) FetchAll(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *MockEventService) Add(ctx context.Context, event model.NewEvent) (json.RawMessage, error) {
	args := m.Called(ctx, event)
	return rawResult(args)
}

func (m *MockEventService) Update(ctx context.Context, params model.UpdateEventParams) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	return rawResult(args)
}

func (m *MockEventService) Delete(ctx context.Context, id int) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	return rawResult(args)
}

func rawResult(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
