package mocks

import (
	"context"
	"encoding/json"

	"go-gin-events/internal/store"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockClient) Select(ctx context.Context, table string) (json.RawMessage, error) {
	args := m.Called(ctx, table)
	return rawResult(args)
}

func (m *MockClient) Insert(ctx context.Context, table string, record any) (json.RawMessage, error) {
	args := m.Called(ctx, table, record)
	return rawResult(args)
}

func (m *MockClient) Update(ctx context.Context, table string, record any, filter store.Filter) (json.RawMessage, error) {
	args := m.Called(ctx, table, record, filter)
	return rawResult(args)
}

func (m *MockClient) Delete(ctx context.Context, table string, filter store.Filter) (json.RawMessage, error) {
	args := m.Called(ctx, table, filter)
	return rawResult(args)
}

func rawResult(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
