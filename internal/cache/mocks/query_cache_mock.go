package mocks

import (
	"context"
	"encoding/json"

	"go-gin-events/internal/cache"

	"github.com/stretchr/testify/mock"
)

type MockQueryCache struct {
	mock.Mock
}

func NewMockQueryCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQueryCache {
	m := &MockQueryCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Query 沒有設定 Return 時直接呼叫 fetch，模擬每次都未命中
func (m *MockQueryCache) Query(ctx context.Context, key cache.Key, fetch cache.Fetcher) (json.RawMessage, error) {
	args := m.Called(ctx, key, fetch)
	if len(args) == 0 {
		return fetch(ctx)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockQueryCache) Invalidate(ctx context.Context, key cache.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockQueryCache) Subscribe(ctx context.Context, key cache.Key) (<-chan cache.Key, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan cache.Key), args.Error(1)
}
