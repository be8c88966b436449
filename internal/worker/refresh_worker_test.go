package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-gin-events/internal/cache"
	cacheMocks "go-gin-events/internal/cache/mocks"
	"go-gin-events/internal/model"
	serviceMocks "go-gin-events/internal/service/mocks"
	"go-gin-events/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRefreshWorker_Start(t *testing.T) {
	t.Run("Refetches on every invalidation", func(t *testing.T) {
		ctx := context.Background()
		eventService := serviceMocks.NewMockEventService(t)
		queryCache := cacheMocks.NewMockQueryCache(t)
		invalidations := make(chan cache.Key)
		queryCache.On("Subscribe", ctx, cache.EventsKey).Return((<-chan cache.Key)(invalidations), nil).Once()

		var calls atomic.Int32
		eventService.On("FetchAll", ctx).
			Run(func(mock.Arguments) { calls.Add(1) }).
			Return([]*model.Event{}, nil).Twice()

		w := worker.NewRefreshWorker(eventService, queryCache)
		require.NoError(t, w.Start(ctx))

		invalidations <- cache.EventsKey
		invalidations <- cache.EventsKey
		close(invalidations)

		select {
		case <-w.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
		}
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Refetch failure does not stop the worker", func(t *testing.T) {
		ctx := context.Background()
		eventService := serviceMocks.NewMockEventService(t)
		queryCache := cacheMocks.NewMockQueryCache(t)
		invalidations := make(chan cache.Key)
		queryCache.On("Subscribe", ctx, cache.EventsKey).Return((<-chan cache.Key)(invalidations), nil).Once()
		eventService.On("FetchAll", ctx).Return(nil, errors.New("JWT expired")).Once()
		eventService.On("FetchAll", ctx).Return([]*model.Event{{ID: 1}}, nil).Once()

		w := worker.NewRefreshWorker(eventService, queryCache)
		require.NoError(t, w.Start(ctx))

		invalidations <- cache.EventsKey
		invalidations <- cache.EventsKey
		close(invalidations)

		select {
		case <-w.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
		}
	})

	t.Run("Failed - subscribe error", func(t *testing.T) {
		ctx := context.Background()
		eventService := serviceMocks.NewMockEventService(t)
		queryCache := cacheMocks.NewMockQueryCache(t)
		queryCache.On("Subscribe", ctx, cache.EventsKey).Return(nil, errors.New("redis: connection refused")).Once()

		w := worker.NewRefreshWorker(eventService, queryCache)
		err := w.Start(ctx)

		assert.EqualError(t, err, "redis: connection refused")
		_, open := <-w.Done()
		assert.False(t, open)
		eventService.AssertNotCalled(t, "FetchAll", mock.Anything)
	})
}

func TestRefreshWorker_WarmsRedisSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	queryCache := cache.NewRedisQueryCache(rdb, time.Minute)

	eventService := serviceMocks.NewMockEventService(t)
	eventService.On("FetchAll", mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = queryCache.Query(args.Get(0).(context.Context), cache.EventsKey, func(context.Context) (json.RawMessage, error) {
				return json.RawMessage(`[{"id":7}]`), nil
			})
		}).
		Return([]*model.Event{{ID: 7}}, nil).Once()

	w := worker.NewRefreshWorker(eventService, queryCache)
	require.NoError(t, w.Start(ctx))

	require.NoError(t, queryCache.Invalidate(ctx, cache.EventsKey))

	assert.Eventually(t, func() bool {
		return mr.Exists("query:events")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
