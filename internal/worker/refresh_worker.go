package worker

import (
	"context"

	"go-gin-events/internal/cache"
	"go-gin-events/internal/service"
	"go-gin-events/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RefreshWorker interface {
	// 訂閱 events 失效通知，每次失效後在背景重新讀取
	Start(ctx context.Context) error
}

type RefreshWorkerImpl struct {
	id      string
	service service.EventService
	cache   cache.QueryCache
	done    chan struct{}
}

var _ RefreshWorker = (*RefreshWorkerImpl)(nil)

func NewRefreshWorker(service service.EventService, queryCache cache.QueryCache) *RefreshWorkerImpl {
	return &RefreshWorkerImpl{
		id:      uuid.New().String(),
		service: service,
		cache:   queryCache,
		done:    make(chan struct{}),
	}
}

// Start 訂閱成功後立即返回；ctx 結束時停止，Done 會被關閉
func (w *RefreshWorkerImpl) Start(ctx context.Context) error {
	invalidations, err := w.cache.Subscribe(ctx, cache.EventsKey)
	if err != nil {
		close(w.done)
		return err
	}

	log := logger.WithComponent("worker").With(zap.String("worker_id", w.id))

	go func() {
		defer close(w.done)
		for range invalidations {
			// 每次失效都重新讀取一次；失敗只記錄，下一次讀取會再試
			events, err := w.service.FetchAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("refetch after invalidation failed", zap.Error(err))
				continue
			}
			log.Debug("events snapshot refreshed", zap.Int("count", len(events)))
		}
	}()
	return nil
}

func (w *RefreshWorkerImpl) Done() <-chan struct{} {
	return w.done
}
