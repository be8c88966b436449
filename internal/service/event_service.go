package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go-gin-events/internal/cache"
	"go-gin-events/internal/model"
	"go-gin-events/internal/repository"
	apperrors "go-gin-events/pkg/app_errors"
	"go-gin-events/pkg/logger"

	"go.uber.org/zap"
)

// EventService events collection 的 CRUD 門面：寫入成功後讓 events 快照失效
type EventService interface {
	// 讀取全部活動（經過查詢快取），順序依 store 回傳
	FetchAll(ctx context.Context) ([]*model.Event, error)
	// 新增，回傳 store 的原始回應
	Add(ctx context.Context, event model.NewEvent) (json.RawMessage, error)
	// 依 id 更新非 nil 欄位
	Update(ctx context.Context, params model.UpdateEventParams) (json.RawMessage, error)
	// 依 id 刪除；id 不存在時 store 回報成功且影響 0 列
	Delete(ctx context.Context, id int) (json.RawMessage, error)
}

type EventServiceImpl struct {
	repo  repository.EventRepository
	cache cache.QueryCache
}

func NewEventService(repo repository.EventRepository, queryCache cache.QueryCache) EventService {
	return &EventServiceImpl{repo: repo, cache: queryCache}
}

func (s *EventServiceImpl) FetchAll(ctx context.Context) ([]*model.Event, error) {
	raw, err := s.cache.Query(ctx, cache.EventsKey, s.fetchEvents)
	if err != nil {
		return nil, err
	}
	return decodeEvents(raw)
}

func (s *EventServiceImpl) fetchEvents(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, apperrors.NewRemoteQueryError(err)
	}
	return raw, nil
}

func (s *EventServiceImpl) Add(ctx context.Context, event model.NewEvent) (json.RawMessage, error) {
	return s.write(ctx, "Add", func(ctx context.Context) (json.RawMessage, error) {
		return s.repo.Insert(ctx, event)
	})
}

func (s *EventServiceImpl) Update(ctx context.Context, params model.UpdateEventParams) (json.RawMessage, error) {
	return s.write(ctx, "Update", func(ctx context.Context) (json.RawMessage, error) {
		return s.repo.Update(ctx, params)
	})
}

func (s *EventServiceImpl) Delete(ctx context.Context, id int) (json.RawMessage, error) {
	return s.write(ctx, "Delete", func(ctx context.Context) (json.RawMessage, error) {
		return s.repo.Delete(ctx, id)
	})
}

// write 執行一次遠端寫入；成功才讓快照失效，失敗時不失效
func (s *EventServiceImpl) write(ctx context.Context, operation string, call func(ctx context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	data, err := call(ctx)
	if err != nil {
		return nil, apperrors.NewRemoteWriteError(err)
	}

	// 寫入已經生效，失效失敗只記錄，快照最晚在過期後更新
	if err := s.cache.Invalidate(ctx, cache.EventsKey); err != nil {
		logger.WithComponent("service").Error("invalidate events snapshot failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
	return data, nil
}

func decodeEvents(raw json.RawMessage) ([]*model.Event, error) {
	events := make([]*model.Event, 0)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return events, nil
	}
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, apperrors.NewRemoteQueryError(fmt.Errorf("decode events: %w", err))
	}
	return events, nil
}
