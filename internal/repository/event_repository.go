package repository

import (
	"context"
	"encoding/json"

	"go-gin-events/internal/model"
	"go-gin-events/internal/store"
)

const (
	EventsTable = "events"
	idColumn    = "id"
)

// EventRepository 將 store.Client 綁定到 events 表，回傳 store 的原始回應
type EventRepository interface {
	FetchAll(ctx context.Context) (json.RawMessage, error)
	Insert(ctx context.Context, event model.NewEvent) (json.RawMessage, error)
	Update(ctx context.Context, params model.UpdateEventParams) (json.RawMessage, error)
	Delete(ctx context.Context, id int) (json.RawMessage, error)
}

type EventRepositoryImpl struct {
	client store.Client
}

func NewEventRepository(client store.Client) EventRepository {
	return &EventRepositoryImpl{
		client: client,
	}
}

func (r *EventRepositoryImpl) FetchAll(ctx context.Context) (json.RawMessage, error) {
	return r.client.Select(ctx, EventsTable)
}

func (r *EventRepositoryImpl) Insert(ctx context.Context, event model.NewEvent) (json.RawMessage, error) {
	return r.client.Insert(ctx, EventsTable, event)
}

func (r *EventRepositoryImpl) Update(ctx context.Context, params model.UpdateEventParams) (json.RawMessage, error) {
	return r.client.Update(ctx, EventsTable, params, store.Eq(idColumn, params.ID))
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id int) (json.RawMessage, error) {
	return r.client.Delete(ctx, EventsTable, store.Eq(idColumn, id))
}
