package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-gin-events/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key 查詢快取的邏輯名稱，讀取與失效都必須使用同一個常數
type Key string

const EventsKey Key = "events"

const (
	keyPrefix = "query:"
	// InvalidationChannel 失效通知的 pub/sub channel，payload 為 Key
	InvalidationChannel = "query:invalidations"
)

// Fetcher 快取未命中時向遠端取得最新快照
type Fetcher func(ctx context.Context) (json.RawMessage, error)

type QueryCache interface {
	// 讀取：命中時回傳快照，否則呼叫 fetch 並寫回
	Query(ctx context.Context, key Key, fetch Fetcher) (json.RawMessage, error)
	// 失效：丟棄快照並通知所有訂閱者
	Invalidate(ctx context.Context, key Key) error
	// 訂閱：key 每次失效都會收到通知，直到 ctx 結束
	Subscribe(ctx context.Context, key Key) (<-chan Key, error)
}

type RedisQueryCacheImpl struct {
	client    *redis.Client
	staleTime time.Duration
	group     singleflight.Group
}

func NewRedisQueryCache(client *redis.Client, staleTime time.Duration) QueryCache {
	return &RedisQueryCacheImpl{
		client:    client,
		staleTime: staleTime,
	}
}

// 快照 key
func (m *RedisQueryCacheImpl) getDataKey(key Key) string {
	return fmt.Sprintf("%s%s", keyPrefix, key)
}

// 世代計數 key，每次失效 +1
func (m *RedisQueryCacheImpl) getGenKey(key Key) string {
	return fmt.Sprintf("%s%s:gen", keyPrefix, key)
}

/*
只有在世代沒變時才寫入快照。
fetch 期間若發生失效，這次取得的資料可能已經過期，直接丟棄。
*/
var setIfGenerationScript = redis.NewScript(`
	local data_key = KEYS[1]
	local gen_key = KEYS[2]

	local expected_gen = ARGV[1]
	local payload = ARGV[2]
	local ttl_ms = tonumber(ARGV[3])

	local current_gen = redis.call('GET', gen_key) or '0'
	if current_gen ~= expected_gen then
		return 0
	end

	if ttl_ms > 0 then
		redis.call('SET', data_key, payload, 'PX', ttl_ms)
	else
		redis.call('SET', data_key, payload)
	end
	return 1
`)

func (m *RedisQueryCacheImpl) Query(ctx context.Context, key Key, fetch Fetcher) (json.RawMessage, error) {
	log := logger.WithComponent("cache").With(zap.String("key", string(key)))

	val, err := m.client.Get(ctx, m.getDataKey(key)).Bytes()
	if err == nil {
		return val, nil
	}
	if err != redis.Nil {
		log.Warn("cache read failed, fetching from store", zap.Error(err))
	}

	// 世代在加入 singleflight 前讀取，失效後的讀取不會併入失效前的 fetch
	gen, genErr := m.client.Get(ctx, m.getGenKey(key)).Result()
	if genErr == redis.Nil {
		gen, genErr = "0", nil
	}
	if genErr != nil {
		// 讀不到世代時不寫入，避免覆蓋較新的失效
		log.Warn("cache generation read failed, skip storing snapshot", zap.Error(genErr))
		return fetch(ctx)
	}

	// 共用的 fetch 不跟隨任一呼叫者的取消，每個呼叫者各自等待自己的 ctx
	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(string(key)+":"+gen, func() (interface{}, error) {
		return m.fetchAndStore(shared, key, gen, fetch)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

func (m *RedisQueryCacheImpl) fetchAndStore(ctx context.Context, key Key, gen string, fetch Fetcher) (json.RawMessage, error) {
	log := logger.WithComponent("cache").With(zap.String("key", string(key)))

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := setIfGenerationScript.Run(ctx, m.client,
		[]string{m.getDataKey(key), m.getGenKey(key)},
		gen, string(data), m.staleTime.Milliseconds(),
	).Int()
	if err != nil {
		log.Warn("cache write failed", zap.Error(err))
		return data, nil
	}
	if stored == 0 {
		log.Debug("snapshot invalidated during fetch, not stored")
	}
	return data, nil
}

func (m *RedisQueryCacheImpl) Invalidate(ctx context.Context, key Key) error {
	_, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, m.getDataKey(key))
		pipe.Incr(ctx, m.getGenKey(key))
		pipe.Publish(ctx, InvalidationChannel, string(key))
		return nil
	})
	return err
}

func (m *RedisQueryCacheImpl) Subscribe(ctx context.Context, key Key) (<-chan Key, error) {
	pubsub := m.client.Subscribe(ctx, InvalidationChannel)
	// 等待訂閱確認，確保之後的失效不會漏掉
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan Key)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if Key(msg.Payload) != key {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
