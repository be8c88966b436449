package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go-gin-events/internal/store"
)

// Client keeps tables in process. Every inserted row gets an integer id
// and a created_at timestamp, the same columns the hosted store assigns.
type Client struct {
	mu     sync.Mutex
	tables map[string]*table
	now    func() time.Time
	failOn map[string]*store.Error
}

type table struct {
	seq  int
	rows []map[string]any
}

func NewClient() *Client {
	return &Client{
		tables: map[string]*table{},
		now:    time.Now,
		failOn: map[string]*store.Error{},
	}
}

// FailNext makes the next call of op ("select", "insert", "update",
// "delete") return err instead of touching the table.
func (c *Client) FailNext(op string, err *store.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failOn[op] = err
}

func (c *Client) Select(ctx context.Context, name string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure("select"); err != nil {
		return nil, err
	}
	return encodeRows(c.table(name).rows)
}

func (c *Client) Insert(ctx context.Context, name string, record any) (json.RawMessage, error) {
	cols, err := store.Columns(record)
	if err != nil {
		return nil, store.AsError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure("insert"); err != nil {
		return nil, err
	}

	t := c.table(name)
	t.seq++
	cols["id"] = float64(t.seq)
	cols["created_at"] = c.now().UTC().Format(time.RFC3339Nano)
	t.rows = append(t.rows, cols)

	return encodeRows([]map[string]any{cols})
}

func (c *Client) Update(ctx context.Context, name string, record any, filter store.Filter) (json.RawMessage, error) {
	cols, err := store.Columns(record)
	if err != nil {
		return nil, store.AsError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure("update"); err != nil {
		return nil, err
	}

	updated := make([]map[string]any, 0)
	for _, row := range c.table(name).rows {
		if !matches(row, filter) {
			continue
		}
		for k, v := range cols {
			if k == "id" {
				continue
			}
			row[k] = v
		}
		updated = append(updated, row)
	}
	return encodeRows(updated)
}

func (c *Client) Delete(ctx context.Context, name string, filter store.Filter) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.takeFailure("delete"); err != nil {
		return nil, err
	}

	t := c.table(name)
	kept := t.rows[:0]
	deleted := make([]map[string]any, 0)
	for _, row := range t.rows {
		if matches(row, filter) {
			deleted = append(deleted, row)
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return encodeRows(deleted)
}

func (c *Client) table(name string) *table {
	t, ok := c.tables[name]
	if !ok {
		t = &table{}
		c.tables[name] = t
	}
	return t
}

func (c *Client) takeFailure(op string) error {
	err, ok := c.failOn[op]
	if !ok {
		return nil
	}
	delete(c.failOn, op)
	return err
}

// matches compares through fmt so that 7 and float64(7) are equal.
func matches(row map[string]any, filter store.Filter) bool {
	v, ok := row[filter.Column]
	if !ok {
		return false
	}
	return fmt.Sprint(v) == fmt.Sprint(filter.Value)
}

func encodeRows(rows []map[string]any) (json.RawMessage, error) {
	if rows == nil {
		rows = []map[string]any{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, store.AsError(err)
	}
	return b, nil
}
