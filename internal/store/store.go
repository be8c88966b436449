// Package store defines the contract of the remote data store that holds
// the authoritative tables. Backends live in the rest, postgres and memory
// subpackages.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

type Client interface {
	// 讀取整張表，不過濾、不排序
	Select(ctx context.Context, table string) (json.RawMessage, error)
	// 新增一筆
	Insert(ctx context.Context, table string, record any) (json.RawMessage, error)
	// 更新符合 filter 的列
	Update(ctx context.Context, table string, record any, filter Filter) (json.RawMessage, error)
	// 刪除符合 filter 的列
	Delete(ctx context.Context, table string, filter Filter) (json.RawMessage, error)
}

// Filter is an equality match on a single column.
type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

func (f Filter) String() string {
	return fmt.Sprintf("%s=eq.%v", f.Column, f.Value)
}

// Error is what every backend returns on failure. Only Message is
// guaranteed; the other fields are filled when the backend reports them.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// AsError wraps a non-store error so callers always see a *Error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return se
	}
	return &Error{Message: err.Error()}
}

// Columns turns a record into its column map through its JSON form.
func Columns(record any) (map[string]any, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	cols := map[string]any{}
	if err := json.Unmarshal(b, &cols); err != nil {
		return nil, fmt.Errorf("record must encode as a JSON object: %w", err)
	}
	return cols, nil
}
