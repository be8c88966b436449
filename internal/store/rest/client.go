// Package rest talks to a hosted PostgREST endpoint (the Supabase REST API)
// under <url>/rest/v1/<table>.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go-gin-events/internal/store"
)

const restPath = "/rest/v1/"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient 替換預設的 http.Client（不設定逾時，沿用 client 預設）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Select(ctx context.Context, table string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("select", "*")
	return c.do(ctx, http.MethodGet, table, q, nil)
}

func (c *Client) Insert(ctx context.Context, table string, record any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, table, nil, record)
}

func (c *Client) Update(ctx context.Context, table string, record any, filter store.Filter) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, table, filterQuery(filter), record)
}

func (c *Client) Delete(ctx context.Context, table string, filter store.Filter) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, table, filterQuery(filter), nil)
}

func filterQuery(filter store.Filter) url.Values {
	q := url.Values{}
	q.Set(filter.Column, fmt.Sprintf("eq.%v", filter.Value))
	return q
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + restPath + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, store.AsError(fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, store.AsError(err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, store.AsError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, store.AsError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, payload)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	return payload, nil
}

// decodeError 解析 PostgREST 錯誤 body；無法解析時退回 HTTP 狀態文字
func decodeError(status int, payload []byte) *store.Error {
	var se store.Error
	if err := json.Unmarshal(payload, &se); err == nil && se.Message != "" {
		return &se
	}
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &store.Error{Message: msg, Code: fmt.Sprint(status)}
}
