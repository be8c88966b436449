package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-gin-events/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX 由 *pgxpool.Pool 或 pgx.Tx 實作
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Client serves the store contract straight from a Postgres database,
// for deployments that own the events table instead of going through the
// hosted REST API.
type Client struct {
	db DBTX
}

func NewClient(db DBTX) *Client {
	return &Client{db: db}
}

func (c *Client) Select(ctx context.Context, table string) (json.RawMessage, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, pgx.Identifier{table}.Sanitize())
	return c.queryRows(ctx, query)
}

func (c *Client) Insert(ctx context.Context, table string, record any) (json.RawMessage, error) {
	cols, err := store.Columns(record)
	if err != nil {
		return nil, store.AsError(err)
	}
	if len(cols) == 0 {
		query := fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING *`, pgx.Identifier{table}.Sanitize())
		return c.queryRows(ctx, query)
	}

	names, args := sortedColumns(cols)
	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		quoted[i] = pgx.Identifier{name}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		RETURNING *
	`, pgx.Identifier{table}.Sanitize(), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	return c.queryRows(ctx, query, args...)
}

func (c *Client) Update(ctx context.Context, table string, record any, filter store.Filter) (json.RawMessage, error) {
	cols, err := store.Columns(record)
	if err != nil {
		return nil, store.AsError(err)
	}
	// id 不可變
	delete(cols, "id")
	if len(cols) == 0 {
		// 沒有欄位可更新時仍查詢一次，回傳符合條件的列
		query := fmt.Sprintf(`SELECT * FROM %s WHERE %s = $1`,
			pgx.Identifier{table}.Sanitize(), pgx.Identifier{filter.Column}.Sanitize())
		return c.queryRows(ctx, query, filter.Value)
	}

	names, args := sortedColumns(cols)
	sets := make([]string, len(names))
	for i, name := range names {
		sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{name}.Sanitize(), i+1)
	}
	args = append(args, filter.Value)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE %s = $%d
		RETURNING *
	`, pgx.Identifier{table}.Sanitize(), strings.Join(sets, ", "), pgx.Identifier{filter.Column}.Sanitize(), len(args))

	return c.queryRows(ctx, query, args...)
}

func (c *Client) Delete(ctx context.Context, table string, filter store.Filter) (json.RawMessage, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1
		RETURNING *
	`, pgx.Identifier{table}.Sanitize(), pgx.Identifier{filter.Column}.Sanitize())

	return c.queryRows(ctx, query, filter.Value)
}

// queryRows 將結果列轉成 JSON 陣列，欄位名稱取自 FieldDescriptions
func (c *Client) queryRows(ctx context.Context, query string, args ...any) (json.RawMessage, error) {
	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, toStoreError(err)
	}
	defer rows.Close()

	out := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, toStoreError(err)
		}
		fields := rows.FieldDescriptions()
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			if i < len(values) {
				row[fd.Name] = normalize(fd.DataTypeOID, values[i])
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, toStoreError(err)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, store.AsError(err)
	}
	return b, nil
}

func normalize(oid uint32, v any) any {
	switch t := v.(type) {
	case time.Time:
		if oid == pgtype.DateOID {
			return t.Format(time.DateOnly)
		}
		return t.UTC().Format(time.RFC3339Nano)
	case [16]byte:
		return fmt.Sprintf("%x-%x-%x-%x-%x", t[0:4], t[4:6], t[6:8], t[8:10], t[10:16])
	default:
		return v
	}
}

func sortedColumns(cols map[string]any) ([]string, []any) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = cols[name]
	}
	return names, args
}

func toStoreError(err error) *store.Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &store.Error{
			Message: pgErr.Message,
			Code:    pgErr.Code,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}
	return store.AsError(err)
}
