package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-gin-events/internal/store"
	"go-gin-events/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventColumns = []string{"id", "created_at", "name", "date", "description"}

func setupMock(t *testing.T) (pgxmock.PgxPoolIface, *postgres.Client) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, postgres.NewClient(mock)
}

func TestClient_Select(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(pgxmock.NewRows(eventColumns).
				AddRow(int64(7), createdAt, "Launch", "2024-01-01", "kickoff"))

		raw, err := client.Select(ctx, "events")

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":7,"created_at":"2024-01-01T09:30:00Z","name":"Launch","date":"2024-01-01","description":"kickoff"}]`, string(raw))
	})

	t.Run("EmptyTable", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnRows(pgxmock.NewRows(eventColumns))

		raw, err := client.Select(ctx, "events")

		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("Failed - pg error message is kept", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events"`)).
			WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "events" does not exist`})

		_, err := client.Select(ctx, "events")

		var se *store.Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, `relation "events" does not exist`, se.Message)
		assert.Equal(t, "42P01", se.Code)
	})
}

func TestClient_Insert(t *testing.T) {
	ctx := context.Background()
	mock, client := setupMock(t)
	record := map[string]string{"name": "Launch", "date": "2024-01-01", "description": "kickoff"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "events" ("date", "description", "name")`)).
		WithArgs("2024-01-01", "kickoff", "Launch").
		WillReturnRows(pgxmock.NewRows(eventColumns).
			AddRow(int64(7), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Launch", "2024-01-01", "kickoff"))

	raw, err := client.Insert(ctx, "events", record)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":7,"created_at":"2024-01-01T00:00:00Z","name":"Launch","date":"2024-01-01","description":"kickoff"}]`, string(raw))
}

func TestClient_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - id in record is ignored", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SET "name" = $1`)).
			WithArgs("Launch Day", 7).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(7), "Launch Day"))

		raw, err := client.Update(ctx, "events", map[string]any{"id": 8, "name": "Launch Day"}, store.Eq("id", 7))

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":7,"name":"Launch Day"}]`, string(raw))
	})

	t.Run("Success - no matching row", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE "id" = $2`)).
			WithArgs("Launch Day", 404).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))

		raw, err := client.Update(ctx, "events", map[string]any{"name": "Launch Day"}, store.Eq("id", 404))

		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("Success - nothing to set still reads the matching row", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events" WHERE "id" = $1`)).
			WithArgs(7).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(7), "Launch"))

		raw, err := client.Update(ctx, "events", map[string]any{"id": 7}, store.Eq("id", 7))

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":7,"name":"Launch"}]`, string(raw))
	})

	t.Run("Failed - nothing to set surfaces store errors", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "events" WHERE "id" = $1`)).
			WithArgs(7).
			WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for table events"})

		_, err := client.Update(ctx, "events", map[string]any{}, store.Eq("id", 7))

		assert.EqualError(t, err, "permission denied for table events")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM "events"`)).
			WithArgs(7).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

		raw, err := client.Delete(ctx, "events", store.Eq("id", 7))

		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":7}]`, string(raw))
	})

	t.Run("Failed - permission denied", func(t *testing.T) {
		mock, client := setupMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM "events"`)).
			WithArgs(7).
			WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for table events"})

		_, err := client.Delete(ctx, "events", store.Eq("id", 7))

		assert.EqualError(t, err, "permission denied for table events")
	})
}
