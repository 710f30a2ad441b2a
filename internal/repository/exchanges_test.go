package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestExchangesInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExchangesRepository(db)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exchanges")).
		WithArgs("01J", "REQ", "received", "sandbox", 201, "<response/>", `{"duration_ms":"12"}`, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), model.Exchange{
		ID:          "01J",
		RequestID:   "REQ",
		Direction:   model.DirectionReceived,
		Environment: model.EnvSandbox,
		Status:      201,
		Payload:     "<response/>",
		Meta:        map[string]string{"duration_ms": "12"},
		CreatedAt:   at,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExchangesListRecent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewExchangesRepository(db)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "request_id", "direction", "environment", "status", "payload", "meta", "created_at"}).
		AddRow("01J", "REQ", "sent", "production", 0, "<request/>", `{"url":"https://api.iovox.com:444/SMS"}`, at)

	mock.ExpectQuery(regexp.QuoteMeta("AND request_id = ? AND direction = ? ORDER BY created_at DESC LIMIT ? OFFSET ?")).
		WithArgs("REQ", "sent", 50, 0).
		WillReturnRows(rows)

	got, err := repo.ListRecent(context.Background(), ExchangeFilter{RequestID: "REQ", Direction: model.DirectionSent, Limit: 5000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.DirectionSent, got[0].Direction)
	assert.Equal(t, model.EnvProduction, got[0].Environment)
	assert.Equal(t, "https://api.iovox.com:444/SMS", got[0].Meta["url"])
	require.NoError(t, mock.ExpectationsWereMet())
}
