package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmoiron/sqlx"
)

// ExchangesRepository persists journaled API exchanges. Queries use '?' placeholders,
// which both the MySQL and ClickHouse drivers accept.
type ExchangesRepository interface {
	Insert(ctx context.Context, e model.Exchange) error
	ListRecent(ctx context.Context, f ExchangeFilter) ([]model.Exchange, error)
}

// ExchangeFilter narrows ListRecent; zero values mean "any".
type ExchangeFilter struct {
	RequestID string
	Direction model.Direction
	Limit     int
	Offset    int
}

type exchangesRepository struct {
	db *sqlx.DB
}

func NewExchangesRepository(db *sqlx.DB) ExchangesRepository {
	return &exchangesRepository{db: db}
}

type exchangeRow struct {
	model.Exchange
	MetaJSON string `db:"meta"`
}

func (r *exchangesRepository) Insert(ctx context.Context, e model.Exchange) error {
	meta := "{}"
	if len(e.Meta) > 0 {
		b, err := json.Marshal(e.Meta)
		if err != nil {
			return fmt.Errorf("marshal meta: %w", err)
		}
		meta = string(b)
	}

	const q = `
		INSERT INTO exchanges
		    (id, request_id, direction, environment, status, payload, meta, created_at)
		VALUES
		    (?,  ?,          ?,         ?,           ?,      ?,       ?,    ?)
	`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.RequestID, e.Direction.String(), e.Environment.String(), e.Status, e.Payload, meta, e.CreatedAt,
	)
	return err
}

func (r *exchangesRepository) ListRecent(ctx context.Context, f ExchangeFilter) ([]model.Exchange, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := `
		SELECT id, request_id, direction, environment, status, payload, meta, created_at
		FROM exchanges
		WHERE 1 = 1
	`
	var args []any

	if f.RequestID != "" {
		q += " AND request_id = ?"
		args = append(args, f.RequestID)
	}
	if f.Direction != "" {
		q += " AND direction = ?"
		args = append(args, f.Direction.String())
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var rows []exchangeRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}

	out := make([]model.Exchange, 0, len(rows))
	for _, row := range rows {
		e := row.Exchange
		if row.MetaJSON != "" && row.MetaJSON != "{}" {
			if err := json.Unmarshal([]byte(row.MetaJSON), &e.Meta); err != nil {
				return nil, fmt.Errorf("decode meta of %s: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, nil
}
