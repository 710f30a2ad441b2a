package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmehdipour/iovox-sms/internal/repository"
)

// FromRepository stores entries in the exchanges table.
func FromRepository(repo repository.ExchangesRepository) Recorder {
	return RecorderFunc(func(ctx context.Context, e model.Exchange) error {
		if err := repo.Insert(ctx, e); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
		return nil
	})
}

// Publisher is the part of kafka.Producer the journal needs.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// FromPublisher publishes entries as JSON keyed by request id.
func FromPublisher(p Publisher) Recorder {
	return RecorderFunc(func(ctx context.Context, e model.Exchange) error {
		b, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal exchange: %w", err)
		}
		if err := p.Publish(ctx, []byte(e.RequestID), b); err != nil {
			return fmt.Errorf("journal publish: %w", err)
		}
		return nil
	})
}
