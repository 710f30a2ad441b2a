// Package journal fans exchange entries out to the persisted sinks (SQL table, Kafka topic).
package journal

import (
	"context"
	"errors"

	"github.com/jmehdipour/iovox-sms/internal/model"
)

// Recorder persists one exchange entry.
type Recorder interface {
	Record(ctx context.Context, e model.Exchange) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, e model.Exchange) error

func (f RecorderFunc) Record(ctx context.Context, e model.Exchange) error { return f(ctx, e) }

// Nop drops every entry.
var Nop Recorder = RecorderFunc(func(context.Context, model.Exchange) error { return nil })

type multi []Recorder

// Multi records to every non-nil recorder and joins their errors.
func Multi(rs ...Recorder) Recorder {
	out := make(multi, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return Nop
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multi) Record(ctx context.Context, e model.Exchange) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
