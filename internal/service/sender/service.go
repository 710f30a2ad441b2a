package sender

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmehdipour/iovox-sms/internal/iovox"
	"github.com/jmehdipour/iovox-sms/internal/metrics"
	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmehdipour/iovox-sms/internal/payload"
	"github.com/jmehdipour/iovox-sms/internal/util"
	"go.uber.org/zap"
)

// Transport is the part of iovox.Client the service drives.
type Transport interface {
	Send(ctx context.Context, call iovox.Call) (string, error)
}

// Defaults fill fields a caller leaves empty.
type Defaults struct {
	Username    string
	SecureKey   string
	Environment string
}

// Service validates form fields, builds the XML payload and runs exactly one API call per Send.
type Service struct {
	mu        sync.Mutex // one request in flight at a time
	transport Transport
	defaults  Defaults
	log       *zap.Logger
}

// New constructs the sender service.
func New(transport Transport, defaults Defaults, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		transport: transport,
		defaults:  defaults,
		log:       log,
	}
}

func (s *Service) withDefaults(f model.Fields) model.Fields {
	if strings.TrimSpace(f.Username) == "" {
		f.Username = s.defaults.Username
	}
	if strings.TrimSpace(f.SecureKey) == "" {
		f.SecureKey = s.defaults.SecureKey
	}
	if strings.TrimSpace(f.Environment) == "" {
		f.Environment = s.defaults.Environment
	}
	return f
}

// Send never returns a Go error: every terminal condition is folded into the Outcome.
func (s *Service) Send(ctx context.Context, f model.Fields) model.Outcome {
	requestID := util.NewID()
	log := s.log.With(zap.String("request_id", requestID))

	f = s.withDefaults(f)
	req, err := model.NewSendRequest(f)
	if err != nil {
		log.Info("send request rejected", zap.Error(err))
		env, _ := model.ParseEnvironment(f.Environment)
		return s.finish(model.Outcome{Kind: model.KindInvalid, RequestID: requestID, Err: err}, env)
	}

	body, err := payload.Build(req)
	if err != nil {
		return s.finish(model.Outcome{Kind: model.KindFailed, RequestID: requestID, Err: fmt.Errorf("build payload: %w", err)}, req.Environment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	id, err := s.transport.Send(ctx, iovox.Call{
		RequestID:   requestID,
		Environment: req.Environment,
		Credentials: req.Credentials,
		Payload:     body,
	})
	metrics.SendDuration.WithLabelValues(req.Environment.String()).Observe(time.Since(start).Seconds())

	out := model.Outcome{RequestID: requestID}
	var apiErr *iovox.APIError
	switch {
	case err == nil:
		out.Kind = model.KindSent
		out.ActivityID = id
		log.Info("sms sent", zap.String("sms_activity_id", id))
	case errors.As(err, &apiErr):
		out.Kind = model.KindRejected
		out.Err = err
		log.Warn("sms rejected by api", zap.Int("status", apiErr.Status), zap.String("error", req.Credentials.Redact(apiErr.Message)))
	default:
		out.Kind = model.KindFailed
		out.Err = err
		log.Error("sms send failed", zap.String("error", req.Credentials.Redact(err.Error())))
	}

	return s.finish(out, req.Environment)
}

func (s *Service) finish(out model.Outcome, env model.Environment) model.Outcome {
	metrics.SendsTotal.WithLabelValues(out.Kind.String(), env.String()).Inc()
	return out
}
