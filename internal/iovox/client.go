// Package iovox performs the single sendSms call against the IOVOX SMS API.
package iovox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/iovox-sms/internal/journal"
	"github.com/jmehdipour/iovox-sms/internal/model"
	"github.com/jmehdipour/iovox-sms/internal/payload"
	"github.com/jmehdipour/iovox-sms/internal/util"
	"go.uber.org/zap"
)

const (
	Port        = 444
	SendSMSPath = "/SMS?v=3&method=sendSms"

	maxResponseBytes = 1 << 20
)

// ErrTransport marks failures where no usable answer came back from the API.
var ErrTransport = errors.New("network error")

// APIError carries the error text the API returned with a non-201 status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return "API Error: " + e.Message }

// Call is one outbound sendSms request.
type Call struct {
	RequestID   string
	Environment model.Environment
	Credentials model.Credentials
	Payload     []byte
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithBaseURL replaces https://{host}:444 for every environment.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(strings.TrimSpace(u), "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

func WithRecorder(r journal.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	log       *zap.Logger
	recorder  journal.Recorder
}

func NewClient(log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		userAgent: "iovox-sms/1.0",
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log,
		recorder:  journal.Nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint is the sendSms URL for env.
func (c *Client) Endpoint(env model.Environment) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + env.Host() + ":" + strconv.Itoa(Port)
	}
	return base + SendSMSPath
}

// Send posts the payload and returns the sms_activity_id on 201.
// Other statuses yield *APIError; failures without a usable reply wrap ErrTransport.
func (c *Client) Send(ctx context.Context, call Call) (string, error) {
	endpoint := c.Endpoint(call.Environment)
	masked := call.Credentials.Masked()

	log := c.log.With(
		zap.String("request_id", call.RequestID),
		zap.String("environment", call.Environment.String()),
	)

	sent := payload.Pretty(call.Payload)
	log.Info("API SENT",
		zap.String("direction", model.DirectionSent.String()),
		zap.String("url", endpoint),
		zap.String("username", masked.Username),
		zap.String("secure_key", masked.SecureKey),
		zap.String("payload", sent),
	)
	c.record(ctx, log, call, model.DirectionSent, 0, sent, map[string]string{
		"url":      endpoint,
		"username": masked.Username,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(call.Payload))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	req.Header.Set("username", call.Credentials.Username)
	req.Header.Set("secureKey", call.Credentials.SecureKey)
	req.Header.Set("Content-Type", "application/xml")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		log.Error("API request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		log.Error("API response unreadable", zap.Int("status", res.StatusCode), zap.Error(err))
		return "", fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}
	elapsed := time.Since(start)

	received := call.Credentials.Redact(payload.Pretty(body))
	log.Info("API RECEIVED",
		zap.String("direction", model.DirectionReceived.String()),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", elapsed),
		zap.String("payload", received),
	)
	c.record(ctx, log, call, model.DirectionReceived, res.StatusCode, received, map[string]string{
		"duration_ms": strconv.FormatInt(elapsed.Milliseconds(), 10),
	})

	resp, perr := payload.ParseResponse(body)

	if res.StatusCode == http.StatusCreated {
		if perr != nil {
			return "", fmt.Errorf("%w: malformed response: %w", ErrTransport, perr)
		}
		if resp.ActivityID == "" {
			return "", fmt.Errorf("%w: malformed response: no sms_activity_id", ErrTransport)
		}
		return resp.ActivityID, nil
	}

	if perr != nil || resp.Error == "" {
		return "", fmt.Errorf("%w: unexpected status %d without error message", ErrTransport, res.StatusCode)
	}
	return "", &APIError{Status: res.StatusCode, Message: resp.Error}
}

func (c *Client) record(ctx context.Context, log *zap.Logger, call Call, dir model.Direction, status int, body string, meta map[string]string) {
	err := c.recorder.Record(ctx, model.Exchange{
		ID:          util.NewID(),
		RequestID:   call.RequestID,
		Direction:   dir,
		Environment: call.Environment,
		Status:      status,
		Payload:     body,
		Meta:        meta,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		log.Warn("journal record failed", zap.String("direction", dir.String()), zap.Error(err))
	}
}
