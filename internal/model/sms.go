package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jmehdipour/iovox-sms/internal/util"
)

// MaxMessageLength is the longest message body (in characters) IOVOX accepts in one SMS.
const MaxMessageLength = 160

type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

func (e Environment) String() string { return string(e) }

// ParseEnvironment normalizes input; empty => sandbox.
// Returns (value, true) if valid; otherwise (sandbox, false).
func ParseEnvironment(s string) (Environment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sandbox":
		return EnvSandbox, true
	case "production":
		return EnvProduction, true
	default:
		return EnvSandbox, false
	}
}

func (e Environment) Valid() bool {
	return e == EnvSandbox || e == EnvProduction
}

// Host is the fixed API hostname for the environment.
func (e Environment) Host() string {
	if e == EnvProduction {
		return "api.iovox.com"
	}
	return "sandboxapi.iovox.com"
}

// Fields is the flat form data handed over by a presentation layer.
type Fields struct {
	Username    string `json:"username" form:"username"`
	SecureKey   string `json:"secure_key" form:"secure_key"`
	Origin      string `json:"origin" form:"origin"`
	Destination string `json:"destination" form:"destination"`
	Message     string `json:"message" form:"message"`
	CallbackURL string `json:"callback_url" form:"callback_url"`
	Expiry      string `json:"expiry" form:"expiry"`
	Environment string `json:"environment" form:"environment"`
}

// SendRequest is one validated outbound message. Build it with NewSendRequest.
type SendRequest struct {
	Credentials Credentials
	Environment Environment
	Origin      string
	Destination string
	Message     string
	CallbackURL string // optional
	Expiry      string // optional, minutes
}

// ValidationError rejects a request before anything goes on the wire.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewSendRequest trims every field, strips separators from the destination number and
// checks required values, message length and environment.
func NewSendRequest(f Fields) (SendRequest, error) {
	req := SendRequest{
		Credentials: Credentials{
			Username:  strings.TrimSpace(f.Username),
			SecureKey: strings.TrimSpace(f.SecureKey),
		},
		Origin:      strings.TrimSpace(f.Origin),
		Destination: util.NormalizeNumber(f.Destination),
		Message:     strings.TrimSpace(f.Message),
		CallbackURL: strings.TrimSpace(f.CallbackURL),
		Expiry:      strings.TrimSpace(f.Expiry),
	}

	required := []struct {
		name, value string
	}{
		{"username", req.Credentials.Username},
		{"secure_key", req.Credentials.SecureKey},
		{"origin", req.Origin},
		{"destination", req.Destination},
		{"message", req.Message},
	}
	for _, r := range required {
		if r.value == "" {
			return SendRequest{}, &ValidationError{Field: r.name, Reason: "required"}
		}
	}

	if n := utf8.RuneCountInString(req.Message); n > MaxMessageLength {
		return SendRequest{}, &ValidationError{
			Field:  "message",
			Reason: fmt.Sprintf("%d characters, at most %d allowed", n, MaxMessageLength),
		}
	}

	env, ok := ParseEnvironment(f.Environment)
	if !ok {
		return SendRequest{}, &ValidationError{Field: "environment", Reason: fmt.Sprintf("unknown environment %q", f.Environment)}
	}
	req.Environment = env

	return req, nil
}
