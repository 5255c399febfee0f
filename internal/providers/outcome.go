package providers

import (
	"context"
	"errors"
	"net/http"
)

// Kind classifies a provider call failure.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindTransient    Kind = "transient"
	KindUnknown      Kind = "unknown"
)

// Outcome is the settled result of one provider call. Adapters never return
// errors: every failure is captured here as data so the orchestrator's
// all-settle collection is plain data flow.
type Outcome struct {
	Provider  string   `json:"provider"`
	OK        bool     `json:"ok"`
	Payload   any      `json:"payload,omitempty"`
	Synthetic bool     `json:"synthetic,omitempty"`
	ErrKind   Kind     `json:"error_kind,omitempty"`
	ErrMsg    string   `json:"error,omitempty"`
	Citations []string `json:"citations,omitempty"`
}

// Success builds a successful outcome.
func Success(provider string, payload any) Outcome {
	return Outcome{Provider: provider, OK: true, Payload: payload}
}

// Failure builds a failed outcome of the given kind.
func Failure(provider string, kind Kind, msg string) Outcome {
	return Outcome{Provider: provider, ErrKind: kind, ErrMsg: msg}
}

// withPlaceholder attaches a clearly-marked synthetic payload to outcomes
// that failed with Unauthorized or NotFound, so synthesis can still produce
// a degraded answer. Other failure kinds carry no payload.
func (o Outcome) withPlaceholder(payload any) Outcome {
	if o.OK {
		return o
	}
	if o.ErrKind != KindUnauthorized && o.ErrKind != KindNotFound {
		return o
	}
	o.Payload = payload
	o.Synthetic = true
	return o
}

// kindForStatus maps an HTTP status code to a failure kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500 || status == http.StatusTooManyRequests || status == http.StatusRequestTimeout:
		return KindTransient
	default:
		return KindUnknown
	}
}

// kindForError maps a transport-level error to a failure kind. Timeouts and
// cancellations count as transient so a slow provider only costs its own slot.
func kindForError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}
	return KindUnknown
}
