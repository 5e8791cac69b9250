package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a failed request by what the caller can do about it.
type Kind int

const (
	// KindUnavailable covers outages, 5xx responses and network errors.
	KindUnavailable Kind = iota
	// KindRateLimited is a 429. RetryAfter carries the server's hint.
	KindRateLimited
	// KindRejected is any other 4xx, such as a bad key or model name.
	KindRejected
	// KindInvalidResponse means the reply was not JSON matching the schema.
	KindInvalidResponse
	// KindTruncated means the reply hit the token limit.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every Provider for a failed request.
type Error struct {
	Kind     Kind
	Provider string
	// Status is the HTTP status, 0 when there was no response.
	Status     int
	RetryAfter time.Duration
	// Content is the offending reply for invalid and truncated responses.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, if it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError classifies an SDK failure by HTTP status. header may be nil.
func statusError(status int, header http.Header, err error) *Error {
	e := &Error{Kind: KindUnavailable, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.RetryAfter = parseRetryAfter(header)
	case status >= 400 && status < 500 && status != http.StatusRequestTimeout:
		e.Kind = KindRejected
	}
	return e
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
