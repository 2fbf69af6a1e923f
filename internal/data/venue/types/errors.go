package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a venue failure.
type ErrorKind string

const (
	KindRateLimited      ErrorKind = "rate_limited"
	KindHTTPStatus       ErrorKind = "http_status"
	KindMalformedPayload ErrorKind = "malformed_payload"
	KindTransport        ErrorKind = "transport"
)

// Sentinels for errors.Is matching on a VenueError's kind.
var (
	ErrRateLimited      = errors.New("rate limited")
	ErrHTTPStatus       = errors.New("unexpected http status")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrTransport        = errors.New("transport failure")
)

// VenueError is the failure of a single venue fetch.
type VenueError struct {
	Venue      Venue     `json:"venue"`
	Kind       ErrorKind `json:"kind"`
	StatusCode int       `json:"status_code,omitempty"`
	Excerpt    string    `json:"excerpt,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Err        error     `json:"-"`
}

func (e *VenueError) Error() string {
	switch e.Kind {
	case KindRateLimited:
		return fmt.Sprintf("%s: rate limited", e.Venue)
	case KindHTTPStatus:
		return fmt.Sprintf("%s: HTTP %d: %s", e.Venue, e.StatusCode, e.Excerpt)
	case KindTransport:
		if e.Err != nil {
			return fmt.Sprintf("%s: transport: %s: %v", e.Venue, e.Reason, e.Err)
		}
		return fmt.Sprintf("%s: transport: %s", e.Venue, e.Reason)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: malformed payload: %s: %v", e.Venue, e.Reason, e.Err)
		}
		return fmt.Sprintf("%s: malformed payload: %s", e.Venue, e.Reason)
	}
}

func (e *VenueError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, so errors.Is(err, ErrRateLimited) works
// through any amount of wrapping.
func (e *VenueError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrHTTPStatus:
		return e.Kind == KindHTTPStatus
	case ErrMalformedPayload:
		return e.Kind == KindMalformedPayload
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

// IsRateLimited returns true if the venue reported its throttling code
func (e *VenueError) IsRateLimited() bool {
	return e.Kind == KindRateLimited
}

// RateLimited builds a KindRateLimited error.
func RateLimited(v Venue, reason string) *VenueError {
	return &VenueError{Venue: v, Kind: KindRateLimited, Reason: reason}
}

// HTTPStatus builds a KindHTTPStatus error with a bounded body excerpt.
func HTTPStatus(v Venue, code int, body []byte) *VenueError {
	return &VenueError{Venue: v, Kind: KindHTTPStatus, StatusCode: code, Excerpt: Excerpt(body)}
}

// Malformed builds a KindMalformedPayload error.
func Malformed(v Venue, reason string, err error) *VenueError {
	return &VenueError{Venue: v, Kind: KindMalformedPayload, Reason: reason, Err: err}
}

// TransportFailure builds a KindTransport error.
func TransportFailure(v Venue, reason string, err error) *VenueError {
	return &VenueError{Venue: v, Kind: KindTransport, Reason: reason, Err: err}
}

// MaxExcerpt bounds the body text carried by HTTP status errors.
const MaxExcerpt = 200

// Excerpt truncates a response body to MaxExcerpt bytes.
func Excerpt(body []byte) string {
	if len(body) > MaxExcerpt {
		body = body[:MaxExcerpt]
	}
	return string(body)
}

// KindOf returns the kind of a VenueError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var ve *VenueError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
