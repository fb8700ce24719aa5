package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed exchange with a remote service.
type Kind string

const (
	// KindTransport covers network unreachability, timeouts and cancelled
	// requests.
	KindTransport Kind = "transport"
	// KindDecode covers responses that arrived but could not be parsed.
	KindDecode Kind = "decode"
	// KindStatus covers non-2xx responses; Status carries the HTTP code.
	KindStatus Kind = "status"
)

// Error describes why a remote call failed. Read paths typically recover from
// it by degrading to an empty result; write paths surface it to the caller.
type Error struct {
	Kind   Kind
	Op     string // "METHOD url" of the failed exchange
	Status int    // HTTP status, set for KindStatus only
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func is(err error, kind Kind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool { return is(err, KindTransport) }

// IsDecode reports whether err is a malformed-response failure.
func IsDecode(err error) bool { return is(err, KindDecode) }

// IsNotFound reports whether the remote answered 404 for the request.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindStatus && re.Status == http.StatusNotFound
}
