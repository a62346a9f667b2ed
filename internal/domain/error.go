package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrLockNotAcquired = errors.New("poller lease held by another instance")
	ErrEmptyMessage    = errors.New("empty message")
)

// Server error codes reported in the Practicum error envelope.
const (
	CodeUnknownError     = "UnknownError"      // malformed from_date
	CodeNotAuthenticated = "not_authenticated" // bad OAuth token
)

// ErrorKind tags every failure the poll loop can observe.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTokenMissing
	KindNetwork
	KindHTTPStatus
	KindShapeMismatch
	KindServerReported
	KindMissingField
	KindUnknownStatus
	KindDelivery
)

var kindNames = map[ErrorKind]string{
	KindUnknown:        "unknown",
	KindTokenMissing:   "token_missing",
	KindNetwork:        "network",
	KindHTTPStatus:     "http_status",
	KindShapeMismatch:  "shape_mismatch",
	KindServerReported: "server_reported",
	KindMissingField:   "missing_field",
	KindUnknownStatus:  "unknown_status",
	KindDelivery:       "delivery",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Fatal reports whether the kind must stop the process instead of being retried.
func (k ErrorKind) Fatal() bool { return k == KindTokenMissing }

// Error is the single error type produced by the fetch/validate/parse pipeline.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind ErrorKind

	Field      string // missing env var, JSON key
	Expected   string // expected JSON type for shape mismatches
	Value      string // offending status value
	StatusCode int    // HTTP status
	Code       string // server error code
	Message    string // server-provided message
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTokenMissing:
		return "a required environment variable is missing: " + e.Field
	case KindNetwork:
		return fmt.Sprintf("server request error: error: %v", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("server request error: status code: %d", e.StatusCode)
	case KindShapeMismatch:
		return fmt.Sprintf("error checking data type of %q. Required type: %s", e.Field, e.Expected)
	case KindServerReported:
		switch e.Code {
		case CodeUnknownError:
			return "unexpected from_date: " + e.Message
		case CodeNotAuthenticated:
			return "access denied: " + e.Message
		}
		return fmt.Sprintf("server reported %s: %s", e.Code, e.Message)
	case KindMissingField:
		return fmt.Sprintf("missing key %q in homework", e.Field)
	case KindUnknownStatus:
		return fmt.Sprintf("unknown homework status %q", e.Value)
	case KindDelivery:
		return fmt.Sprintf("message delivery failed: %v", e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
