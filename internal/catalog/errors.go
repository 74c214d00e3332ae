package catalog

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed catalog request.
type ErrorKind int

const (
	// KindNetwork covers transport failures and unexpected HTTP statuses.
	KindNetwork ErrorKind = iota
	// KindMalformed means the response did not have the expected shape.
	KindMalformed
	// KindNotFound means the requested entry does not exist.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed response"
	case KindNotFound:
		return "not found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against any *FetchError of that kind.
var (
	ErrNetwork           = errors.New("catalog: network error")
	ErrMalformedResponse = errors.New("catalog: malformed response")
	ErrNotFound          = errors.New("catalog: not found")
)

// FetchError describes a failed request against the remote catalog.
type FetchError struct {
	Op     string // "list", "page", "detail"
	Target string // URL or entry name
	Kind   ErrorKind
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("catalog %s %s: %s", e.Op, e.Target, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *FetchError) sentinel() error {
	switch e.Kind {
	case KindMalformed:
		return ErrMalformedResponse
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrNetwork
	}
}

// Message returns a short user-facing description of err.
func Message(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}
	switch fe.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s was not found", fe.Target)
	case KindMalformed:
		return "the catalog returned an unexpected response"
	default:
		if fe.Status != 0 {
			return fmt.Sprintf("catalog request failed (HTTP %d)", fe.Status)
		}
		return "could not reach the catalog"
	}
}
