package vision

import (
	"errors"
	"fmt"
)

// Failure classes of a vision request. Once a request has been attempted,
// Client.Detect fails with an error matching either ErrNetworkFailure or
// ErrInvalidResponseFormat under errors.Is. A non-success HTTP status also
// matches ErrStatus.
var (
	ErrNetworkFailure        = errors.New("vision service unreachable")
	ErrInvalidResponseFormat = errors.New("vision response not understood")
	ErrStatus                = errors.New("vision service returned an error status")
	ErrNoAPIKey              = errors.New("vision api key not configured")
)

// Kind classifies an Error.
type Kind int

const (
	KindNetwork Kind = iota
	KindStatus
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error describes a failed vision request.
type Error struct {
	Kind Kind

	// StatusCode and Body are set for KindStatus. Body holds at most the
	// first 512 bytes of the response.
	StatusCode int
	Body       string

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Body != "" {
			return fmt.Sprintf("vision: status %d: %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("vision: status %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("vision: %s: %v", e.Kind, e.Err)
		}
		return "vision: " + e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel errors for the error's kind. A status failure is
// a network-class failure.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetworkFailure:
		return e.Kind == KindNetwork || e.Kind == KindStatus
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrInvalidResponseFormat:
		return e.Kind == KindFormat
	}
	return false
}
