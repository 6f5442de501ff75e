package engine

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure or non-2xx HTTP status from a backend.
// It is final: the orchestrator propagates it without retrying.
type NetworkError struct {
	Engine     Name
	StatusCode int // zero when the transport failed before a status arrived
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Engine, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Engine, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// EmptyResultError is a 2xx response from which no translation could be
// extracted. The payload was malformed or carried an unexpected shape.
type EmptyResultError struct {
	Engine Name
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no translation in response", e.Engine)
}

// InvalidCredentialError is the generative backend rejecting its API key.
// Unlike the other two it is recoverable: the orchestrator answers it with a
// single forced retry on the Google engine.
type InvalidCredentialError struct {
	Engine Name
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("%s: credential rejected", e.Engine)
}

// IsInvalidCredential reports whether err is an InvalidCredentialError
// anywhere in its chain.
func IsInvalidCredential(err error) bool {
	var target *InvalidCredentialError
	return errors.As(err, &target)
}
