package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnreachable          = errors.New("bridge unreachable")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrUnauthorized         = errors.New("unauthorized user")
	ErrLinkButtonNotPressed = errors.New("link button not pressed")
	ErrPairingTimeout       = errors.New("pairing timed out")
	ErrNoAddress            = errors.New("bridge address not set")
	ErrNoBridge             = errors.New("no bridge found")
	ErrNoConfig             = errors.New("no stored configuration")
	ErrIncompleteIdentity   = errors.New("bridge identity incomplete")
	ErrInvalidSelection     = errors.New("invalid bridge selection")
	ErrNoInput              = errors.New("no operator input available")
	ErrInvalidLightState    = errors.New("invalid light state")
)

// Hue v1 error types this client reacts to.
const (
	APIErrorUnauthorized     = 1
	APIErrorLinkButtonNotSet = 101
)

// APIError is an error entry returned by the bridge inside a response array.
type APIError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("hue error %d: %s", e.Type, e.Description)
	}
	return fmt.Sprintf("hue error %d at %s: %s", e.Type, e.Address, e.Description)
}

// IsInputError reports whether err came from operator input rather than the network.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidSelection) || errors.Is(err, ErrNoInput)
}
