package model

import "fmt"

// BridgeIdentity holds what is needed to reach and authenticate against one bridge.
type BridgeIdentity struct {
	ID              string `json:"id"`
	InternalAddress string `json:"internal_ip"`
	Username        string `json:"username"`
}

// Complete reports whether the identity can be persisted.
func (b BridgeIdentity) Complete() bool {
	return b.InternalAddress != "" && b.Username != ""
}

func (b BridgeIdentity) String() string {
	return fmt.Sprintf("ID: %s || Internal IP address: %s || Username: %s", b.ID, b.InternalAddress, b.Username)
}

// BridgeRecord is the on-disk shape of the credentials file.
type BridgeRecord struct {
	Bridge BridgeIdentity `json:"bridge"`
}

// Candidate is a bridge reported by a discovery source.
type Candidate struct {
	ID              string
	InternalAddress string
}

type SessionState int

const (
	StateUninitialized SessionState = iota
	StateLoaded
	StateConnectionVerified
	StateAuthenticated
	StatePaired
	StateDiscoveryNeeded
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateConnectionVerified:
		return "connection_verified"
	case StateAuthenticated:
		return "authenticated"
	case StatePaired:
		return "paired"
	case StateDiscoveryNeeded:
		return "discovery_needed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SetupResult is the outcome of a full setup run.
type SetupResult int

const (
	SetupSuccess SetupResult = iota
	SetupDiscoveryFailed
	SetupPairingFailed
	SetupInputError
	SetupCanceled
)

func (r SetupResult) String() string {
	switch r {
	case SetupSuccess:
		return "success"
	case SetupDiscoveryFailed:
		return "discovery failed"
	case SetupPairingFailed:
		return "pairing failed"
	case SetupInputError:
		return "input error"
	case SetupCanceled:
		return "canceled"
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// Light is a summary of one light as listed by the bridge.
type Light struct {
	ID         string
	Name       string
	Type       string
	On         bool
	Brightness uint8
	Reachable  bool
}
