package ports

import (
	"context"
	"hue-bridge-client/internal/domain/model"
)

// BridgeAPI is the HTTP surface of the discovery service and a single bridge.
//
// Implementations classify failures by wrapping model.ErrUnreachable,
// model.ErrMalformedResponse, model.ErrUnauthorized or model.ErrLinkButtonNotPressed.
type BridgeAPI interface {
	Discover(ctx context.Context) ([]model.Candidate, error)
	BridgeID(ctx context.Context, address string) (string, error)
	CreateUser(ctx context.Context, address, deviceType string) (string, error)
	Lights(ctx context.Context, address, username string) ([]model.Light, error)
	SetLightState(ctx context.Context, address, username, lightID string, body map[string]interface{}) (*model.StateUpdateResult, error)
}

// LocalDiscoverer finds bridges without the cloud service.
type LocalDiscoverer interface {
	Search(ctx context.Context) ([]model.Candidate, error)
}
