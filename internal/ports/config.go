package ports

import (
	"context"
	"hue-bridge-client/internal/domain/model"
)

// CredentialStore persists the bridge record between runs.
// Load returns model.ErrNoConfig when nothing has been stored yet.
type CredentialStore interface {
	Load(ctx context.Context) (*model.BridgeRecord, error)
	Save(ctx context.Context, record *model.BridgeRecord) error
}
