package ports

import (
	"context"
	"hue-bridge-client/internal/domain/model"
)

// OperatorInput supplies the answers a human gives during discovery.
// Both methods return raw text; validation is the caller's job.
type OperatorInput interface {
	PromptAddress(ctx context.Context) (string, error)
	SelectBridge(ctx context.Context, candidates []model.Candidate) (string, error)
}
