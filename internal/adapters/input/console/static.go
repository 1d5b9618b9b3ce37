package console

import (
	"context"
	"hue-bridge-client/internal/domain/model"
)

// Static answers prompts from preconfigured values, for unattended runs.
// An empty field means the question cannot be answered.
type Static struct {
	Address   string
	Selection string
}

func (s Static) PromptAddress(ctx context.Context) (string, error) {
	if s.Address == "" {
		return "", model.ErrNoInput
	}
	return s.Address, nil
}

func (s Static) SelectBridge(ctx context.Context, candidates []model.Candidate) (string, error) {
	if s.Selection == "" {
		return "", model.ErrNoInput
	}
	return s.Selection, nil
}
