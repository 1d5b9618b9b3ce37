package service

import (
	"context"
	"fmt"

	"hue-bridge-client/internal/domain/model"
)

// LoadConfig replaces the in-memory identity with the stored record.
func (s *BridgeSession) LoadConfig(ctx context.Context) error {
	record, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.identity = record.Bridge
	s.state = model.StateLoaded
	return nil
}

// SaveConfig writes the current identity. It refuses an identity without an
// address and username.
func (s *BridgeSession) SaveConfig(ctx context.Context) error {
	if !s.identity.Complete() {
		return model.ErrIncompleteIdentity
	}
	if err := s.store.Save(ctx, &model.BridgeRecord{Bridge: s.identity}); err != nil {
		return fmt.Errorf("save bridge configuration: %w", err)
	}
	s.log.Debug().Str("bridge_id", s.identity.ID).Msg("Configuration saved")
	return nil
}
