package service

import (
	"context"
	"errors"
	"fmt"

	"hue-bridge-client/internal/domain/model"
	"hue-bridge-client/internal/domain/translator"
)

// SetLight validates state and sends it to one light. Fields the bridge
// rejected are listed in the result and also returned as a joined error.
func (s *BridgeSession) SetLight(ctx context.Context, lightID string, state model.LightState) (*model.StateUpdateResult, error) {
	if err := s.requireCredentials(); err != nil {
		return nil, err
	}
	if lightID == "" {
		return nil, fmt.Errorf("%w: empty light id", model.ErrInvalidLightState)
	}

	body, err := translator.ToBridge(state)
	if err != nil {
		return nil, err
	}

	result, err := s.api.SetLightState(ctx, s.identity.InternalAddress, s.identity.Username, lightID, body)
	if err != nil {
		return nil, fmt.Errorf("set light %s: %w", lightID, err)
	}
	if !result.OK() {
		errs := make([]error, 0, len(result.Errors))
		for _, e := range result.Errors {
			errs = append(errs, e)
		}
		return result, errors.Join(errs...)
	}

	s.log.Debug().Str("light", lightID).Interface("applied", result.Applied).Msg("Light state updated")
	return result, nil
}

func (s *BridgeSession) Lights(ctx context.Context) ([]model.Light, error) {
	if err := s.requireCredentials(); err != nil {
		return nil, err
	}
	return s.api.Lights(ctx, s.identity.InternalAddress, s.identity.Username)
}

func (s *BridgeSession) requireCredentials() error {
	if s.identity.InternalAddress == "" {
		return model.ErrNoAddress
	}
	if s.identity.Username == "" {
		return fmt.Errorf("%w: no username", model.ErrUnauthorized)
	}
	return nil
}
