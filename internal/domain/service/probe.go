package service

import (
	"context"
	"errors"
	"fmt"

	"hue-bridge-client/internal/domain/model"
)

// TestConnection checks the bridge answers on its address and learns its ID
// when still unknown.
func (s *BridgeSession) TestConnection(ctx context.Context) error {
	if s.identity.InternalAddress == "" {
		return model.ErrNoAddress
	}

	id, err := s.api.BridgeID(ctx, s.identity.InternalAddress)
	if err != nil {
		s.log.Info().Err(err).Str("address", s.identity.InternalAddress).Msg("No Hue bridge found at address")
		return err
	}
	if s.identity.ID == "" {
		if id == "" {
			return fmt.Errorf("%w: config without bridgeid", model.ErrMalformedResponse)
		}
		s.identity.ID = id
	}

	s.state = model.StateConnectionVerified
	s.log.Debug().Str("bridge_id", s.identity.ID).Msg("Established connection with the bridge")
	return nil
}

// TestAuthentication checks the stored username is still accepted.
// Unauthorized, malformed and unreachable replies are failures; any other
// well-formed reply, bridge errors included, counts as authenticated.
func (s *BridgeSession) TestAuthentication(ctx context.Context) error {
	if s.identity.InternalAddress == "" {
		return model.ErrNoAddress
	}
	if s.identity.Username == "" {
		return fmt.Errorf("%w: no username", model.ErrUnauthorized)
	}

	_, err := s.api.Lights(ctx, s.identity.InternalAddress, s.identity.Username)
	var apiErr *model.APIError
	switch {
	case err == nil:
	case errors.Is(err, model.ErrUnauthorized):
		s.log.Debug().Msg("Unauthorized user")
		return err
	case errors.Is(err, model.ErrMalformedResponse), errors.Is(err, model.ErrUnreachable):
		return err
	case errors.As(err, &apiErr):
		s.log.Debug().Err(apiErr).Msg("Bridge reported an error on the authentication probe")
	default:
		return err
	}

	s.state = model.StateAuthenticated
	s.log.Debug().Msg("Authentication successful")
	return nil
}
