package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	"hue-bridge-client/internal/domain/model"
)

// CreateUser polls the pairing endpoint until the operator presses the link
// button or the attempts run out. Attempts are spaced by the pairing interval.
func (s *BridgeSession) CreateUser(ctx context.Context) error {
	if s.identity.InternalAddress == "" {
		return model.ErrNoAddress
	}

	s.log.Info().Msg("Press the link button on your Hue bridge!")
	limiter := rate.NewLimiter(rate.Every(s.pairInterval), 1)

	for attempt := 1; attempt <= s.pairAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("pairing: %w", err)
		}

		username, err := s.api.CreateUser(ctx, s.identity.InternalAddress, s.deviceType)
		if err == nil {
			s.identity.Username = username
			s.state = model.StateAuthenticated
			s.log.Debug().Int("attempt", attempt).Msg("Successfully created new user")
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		event := s.log.Debug()
		if !errors.Is(err, model.ErrLinkButtonNotPressed) {
			event = s.log.Warn()
		}
		event.Err(err).Int("attempt", attempt).Int("of", s.pairAttempts).Msg("Pairing attempt failed")
	}
	return fmt.Errorf("%w after %d attempts", model.ErrPairingTimeout, s.pairAttempts)
}
