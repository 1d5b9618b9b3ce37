package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hue-bridge-client/internal/domain/model"
)

// Discover picks the bridge to pair with. Zero candidates ask the operator for
// an address, one is adopted as is, several are offered for selection.
func (s *BridgeSession) Discover(ctx context.Context) error {
	s.log.Info().Msg("Searching for Hue bridges in your network")

	candidates, err := s.api.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Msg("Discovery service unavailable")
		candidates = nil
	}

	if len(candidates) == 0 && s.local != nil {
		found, err := s.local.Search(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Warn().Err(err).Msg("Local bridge search failed")
		}
		candidates = found
	}

	switch len(candidates) {
	case 0:
		s.log.Info().Msg("Couldn't find any Hue bridges in your network")
		return s.manualEntry(ctx)
	case 1:
		s.log.Debug().Msg("Found your Hue bridge")
		s.adopt(candidates[0])
		return nil
	}

	s.log.Debug().Int("count", len(candidates)).Msg("Found multiple Hue bridges in your network")
	c, err := s.selectCandidate(ctx, candidates)
	if err != nil {
		return err
	}
	s.adopt(c)
	return nil
}

func (s *BridgeSession) adopt(c model.Candidate) {
	s.identity = model.BridgeIdentity{ID: c.ID, InternalAddress: c.InternalAddress}
	s.log.Debug().Str("bridge", s.Info()).Msg("Bridge selected")
}

func (s *BridgeSession) manualEntry(ctx context.Context) error {
	address, err := s.input.PromptAddress(ctx)
	if err != nil {
		return err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("%w: empty address", model.ErrNoInput)
	}

	s.identity = model.BridgeIdentity{InternalAddress: address}
	if err := s.TestConnection(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w with IP %s: %w", model.ErrNoBridge, address, err)
	}
	return nil
}

func (s *BridgeSession) selectCandidate(ctx context.Context, candidates []model.Candidate) (model.Candidate, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxSelectionAttempts; attempt++ {
		raw, err := s.input.SelectBridge(ctx, candidates)
		if err != nil {
			return model.Candidate{}, err
		}
		idx, err := parseSelection(raw, len(candidates))
		if err == nil {
			return candidates[idx], nil
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("Invalid bridge selection")
		lastErr = err
	}
	return model.Candidate{}, lastErr
}

func parseSelection(raw string, n int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", model.ErrInvalidSelection, raw)
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: %d not in 0..%d", model.ErrInvalidSelection, idx, n-1)
	}
	return idx, nil
}
