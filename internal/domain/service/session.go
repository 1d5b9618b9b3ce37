package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"hue-bridge-client/internal/domain/model"
	"hue-bridge-client/internal/ports"
)

const (
	DefaultDeviceType           = "AutoHue#mydevice"
	DefaultPairAttempts         = 30
	DefaultPairInterval         = time.Second
	DefaultMaxSelectionAttempts = 3
)

// BridgeSession owns the identity of one bridge and walks it from nothing to
// paired. It takes no locks: callers must not use one session from several
// goroutines at once.
type BridgeSession struct {
	api   ports.BridgeAPI
	store ports.CredentialStore
	input ports.OperatorInput
	local ports.LocalDiscoverer
	log   zerolog.Logger

	deviceType           string
	pairAttempts         int
	pairInterval         time.Duration
	maxSelectionAttempts int

	identity model.BridgeIdentity
	state    model.SessionState
}

type Option func(*BridgeSession)

func WithLogger(l zerolog.Logger) Option {
	return func(s *BridgeSession) { s.log = l }
}

// WithLocalDiscovery adds a LAN search used when the cloud service reports nothing.
func WithLocalDiscovery(d ports.LocalDiscoverer) Option {
	return func(s *BridgeSession) { s.local = d }
}

// WithPairing overrides the pairing handshake parameters. Zero values keep the defaults.
func WithPairing(deviceType string, attempts int, interval time.Duration) Option {
	return func(s *BridgeSession) {
		if deviceType != "" {
			s.deviceType = deviceType
		}
		if attempts > 0 {
			s.pairAttempts = attempts
		}
		if interval > 0 {
			s.pairInterval = interval
		}
	}
}

func WithMaxSelectionAttempts(n int) Option {
	return func(s *BridgeSession) {
		if n > 0 {
			s.maxSelectionAttempts = n
		}
	}
}

func NewBridgeSession(api ports.BridgeAPI, store ports.CredentialStore, input ports.OperatorInput, opts ...Option) *BridgeSession {
	s := &BridgeSession{
		api:                  api,
		store:                store,
		input:                input,
		log:                  zerolog.Nop(),
		deviceType:           DefaultDeviceType,
		pairAttempts:         DefaultPairAttempts,
		pairInterval:         DefaultPairInterval,
		maxSelectionAttempts: DefaultMaxSelectionAttempts,
		state:                model.StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BridgeSession) Identity() model.BridgeIdentity {
	return s.identity
}

func (s *BridgeSession) State() model.SessionState {
	return s.state
}

func (s *BridgeSession) Info() string {
	return s.identity.String()
}

// Setup loads and verifies stored credentials, falling back to discovery and
// pairing. It never returns an error; the reason for a failure is logged.
func (s *BridgeSession) Setup(ctx context.Context) model.SetupResult {
	if err := s.LoadConfig(ctx); err == nil {
		err = s.verify(ctx)
		if err == nil {
			s.state = model.StatePaired
			s.log.Info().Str("bridge_id", s.identity.ID).Str("address", s.identity.InternalAddress).Msg("Bridge setup successful")
			return model.SetupSuccess
		}
		if ctx.Err() != nil {
			return model.SetupCanceled
		}
		s.log.Info().Err(err).Msg("Configuration file error, starting discovery")
		s.reset()
	} else {
		s.log.Debug().Err(err).Msg("Could not load configuration")
		s.state = model.StateDiscoveryNeeded
	}

	if err := s.Discover(ctx); err != nil {
		switch {
		case ctx.Err() != nil:
			return model.SetupCanceled
		case model.IsInputError(err):
			s.log.Warn().Err(err).Msg("Bridge discovery needs operator input")
			return model.SetupInputError
		}
		s.log.Info().Err(err).Msg("Could not discover any Hue bridges on your network")
		return model.SetupDiscoveryFailed
	}

	if err := s.CreateUser(ctx); err != nil {
		if ctx.Err() != nil {
			return model.SetupCanceled
		}
		s.log.Warn().Err(err).Msg("Pairing with the bridge failed")
		return model.SetupPairingFailed
	}
	s.log.Info().Str("address", s.identity.InternalAddress).Msg("Connected successfully to your Hue bridge")

	if err := s.SaveConfig(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Could not save configuration")
	}
	s.state = model.StatePaired
	return model.SetupSuccess
}

func (s *BridgeSession) verify(ctx context.Context) error {
	if err := s.TestConnection(ctx); err != nil {
		return err
	}
	return s.TestAuthentication(ctx)
}

func (s *BridgeSession) reset() {
	s.identity = model.BridgeIdentity{}
	s.state = model.StateDiscoveryNeeded
}
