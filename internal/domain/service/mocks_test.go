package service

import (
	"context"
	"hue-bridge-client/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

type MockBridgeAPI struct {
	mock.Mock
}

func (m *MockBridgeAPI) Discover(ctx context.Context) ([]model.Candidate, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]model.Candidate)
	return c, args.Error(1)
}

func (m *MockBridgeAPI) BridgeID(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}

func (m *MockBridgeAPI) CreateUser(ctx context.Context, address, deviceType string) (string, error) {
	args := m.Called(ctx, address, deviceType)
	return args.String(0), args.Error(1)
}

func (m *MockBridgeAPI) Lights(ctx context.Context, address, username string) ([]model.Light, error) {
	args := m.Called(ctx, address, username)
	l, _ := args.Get(0).([]model.Light)
	return l, args.Error(1)
}

func (m *MockBridgeAPI) SetLightState(ctx context.Context, address, username, lightID string, body map[string]interface{}) (*model.StateUpdateResult, error) {
	args := m.Called(ctx, address, username, lightID, body)
	r, _ := args.Get(0).(*model.StateUpdateResult)
	return r, args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context) (*model.BridgeRecord, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*model.BridgeRecord)
	return r, args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, record *model.BridgeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockInput struct {
	mock.Mock
}

func (m *MockInput) PromptAddress(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockInput) SelectBridge(ctx context.Context, candidates []model.Candidate) (string, error) {
	args := m.Called(ctx, candidates)
	return args.String(0), args.Error(1)
}

// memStore keeps one record in memory, like a config file shared between runs.
type memStore struct {
	record *model.BridgeRecord
}

func (s *memStore) Load(ctx context.Context) (*model.BridgeRecord, error) {
	if s.record == nil {
		return nil, model.ErrNoConfig
	}
	r := *s.record
	return &r, nil
}

func (s *memStore) Save(ctx context.Context, record *model.BridgeRecord) error {
	r := *record
	s.record = &r
	return nil
}
