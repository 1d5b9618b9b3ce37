package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"hue-bridge-client/internal/domain/model"
)

func pairedSession(t *testing.T, api *MockBridgeAPI) *BridgeSession {
	t.Helper()
	s := NewBridgeSession(api, &memStore{record: storedRecord}, new(MockInput))
	require.NoError(t, s.LoadConfig(context.Background()))
	return s
}

func ptr[T any](v T) *T { return &v }

func TestSetLight(t *testing.T) {
	api := new(MockBridgeAPI)
	body := map[string]interface{}{"on": true, "bri": 120}
	api.On("SetLightState", mock.Anything, "192.168.1.20", "stored-user", "3", body).
		Return(&model.StateUpdateResult{Applied: map[string]interface{}{
			"/lights/3/state/on":  true,
			"/lights/3/state/bri": float64(120),
		}}, nil)

	res, err := pairedSession(t, api).SetLight(context.Background(), "3", model.LightState{On: ptr(true), Bri: ptr(120)})
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Len(t, res.Applied, 2)
	api.AssertExpectations(t)
}

func TestSetLight_BridgeErrors(t *testing.T) {
	api := new(MockBridgeAPI)
	api.On("SetLightState", mock.Anything, mock.Anything, mock.Anything, "1", mock.Anything).
		Return(&model.StateUpdateResult{
			Applied: map[string]interface{}{"/lights/1/state/on": false},
			Errors: []*model.APIError{
				{Type: 201, Address: "/lights/1/state/effect", Description: "parameter, effect, is not modifiable. Device is set to off."},
			},
		}, nil)

	res, err := pairedSession(t, api).SetLight(context.Background(), "1", model.LightState{On: ptr(false), Effect: ptr(model.EffectColorLoop)})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Len(t, res.Applied, 1)

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 201, apiErr.Type)
}

func TestSetLight_Rejected(t *testing.T) {
	api := new(MockBridgeAPI)
	s := pairedSession(t, api)

	_, err := s.SetLight(context.Background(), "1", model.LightState{})
	assert.ErrorIs(t, err, model.ErrInvalidLightState)

	_, err = s.SetLight(context.Background(), "1", model.LightState{CT: ptr(90)})
	assert.ErrorIs(t, err, model.ErrInvalidLightState)

	_, err = s.SetLight(context.Background(), "", model.LightState{On: ptr(true)})
	assert.ErrorIs(t, err, model.ErrInvalidLightState)

	api.AssertNotCalled(t, "SetLightState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetLight_RequiresCredentials(t *testing.T) {
	api := new(MockBridgeAPI)
	s := NewBridgeSession(api, &memStore{}, new(MockInput))

	_, err := s.SetLight(context.Background(), "1", model.LightState{On: ptr(true)})
	assert.ErrorIs(t, err, model.ErrNoAddress)

	_, err = s.Lights(context.Background())
	assert.ErrorIs(t, err, model.ErrNoAddress)
}

func TestLights(t *testing.T) {
	api := new(MockBridgeAPI)
	api.On("Lights", mock.Anything, "192.168.1.20", "stored-user").Return([]model.Light{
		{ID: "1", Name: "Hue color lamp 1", On: true, Brightness: 200, Reachable: true},
	}, nil)

	lights, err := pairedSession(t, api).Lights(context.Background())
	require.NoError(t, err)
	require.Len(t, lights, 1)
	assert.Equal(t, "Hue color lamp 1", lights[0].Name)
}
