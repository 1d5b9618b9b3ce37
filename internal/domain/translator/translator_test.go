package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hue-bridge-client/internal/domain/model"
)

func TestParseAndToBridge(t *testing.T) {
	state, err := Parse([]string{"on=true", "bri=200", "xy=0.3,0.4", "alert=select", "transitiontime=4"})
	require.NoError(t, err)

	body, err := ToBridge(state)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"on":             true,
		"bri":            200,
		"xy":             []float64{0.3, 0.4},
		"alert":          "select",
		"transitiontime": 4,
	}, body)
}

func TestToBridge_OffOnly(t *testing.T) {
	off := false
	body, err := ToBridge(model.LightState{On: &off})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"on": false}, body)
}

func TestToBridge_Validation(t *testing.T) {
	tooBright := 255
	_, err := ToBridge(model.LightState{Bri: &tooBright})
	assert.ErrorIs(t, err, model.ErrInvalidLightState)

	_, err = ToBridge(model.LightState{})
	assert.ErrorIs(t, err, model.ErrInvalidLightState)

	state, err := Parse([]string{"ct=100", "effect=strobe", "xy=1.5,0"})
	require.NoError(t, err)
	_, err = ToBridge(state)
	assert.ErrorIs(t, err, model.ErrInvalidLightState)
	assert.Contains(t, err.Error(), "ct=100")
	assert.Contains(t, err.Error(), "strobe")
	assert.Contains(t, err.Error(), "xy[0]")
}

func TestParse_Errors(t *testing.T) {
	cases := [][]string{
		{"on"},
		{"=1"},
		{"color=red"},
		{"bri=bright"},
		{"on=maybe"},
		{"xy=0.3"},
		{"xy=a,b"},
	}
	for _, args := range cases {
		_, err := Parse(args)
		assert.ErrorIs(t, err, model.ErrInvalidLightState, "args %v", args)
	}
}
