// Package translator converts between operator text, typed light state and
// the JSON body the bridge expects.
package translator

import (
	"hue-bridge-client/internal/domain/model"
)

// ToBridge validates a light state and renders it as the v1 state body.
func ToBridge(state model.LightState) (map[string]interface{}, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	body := make(map[string]interface{})
	if state.On != nil {
		body["on"] = *state.On
	}
	if state.Bri != nil {
		body["bri"] = *state.Bri
	}
	if state.Hue != nil {
		body["hue"] = *state.Hue
	}
	if state.Sat != nil {
		body["sat"] = *state.Sat
	}
	if state.XY != nil {
		body["xy"] = []float64{state.XY[0], state.XY[1]}
	}
	if state.CT != nil {
		body["ct"] = *state.CT
	}
	if state.Alert != nil {
		body["alert"] = *state.Alert
	}
	if state.Effect != nil {
		body["effect"] = *state.Effect
	}
	if state.TransitionTime != nil {
		body["transitiontime"] = *state.TransitionTime
	}
	if state.BriInc != nil {
		body["bri_inc"] = *state.BriInc
	}
	return body, nil
}
