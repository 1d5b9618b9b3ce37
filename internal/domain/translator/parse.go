package translator

import (
	"fmt"
	"strconv"
	"strings"

	"hue-bridge-client/internal/domain/model"
)

// Parse turns key=value arguments (on=true bri=200 xy=0.3,0.4) into a light state.
// Unknown keys and unparsable values are rejected; ranges are checked by Validate.
func Parse(args []string) (model.LightState, error) {
	var state model.LightState
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return state, fmt.Errorf("%w: expected key=value, got %q", model.ErrInvalidLightState, arg)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "on":
			var b bool
			b, err = strconv.ParseBool(value)
			state.On = &b
		case "bri":
			state.Bri, err = parseInt(value)
		case "hue":
			state.Hue, err = parseInt(value)
		case "sat":
			state.Sat, err = parseInt(value)
		case "ct":
			state.CT, err = parseInt(value)
		case "transitiontime":
			state.TransitionTime, err = parseInt(value)
		case "bri_inc":
			state.BriInc, err = parseInt(value)
		case "xy":
			state.XY, err = parseXY(value)
		case "alert":
			state.Alert = &value
		case "effect":
			state.Effect = &value
		default:
			return state, fmt.Errorf("%w: unknown field %q", model.ErrInvalidLightState, key)
		}
		if err != nil {
			return state, fmt.Errorf("%w: %s: %v", model.ErrInvalidLightState, key, err)
		}
	}
	return state, nil
}

func parseInt(value string) (*int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseXY(value string) (*[2]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("want two comma separated values, got %q", value)
	}
	var xy [2]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		xy[i] = f
	}
	return &xy, nil
}
