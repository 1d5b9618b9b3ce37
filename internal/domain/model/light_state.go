package model

import (
	"errors"
	"fmt"
)

// Alert values accepted by the bridge.
const (
	AlertNone    = "none"
	AlertSelect  = "select"
	AlertLSelect = "lselect"
)

// Effect values accepted by the bridge.
const (
	EffectNone      = "none"
	EffectColorLoop = "colorloop"
)

// Value ranges of the v1 light state API.
const (
	MinBrightness = 1
	MaxBrightness = 254
	MaxSaturation = 254
	MinColorTemp  = 153
	MaxColorTemp  = 500
)

// LightState is a partial light update. Nil fields are left untouched on the bridge.
type LightState struct {
	On             *bool
	Bri            *int
	Hue            *int
	Sat            *int
	XY             *[2]float64
	CT             *int
	Alert          *string
	Effect         *string
	TransitionTime *int
	BriInc         *int
}

// Empty reports whether no field is set.
func (s LightState) Empty() bool {
	return s.On == nil && s.Bri == nil && s.Hue == nil && s.Sat == nil && s.XY == nil &&
		s.CT == nil && s.Alert == nil && s.Effect == nil && s.TransitionTime == nil && s.BriInc == nil
}

// Validate checks every set field against the range the bridge accepts.
func (s LightState) Validate() error {
	if s.Empty() {
		return fmt.Errorf("%w: no fields set", ErrInvalidLightState)
	}
	var errs []error
	checkRange := func(name string, v *int, lo, hi int) {
		if v != nil && (*v < lo || *v > hi) {
			errs = append(errs, fmt.Errorf("%w: %s=%d outside [%d, %d]", ErrInvalidLightState, name, *v, lo, hi))
		}
	}
	checkRange("bri", s.Bri, MinBrightness, MaxBrightness)
	checkRange("hue", s.Hue, 0, 65535)
	checkRange("sat", s.Sat, 0, MaxSaturation)
	checkRange("ct", s.CT, MinColorTemp, MaxColorTemp)
	checkRange("transitiontime", s.TransitionTime, 0, 65535)
	checkRange("bri_inc", s.BriInc, -MaxBrightness, MaxBrightness)

	if s.XY != nil {
		for i, c := range s.XY {
			if c < 0 || c > 1 {
				errs = append(errs, fmt.Errorf("%w: xy[%d]=%g outside [0, 1]", ErrInvalidLightState, i, c))
			}
		}
	}
	if s.Alert != nil {
		switch *s.Alert {
		case AlertNone, AlertSelect, AlertLSelect:
		default:
			errs = append(errs, fmt.Errorf("%w: unknown alert %q", ErrInvalidLightState, *s.Alert))
		}
	}
	if s.Effect != nil {
		switch *s.Effect {
		case EffectNone, EffectColorLoop:
		default:
			errs = append(errs, fmt.Errorf("%w: unknown effect %q", ErrInvalidLightState, *s.Effect))
		}
	}
	return errors.Join(errs...)
}

// StateUpdateResult is the parsed bridge reply to a light state update.
type StateUpdateResult struct {
	// Applied maps bridge resource paths (e.g. /lights/1/state/on) to the accepted value.
	Applied map[string]interface{}
	Errors  []*APIError
}

// OK reports whether the bridge accepted every field.
func (r *StateUpdateResult) OK() bool {
	return len(r.Errors) == 0
}
