package aurora

import (
	"context"
)

// State is one observation of the controller, in characteristic units.
// Hue and Saturation are nil for profiles without color.
type State struct {
	Mode       int      `json:"mode"`
	On         bool     `json:"on"`
	Brightness int      `json:"brightness"`
	Hue        *float64 `json:"hue,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
}

// State reads every variable the profile exports
func (a *Adapter) State(ctx context.Context) (State, error) {
	var s State

	mode, err := a.getNumber(ctx, a.cfg.Profile.ModeVar)
	if err != nil {
		return s, err
	}
	s.Mode = int(mode)

	if s.On, err = a.getBool(ctx, a.cfg.Profile.OnVar); err != nil {
		return s, err
	}
	if s.Brightness, err = a.Brightness(ctx); err != nil {
		return s, err
	}
	if !a.cfg.Profile.HasColor() {
		return s, nil
	}
	hue, err := a.Hue(ctx)
	if err != nil {
		return s, err
	}
	sat, err := a.Saturation(ctx)
	if err != nil {
		return s, err
	}
	s.Hue, s.Saturation = &hue, &sat
	return s, nil
}

// Sync reads the device and pushes what it saw to every pattern light.
// Only the active pattern can be shown as on.
func (a *Adapter) Sync(ctx context.Context) error {
	s, err := a.State(ctx)
	if err != nil {
		return err
	}

	for _, e := range a.entries {
		e.service.UpdateOn(s.On && e.pattern.Index == s.Mode)
		e.service.UpdateBrightness(s.Brightness)
		if s.Hue != nil && s.Saturation != nil {
			e.service.UpdateColor(*s.Hue, *s.Saturation)
		}
	}
	a.log.WithField("mode", s.Mode).Debugf("synced: %+v", s)
	return nil
}
