package aurora

import (
	"context"
)

// Light is the characteristic contract of one pattern light. The setters take
// whatever value the host delivered and ignore values of the wrong type.
type Light interface {
	Pattern() Pattern
	Label() string
	HasColor() bool

	On(ctx context.Context) (bool, error)
	SetOn(ctx context.Context, value interface{}) error
	Brightness(ctx context.Context) (int, error)
	SetBrightness(ctx context.Context, value interface{}) error
	Hue(ctx context.Context) (float64, error)
	SetHue(ctx context.Context, value interface{}) error
	Saturation(ctx context.Context) (float64, error)
	SetSaturation(ctx context.Context, value interface{}) error
}

// brightness and color are device-global; only power is bound to the pattern
type patternLight struct {
	a       *Adapter
	pattern Pattern
}

func (l *patternLight) Pattern() Pattern {
	return l.pattern
}

func (l *patternLight) Label() string {
	return l.a.Label(l.pattern)
}

func (l *patternLight) HasColor() bool {
	return l.a.cfg.Profile.HasColor()
}

func (l *patternLight) On(ctx context.Context) (bool, error) {
	return l.a.PowerStatus(ctx, l.pattern.Index)
}

func (l *patternLight) SetOn(ctx context.Context, value interface{}) error {
	return l.a.SetPowerStatus(ctx, l.pattern.Index, value)
}

func (l *patternLight) Brightness(ctx context.Context) (int, error) {
	return l.a.Brightness(ctx)
}

func (l *patternLight) SetBrightness(ctx context.Context, value interface{}) error {
	return l.a.SetBrightness(ctx, value)
}

func (l *patternLight) Hue(ctx context.Context) (float64, error) {
	return l.a.Hue(ctx)
}

func (l *patternLight) SetHue(ctx context.Context, value interface{}) error {
	return l.a.SetHue(ctx, value)
}

func (l *patternLight) Saturation(ctx context.Context) (float64, error) {
	return l.a.Saturation(ctx)
}

func (l *patternLight) SetSaturation(ctx context.Context, value interface{}) error {
	return l.a.SetSaturation(ctx, value)
}
