package aurora

import (
	"fmt"
)

// Profile names the remote variables and functions a firmware build exposes.
// The two known builds differ only in names, and in whether color is exported at all.
type Profile struct {
	Name string

	ModeVar string // active pattern index
	ModeFn  string // switches to the pattern given as argument
	OnVar   string

	BrightnessVar string
	BrightnessFn  string

	// empty on firmware without color support
	HueVar string
	HueFn  string
	SatVar string
	SatFn  string
}

// ProfileExtended is the firmware with hue and saturation controls
var ProfileExtended = Profile{
	Name:          "extended",
	ModeVar:       "currentMode",
	ModeFn:        "changeMode",
	OnVar:         "isOn",
	BrightnessVar: "brightness",
	BrightnessFn:  "setBrightness",
	HueVar:        "hue",
	HueFn:         "setHue",
	SatVar:        "sat",
	SatFn:         "setSat",
}

// ProfileBasic is the older brightness-only firmware
var ProfileBasic = Profile{
	Name:          "basic",
	ModeVar:       "mode",
	ModeFn:        "changeMode",
	OnVar:         "isOn",
	BrightnessVar: "bright",
	BrightnessFn:  "setBright",
}

// HasColor reports whether the firmware exports hue and saturation
func (p Profile) HasColor() bool {
	return p.HueVar != "" && p.SatVar != ""
}

// ProfileByName looks up a profile from an accessory config; "" means extended
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", ProfileExtended.Name, "A":
		return ProfileExtended, nil
	case ProfileBasic.Name, "B":
		return ProfileBasic, nil
	default:
		return Profile{}, fmt.Errorf("unknown firmware profile: %q", name)
	}
}
