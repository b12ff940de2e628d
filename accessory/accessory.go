package accessory

import (
	hcaccessory "github.com/brutella/hc/accessory"
	"github.com/cloudkucooland/auroralights/aurora"
)

// TFAccessory is one configured light controller, plus hc's stuff
type TFAccessory struct {
	Platform string // Particle
	Name     string // the name used internally, from the accessory's config file name

	DeviceID    string `json:"deviceId" toml:"deviceId"`
	AccessToken string `json:"particleAccessToken" toml:"particleAccessToken"`
	Profile     string `json:"profile" toml:"profile"` // extended, basic

	// do we still need this?
	Type hcaccessory.AccessoryType // defined at https://github.com/brutella/hc/tree/master/accessory

	Info                   hcaccessory.Info // defined at https://github.com/brutella/hc/blob/master/accessory/accessory.go
	*hcaccessory.Accessory `json:"-" toml:"-"` // set when the device is added to HomeControl

	Device  interface{}     `json:"-" toml:"-"`
	Adapter *aurora.Adapter `json:"-" toml:"-"`
}

// AdapterConfig is the part of the accessory config the light adapter needs
func (a TFAccessory) AdapterConfig() (aurora.Config, error) {
	profile, err := aurora.ProfileByName(a.Profile)
	if err != nil {
		return aurora.Config{}, err
	}
	name := a.Info.Name
	if name == "" {
		name = a.Name
	}
	return aurora.Config{
		Name:        name,
		DeviceID:    a.DeviceID,
		AccessToken: a.AccessToken,
		Profile:     profile,
	}, nil
}
