// Package auroralights bridges Particle-connected AuroraLights LED controllers to HomeKit.
package auroralights

import (
	"fmt"

	"github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/config"
	tfhc "github.com/cloudkucooland/auroralights/homecontrol"
	"github.com/cloudkucooland/auroralights/particle"
	"github.com/cloudkucooland/auroralights/platform"
	"github.com/cloudkucooland/auroralights/tfhttp"

	"github.com/sirupsen/logrus"
)

// BootstrapPlatforms sets up all the platforms; HomeControl must be registered
// before anything that adds accessories to it
func BootstrapPlatforms(c *config.Config, logger logrus.FieldLogger) {
	var hcp tfhc.HCPlatform
	platform.RegisterPlatform("HomeControl", hcp)

	pp := particle.Platform{Log: logger}
	platform.RegisterPlatform("Particle", pp)

	var h tfhttp.Platform
	platform.RegisterPlatform("HTTP", h)

	platform.StartupAllPlatforms(c)
}

// AddAccessory is a wrapper to each platform's AddAccessory, no need to expose each platform to the daemon
func AddAccessory(h *accessory.TFAccessory) error {
	if h.Platform == "" {
		h.Platform = "Particle"
	}

	p, ok := platform.GetPlatform(h.Platform)
	if !ok {
		return fmt.Errorf("unknown accessory platform [%s] for %s", h.Platform, h.Name)
	}

	return p.AddAccessory(h)
}

// StartHC is just a wrapper, no need to expose tfhc to the daemon
func StartHC(c *config.Config) error {
	return tfhc.StartHC(c)
}
