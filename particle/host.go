package particle

import (
	"context"

	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/log"
	"github.com/cloudkucooland/auroralights/aurora"
	"github.com/cloudkucooland/auroralights/devices"
)

// hcHost builds the hc accessory for one adapter and wires its characteristics.
// hc callbacks carry no context and no error: failures are logged and the
// last known value is returned to the controller.
//
// Getters must SetValue what they read before returning it: hc treats a getter
// result that differs from the cached value as a write from the controller.
type hcHost struct {
	name string
	info accessory.Info
	acc  *devices.AuroraLights
}

func newHCHost(name string, info accessory.Info) *hcHost {
	return &hcHost{name: name, info: info}
}

func (h *hcHost) InformationService(i aurora.Information) aurora.Service {
	if h.info.Name == "" {
		h.info.Name = i.Name
	}
	if h.info.Manufacturer == "" {
		h.info.Manufacturer = i.Manufacturer
	}
	if h.info.Model == "" {
		h.info.Model = i.Model
	}
	if h.info.SerialNumber == "" {
		h.info.SerialNumber = i.SerialNumber
	}
	h.acc = devices.NewAuroraLights(h.info)
	return devices.Information{AccessoryInformation: h.acc.Info}
}

func (h *hcHost) PatternService(p aurora.Pattern, light aurora.Light) aurora.PatternService {
	if h.acc == nil {
		h.acc = devices.NewAuroraLights(h.info)
	}
	svc := devices.NewPatternLightbulb(light.Label(), light.HasColor())
	h.acc.AddPattern(svc)

	svc.On.OnValueRemoteGet(func() bool {
		on, err := light.On(context.Background())
		if err != nil {
			log.Info.Printf("[%s] %s: unable to read power: %s", h.name, p.Name, err.Error())
			v, _ := svc.On.Value.(bool)
			return v
		}
		svc.On.SetValue(on)
		return on
	})
	svc.On.OnValueRemoteUpdate(func(newstate bool) {
		log.Info.Printf("setting [%s] %s to [%t] from HC handler", h.name, p.Name, newstate)
		if err := light.SetOn(context.Background(), newstate); err != nil {
			log.Info.Println(err.Error())
		}
	})

	svc.Brightness.OnValueRemoteGet(func() int {
		b, err := light.Brightness(context.Background())
		if err != nil {
			log.Info.Printf("[%s] unable to read brightness: %s", h.name, err.Error())
			v, _ := svc.Brightness.Value.(int)
			return v
		}
		svc.Brightness.SetValue(b)
		return b
	})
	svc.Brightness.OnValueRemoteUpdate(func(newval int) {
		log.Info.Printf("setting [%s] brightness [%d] from HC handler", h.name, newval)
		if err := light.SetBrightness(context.Background(), newval); err != nil {
			log.Info.Println(err.Error())
		}
	})

	if svc.Hue == nil {
		return svc
	}

	svc.Hue.OnValueRemoteGet(func() float64 {
		hue, err := light.Hue(context.Background())
		if err != nil {
			log.Info.Printf("[%s] unable to read hue: %s", h.name, err.Error())
			v, _ := svc.Hue.Value.(float64)
			return v
		}
		svc.Hue.SetValue(hue)
		return hue
	})
	svc.Hue.OnValueRemoteUpdate(func(newval float64) {
		log.Info.Printf("setting [%s] hue [%f] from HC handler", h.name, newval)
		if err := light.SetHue(context.Background(), newval); err != nil {
			log.Info.Println(err.Error())
		}
	})

	svc.Saturation.OnValueRemoteGet(func() float64 {
		sat, err := light.Saturation(context.Background())
		if err != nil {
			log.Info.Printf("[%s] unable to read saturation: %s", h.name, err.Error())
			v, _ := svc.Saturation.Value.(float64)
			return v
		}
		svc.Saturation.SetValue(sat)
		return sat
	})
	svc.Saturation.OnValueRemoteUpdate(func(newval float64) {
		log.Info.Printf("setting [%s] saturation [%f] from HC handler", h.name, newval)
		if err := light.SetSaturation(context.Background(), newval); err != nil {
			log.Info.Println(err.Error())
		}
	})

	return svc
}
