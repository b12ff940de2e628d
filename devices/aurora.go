package devices

import (
	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/characteristic"
	"github.com/brutella/hc/service"
)

// AuroraLights is one LED controller; each pattern is its own lightbulb service
type AuroraLights struct {
	*accessory.Accessory
	Patterns []*PatternLightbulb
}

func NewAuroraLights(info accessory.Info) *AuroraLights {
	acc := AuroraLights{}
	acc.Accessory = accessory.New(info, accessory.TypeLightbulb)
	return &acc
}

// AddPattern attaches a pattern's lightbulb service to the accessory
func (a *AuroraLights) AddPattern(p *PatternLightbulb) {
	a.Patterns = append(a.Patterns, p)
	a.AddService(p.Service)
}

// Information wraps the accessory information service so it can be listed next to the patterns
type Information struct {
	*service.AccessoryInformation
}

func (i Information) ServiceName() string {
	return i.Name.GetValue()
}

// PatternLightbulb is a lightbulb service with a name, for accessories exposing several bulbs
type PatternLightbulb struct {
	*service.Service

	Name       *characteristic.Name
	On         *characteristic.On
	Brightness *characteristic.Brightness
	Hue        *characteristic.Hue        // nil without color
	Saturation *characteristic.Saturation // nil without color
}

func NewPatternLightbulb(label string, color bool) *PatternLightbulb {
	svc := PatternLightbulb{}
	svc.Service = service.New(service.TypeLightbulb)

	svc.Name = characteristic.NewName()
	svc.Name.SetValue(label)
	svc.AddCharacteristic(svc.Name.Characteristic)

	svc.On = characteristic.NewOn()
	svc.AddCharacteristic(svc.On.Characteristic)

	svc.Brightness = characteristic.NewBrightness()
	svc.AddCharacteristic(svc.Brightness.Characteristic)

	if color {
		svc.Hue = characteristic.NewHue()
		svc.AddCharacteristic(svc.Hue.Characteristic)

		svc.Saturation = characteristic.NewSaturation()
		svc.AddCharacteristic(svc.Saturation.Characteristic)
	}

	return &svc
}

func (s *PatternLightbulb) ServiceName() string {
	return s.Name.GetValue()
}

func (s *PatternLightbulb) UpdateOn(v bool) {
	s.On.SetValue(v)
}

func (s *PatternLightbulb) UpdateBrightness(v int) {
	s.Brightness.SetValue(v)
}

func (s *PatternLightbulb) UpdateColor(hue, saturation float64) {
	if s.Hue == nil {
		return
	}
	s.Hue.SetValue(hue)
	s.Saturation.SetValue(saturation)
}
