// Package aurora maps an AuroraLights LED controller, reached through a cloud
// device API, onto a set of light services. Each lighting pattern of the
// controller is presented as its own light; at most one of them is on.
//
// The package knows nothing about the home-automation runtime that renders the
// services or the transport that reaches the device. Both are injected: the
// runtime as a Host, the device API as a Cloud.
package aurora

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultName is used when the accessory config has no name
	DefaultName  = "AuroraLights"
	manufacturer = "Alex Wayne"
	model        = "v1"
)

var (
	ErrMissingDevice = errors.New("aurora: device id not set")
	ErrMissingToken  = errors.New("aurora: access token not set")
	// ErrUnsupported is returned for hue and saturation on firmware without color
	ErrUnsupported = errors.New("aurora: characteristic not supported by firmware profile")
)

// Cloud is the device API: named variables to read, named functions to call.
// Every call carries the device id and access token.
type Cloud interface {
	GetVariable(ctx context.Context, deviceID, accessToken, name string) (json.RawMessage, error)
	CallFunction(ctx context.Context, deviceID, accessToken, name, argument string) (int, error)
}

// Service is a record the host renders: the information record or a pattern light
type Service interface {
	ServiceName() string
}

// PatternService is the host's side of one pattern light. The Update calls only
// change what the host shows; they never call back into the adapter.
type PatternService interface {
	Service
	UpdateOn(bool)
	UpdateBrightness(int)
	UpdateColor(hue, saturation float64)
}

// Host builds the records for one accessory
type Host interface {
	InformationService(Information) Service
	PatternService(Pattern, Light) PatternService
}

// Information is the fixed accessory metadata
type Information struct {
	Name         string
	Manufacturer string
	Model        string
	SerialNumber string
}

// Pattern is one of the controller's lighting effects
type Pattern struct {
	Index int
	Name  string
}

// DefaultPatterns is the set flashed into the controller, in mode order
var DefaultPatterns = []Pattern{
	{Index: 0, Name: "Fairy"},
	{Index: 1, Name: "Duo"},
	{Index: 2, Name: "Rainbow"},
}

// Config identifies one controller
type Config struct {
	Name        string
	DeviceID    string
	AccessToken string
	Profile     Profile
}

type patternEntry struct {
	pattern Pattern
	service PatternService
}

// Adapter translates characteristic reads and writes into device API calls
type Adapter struct {
	log     logrus.FieldLogger
	cfg     Config
	cloud   Cloud
	info    Service
	entries []patternEntry // indexed by mode
}

// New builds the information record and one light per pattern.
// No remote calls are made.
func New(log logrus.FieldLogger, cfg Config, cloud Cloud, host Host) (*Adapter, error) {
	if cfg.DeviceID == "" {
		return nil, ErrMissingDevice
	}
	if cfg.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.Profile.ModeVar == "" {
		cfg.Profile = ProfileExtended
	}
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	a := &Adapter{
		log:   log.WithField("device", cfg.DeviceID),
		cfg:   cfg,
		cloud: cloud,
	}

	a.info = host.InformationService(Information{
		Name:         cfg.Name,
		Manufacturer: manufacturer,
		Model:        model,
		SerialNumber: cfg.DeviceID,
	})

	for _, p := range DefaultPatterns {
		a.entries = append(a.entries, patternEntry{
			pattern: p,
			service: a.createPatternService(host, p.Name, p.Index),
		})
	}

	a.log.WithField("profile", cfg.Profile.Name).Info("AuroraLights accessory loaded")
	return a, nil
}

func (a *Adapter) createPatternService(host Host, name string, mode int) PatternService {
	p := Pattern{Index: mode, Name: name}
	return host.PatternService(p, &patternLight{a: a, pattern: p})
}

// Name is the configured accessory name
func (a *Adapter) Name() string {
	return a.cfg.Name
}

// Profile is the firmware profile in use
func (a *Adapter) Profile() Profile {
	return a.cfg.Profile
}

// Label is the display name of a pattern's light
func (a *Adapter) Label(p Pattern) string {
	return fmt.Sprintf("%s: %s", a.cfg.Name, p.Name)
}

// Services returns the information record followed by the pattern lights in mode order
func (a *Adapter) Services() []Service {
	s := make([]Service, 0, len(a.entries)+1)
	s = append(s, a.info)
	for _, e := range a.entries {
		s = append(s, e.service)
	}
	return s
}

// Patterns lists the configured patterns in mode order
func (a *Adapter) Patterns() []Pattern {
	p := make([]Pattern, 0, len(a.entries))
	for _, e := range a.entries {
		p = append(p, e.pattern)
	}
	return p
}

// Light returns the characteristic handlers bound to mode
func (a *Adapter) Light(mode int) (Light, bool) {
	e, ok := a.entry(mode)
	if !ok {
		return nil, false
	}
	return &patternLight{a: a, pattern: e.pattern}, true
}

// PatternService returns the host record for mode
func (a *Adapter) PatternService(mode int) (PatternService, bool) {
	e, ok := a.entry(mode)
	if !ok {
		return nil, false
	}
	return e.service, true
}

func (a *Adapter) entry(mode int) (patternEntry, bool) {
	for _, e := range a.entries {
		if e.pattern.Index == mode {
			return e, true
		}
	}
	return patternEntry{}, false
}

// PowerStatus reports whether forMode is the active, powered pattern.
// When another pattern is active the isOn variable is not read.
func (a *Adapter) PowerStatus(ctx context.Context, forMode int) (bool, error) {
	current, err := a.getNumber(ctx, a.cfg.Profile.ModeVar)
	if err != nil {
		return false, err
	}
	if int(current) != forMode {
		return false, nil
	}
	return a.getBool(ctx, a.cfg.Profile.OnVar)
}

// SetPowerStatus switches the controller to forMode. The other pattern lights
// are shown as off before the remote call is made; the device is not re-read.
// Anything but a bool is ignored.
func (a *Adapter) SetPowerStatus(ctx context.Context, forMode int, value interface{}) error {
	v, ok := value.(bool)
	if !ok {
		a.log.WithField("mode", forMode).Debugf("ignoring non-bool power value %v", value)
		return nil
	}

	for _, e := range a.entries {
		if e.pattern.Index != forMode {
			e.service.UpdateOn(false)
		}
	}

	a.log.WithField("mode", forMode).Debugf("power %t", v)
	return a.callFn(ctx, a.cfg.Profile.ModeFn, strconv.Itoa(forMode))
}

// Brightness reads the device brightness as a percentage
func (a *Adapter) Brightness(ctx context.Context) (int, error) {
	b, err := a.getNumber(ctx, a.cfg.Profile.BrightnessVar)
	if err != nil {
		return 0, err
	}
	return ByteToPercent(b), nil
}

// SetBrightness takes a percentage; non-numbers are ignored
func (a *Adapter) SetBrightness(ctx context.Context, value interface{}) error {
	pct, ok := toNumber(value)
	if !ok {
		return nil
	}
	return a.callFn(ctx, a.cfg.Profile.BrightnessFn, strconv.Itoa(PercentToByte(pct)))
}

// Hue reads the device hue in degrees
func (a *Adapter) Hue(ctx context.Context) (float64, error) {
	if !a.cfg.Profile.HasColor() {
		return 0, ErrUnsupported
	}
	b, err := a.getNumber(ctx, a.cfg.Profile.HueVar)
	if err != nil {
		return 0, err
	}
	return ByteToDegrees(b), nil
}

// SetHue takes degrees; non-numbers are ignored
func (a *Adapter) SetHue(ctx context.Context, value interface{}) error {
	if !a.cfg.Profile.HasColor() {
		return ErrUnsupported
	}
	deg, ok := toNumber(value)
	if !ok {
		return nil
	}
	return a.callFn(ctx, a.cfg.Profile.HueFn, strconv.Itoa(DegreesToByte(deg)))
}

// Saturation reads the device saturation as a percentage
func (a *Adapter) Saturation(ctx context.Context) (float64, error) {
	if !a.cfg.Profile.HasColor() {
		return 0, ErrUnsupported
	}
	b, err := a.getNumber(ctx, a.cfg.Profile.SatVar)
	if err != nil {
		return 0, err
	}
	return float64(ByteToPercent(b)), nil
}

// SetSaturation takes a percentage; non-numbers are ignored
func (a *Adapter) SetSaturation(ctx context.Context, value interface{}) error {
	if !a.cfg.Profile.HasColor() {
		return ErrUnsupported
	}
	pct, ok := toNumber(value)
	if !ok {
		return nil
	}
	return a.callFn(ctx, a.cfg.Profile.SatFn, strconv.Itoa(PercentToByte(pct)))
}

func (a *Adapter) callFn(ctx context.Context, name, argument string) error {
	if _, err := a.cloud.CallFunction(ctx, a.cfg.DeviceID, a.cfg.AccessToken, name, argument); err != nil {
		return fmt.Errorf("call %s(%s): %w", name, argument, err)
	}
	return nil
}

func (a *Adapter) getVar(ctx context.Context, name string) (json.RawMessage, error) {
	raw, err := a.cloud.GetVariable(ctx, a.cfg.DeviceID, a.cfg.AccessToken, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}

func (a *Adapter) getNumber(ctx context.Context, name string) (float64, error) {
	raw, err := a.getVar(ctx, name)
	if err != nil {
		return 0, err
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("read %s: not a number: %s", name, string(raw))
	}
	return n, nil
}

func (a *Adapter) getBool(ctx context.Context, name string) (bool, error) {
	raw, err := a.getVar(ctx, name)
	if err != nil {
		return false, err
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("read %s: not a bool: %s", name, string(raw))
	}
	return b, nil
}
