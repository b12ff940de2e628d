package particle

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/log"
	"github.com/sirupsen/logrus"

	tfaccessory "github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/aurora"
	"github.com/cloudkucooland/auroralights/config"
	"github.com/cloudkucooland/auroralights/platform"
)

// Platform is the handle to the Particle-connected lights
type Platform struct {
	Running bool
	Log     logrus.FieldLogger // handed to the cloud client and every adapter
	Cloud   aurora.Cloud       // defaults to a Client built from the daemon config
}

// lmu holds the lights and the platform's running state; everything is guarded by mu
type lmu struct {
	mu       sync.Mutex
	ls       map[string]*tfaccessory.TFAccessory
	cloud    aurora.Cloud
	logger   logrus.FieldLogger
	interval time.Duration
	stop     chan struct{}
}

var lights = lmu{
	ls:     make(map[string]*tfaccessory.TFAccessory),
	logger: logrus.StandardLogger(),
}

// Startup is called by the platform management to build the shared cloud client
func (p Platform) Startup(c *config.Config) platform.Control {
	lights.mu.Lock()
	defer lights.mu.Unlock()

	if p.Log != nil {
		lights.logger = p.Log
	}
	lights.cloud = p.Cloud
	if lights.cloud == nil {
		lights.cloud = NewClient(c.ParticleAPI, c.Timeout(), lights.logger)
	}
	lights.interval = c.PullInterval()
	p.Running = true
	return p
}

// Shutdown is called by the platform management to stop the poller
func (p Platform) Shutdown() platform.Control {
	lights.mu.Lock()
	if lights.stop != nil {
		close(lights.stop)
		lights.stop = nil
	}
	lights.mu.Unlock()
	p.Running = false
	return p
}

// AddAccessory builds the light adapter for a controller and registers it with HC
func (p Platform) AddAccessory(a *tfaccessory.TFAccessory) error {
	hc, ok := platform.GetPlatform("HomeControl")
	if !ok {
		return fmt.Errorf("can't add accessory, HomeControl platform does not yet exist")
	}
	lights.mu.Lock()
	cloud, logger := lights.cloud, lights.logger
	lights.mu.Unlock()
	if cloud == nil {
		return fmt.Errorf("can't add accessory [%s], Particle platform not started", a.Name)
	}
	if _, ok := p.GetAccessory(a.Name); ok {
		log.Info.Printf("already have a light named %s, ignoring", a.Name)
		return nil
	}

	cfg, err := a.AdapterConfig()
	if err != nil {
		return fmt.Errorf("[%s]: %w", a.Name, err)
	}

	a.Type = accessory.TypeLightbulb
	if a.Info.ID == 0 {
		a.Info.ID = deviceToID(a.DeviceID)
	}

	host := newHCHost(a.Name, a.Info)
	adapter, err := aurora.New(logger, cfg, cloud, host)
	if err != nil {
		return fmt.Errorf("[%s]: %w", a.Name, err)
	}
	a.Adapter = adapter
	a.Device = host.acc
	a.Accessory = host.acc.Accessory

	log.Info.Printf("adding [%s]: [%s] (%d patterns)", a.Name, a.DeviceID, len(adapter.Patterns()))
	if err := hc.AddAccessory(a); err != nil {
		return err
	}

	lights.mu.Lock()
	lights.ls[a.Name] = a
	lights.mu.Unlock()
	return nil
}

// GetAccessory looks up a light by its config name
func (p Platform) GetAccessory(name string) (*tfaccessory.TFAccessory, bool) {
	lights.mu.Lock()
	defer lights.mu.Unlock()
	a, ok := lights.ls[name]
	return a, ok
}

// Background starts up the go process to periodically re-read every light
func (p Platform) Background() {
	lights.mu.Lock()
	defer lights.mu.Unlock()
	if lights.interval <= 0 || lights.stop != nil {
		return
	}
	lights.stop = make(chan struct{})
	go func(done chan struct{}, interval time.Duration) {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				backgroundPuller(interval)
			}
		}
	}(lights.stop, lights.interval)
}

// backgroundPuller syncs every light, giving each one interval to answer
func backgroundPuller(interval time.Duration) {
	for _, a := range snapshot() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		if err := a.Adapter.Sync(ctx); err != nil {
			log.Info.Printf("[%s] sync: %s", a.Name, err.Error())
		}
		cancel()
	}
}

func snapshot() []*tfaccessory.TFAccessory {
	lights.mu.Lock()
	defer lights.mu.Unlock()
	out := make([]*tfaccessory.TFAccessory, 0, len(lights.ls))
	for _, a := range lights.ls {
		out = append(out, a)
	}
	return out
}

// deviceToID converts 12 chars of the device id into a uint64 for the HC ID
func deviceToID(deviceID string) uint64 {
	var id uint64
	if len(deviceID) >= 12 {
		if b, err := hex.DecodeString(deviceID[:12]); err == nil {
			for _, v := range b {
				id = id<<8 | uint64(v)
			}
		}
	}
	// 1 is the bridge
	if id <= 1 {
		h := fnv.New64a()
		h.Write([]byte(deviceID))
		id = h.Sum64() | 2
	}
	return id
}
