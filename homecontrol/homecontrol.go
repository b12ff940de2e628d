package tfhc

import (
	"fmt"
	"sort"
	"sync"

	tfaccessory "github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/config"
	"github.com/cloudkucooland/auroralights/platform"

	"github.com/brutella/hc"
	"github.com/brutella/hc/accessory"
	"github.com/brutella/hc/log"
	"github.com/brutella/hc/util"
)

// HCPlatform is the platform handle
type HCPlatform struct {
	Running bool
}

var (
	mu        sync.Mutex
	hcs       = make(map[string]*tfaccessory.TFAccessory)
	transport hc.Transport
)

// Startup is called by the platform bootstrap
func (h HCPlatform) Startup(c *config.Config) platform.Control {
	h.Running = true
	return h
}

// StartHC is called after all devices are discovered/registered to start operation
func StartHC(c *config.Config) error {
	storage, err := util.NewFileStorage(c.HCConfig.StoragePath)
	if err != nil {
		return fmt.Errorf("unable to get storage: %w", err)
	}
	serial := c.ID
	if serial == "" {
		serial = util.GetSerialNumberForAccessoryName("AuroraLightsRoot", storage)
	}

	root := accessory.NewBridge(accessory.Info{
		Name:             c.Name,
		ID:               1,
		SerialNumber:     serial,
		Manufacturer:     "deviousness",
		Model:            "AuroraLights Bridge",
		FirmwareRevision: "0.1.0",
	})
	root.Accessory.OnIdentify(func() {
		log.Info.Printf("bridge root identify called: %+v", root.Accessory)
	})

	t, err := hc.NewIPTransport(c.HCConfig, root.Accessory, accessories()...)
	if err != nil {
		return err
	}

	mu.Lock()
	transport = t
	mu.Unlock()

	hc.OnTermination(func() {
		<-t.Stop()
	})
	go t.Start()
	if uri, err := t.XHMURI(); err == nil {
		log.Info.Printf("add this bridge with: %s", uri)
	}
	return nil
}

// accessories returns every registered accessory, sorted by name so HC IDs stay put across restarts
func accessories() []*accessory.Accessory {
	mu.Lock()
	defer mu.Unlock()

	names := make([]string, 0, len(hcs))
	for n := range hcs {
		names = append(names, n)
	}
	sort.Strings(names)

	values := make([]*accessory.Accessory, 0, len(names))
	for _, n := range names {
		values = append(values, hcs[n].Accessory)
	}
	return values
}

// Shutdown is called at process teardown
func (h HCPlatform) Shutdown() platform.Control {
	mu.Lock()
	t := transport
	transport = nil
	mu.Unlock()
	if t != nil {
		<-t.Stop()
	}
	h.Running = false
	return h
}

// AddAccessory registers a device with HC
func (h HCPlatform) AddAccessory(a *tfaccessory.TFAccessory) error {
	// catch devices that didn't get set up properly
	if a.Accessory == nil {
		return fmt.Errorf("accessory unset: %v", a.Info)
	}

	a.Accessory.OnIdentify(func() {
		log.Info.Printf("identify called for [%s]: %+v", a.Name, a.Accessory)
		for _, service := range a.Accessory.GetServices() {
			log.Debug.Printf("service: %+v", service)
			for _, char := range service.GetCharacteristics() {
				log.Debug.Printf("characteristic : %+v", char)
			}
		}
	})

	mu.Lock()
	hcs[a.Name] = a
	mu.Unlock()
	return nil
}

// GetAccessory looks up a device by name -- you probably want the Particle platform's version, not this
func (h HCPlatform) GetAccessory(name string) (*tfaccessory.TFAccessory, bool) {
	mu.Lock()
	defer mu.Unlock()
	a, ok := hcs[name]
	return a, ok
}

// Background runs the various background tasks: none for HC
func (h HCPlatform) Background() {
	// nothing to do
}
