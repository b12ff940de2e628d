package platform

import (
	"sync"

	"github.com/brutella/hc/log"
	"github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/config"
)

// Control is the interface which all platforms must satisfy
type Control interface {
	Startup(*config.Config) Control
	Background()
	Shutdown() Control
	AddAccessory(*accessory.TFAccessory) error
	GetAccessory(string) (*accessory.TFAccessory, bool)
}

var (
	mu        sync.Mutex
	platforms = make(map[string]Control)
	order     []string
)

// RegisterPlatform is called whenever a new platform is instantiated
func RegisterPlatform(name string, control Control) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := platforms[name]; ok {
		return
	}
	platforms[name] = control
	order = append(order, name)
}

// GetPlatform looks up a registered platform by name
func GetPlatform(name string) (Control, bool) {
	mu.Lock()
	defer mu.Unlock()
	pc, ok := platforms[name]
	return pc, ok
}

// StartupAllPlatforms is called at process start to initialize all platforms, in registration order
func StartupAllPlatforms(c *config.Config) {
	for _, name := range names() {
		p, _ := GetPlatform(name)
		log.Debug.Printf("starting up: %s", name)
		set(name, p.Startup(c))
	}
}

// Background starts the background processes for every platform
func Background() {
	for _, name := range names() {
		p, _ := GetPlatform(name)
		p.Background()
	}
}

// ShutdownAllPlatforms is called at process stop to shutdown all platforms, in reverse order
func ShutdownAllPlatforms() {
	n := names()
	for i := len(n) - 1; i >= 0; i-- {
		p, _ := GetPlatform(n[i])
		log.Info.Printf("shutting down: %s", n[i])
		set(n[i], p.Shutdown())
	}
}

func names() []string {
	mu.Lock()
	defer mu.Unlock()
	return append([]string(nil), order...)
}

func set(name string, c Control) {
	mu.Lock()
	defer mu.Unlock()
	platforms[name] = c
}

// reset is for tests
func reset() {
	mu.Lock()
	defer mu.Unlock()
	platforms = make(map[string]Control)
	order = nil
}
