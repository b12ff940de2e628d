package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/brutella/hc"
)

const (
	defaultName        = "AuroraLights Bridge"
	defaultParticleAPI = "https://api.particle.io"
	defaultTimeout     = 10
)

// Config is the primary daemon configuration...
type Config struct {
	ConfigDir        string    `json:"-" toml:"-"` // passed in from CLI
	ConfigFile       string    `json:"-" toml:"-"` // server.json
	HTTPAddress      string    // net.Dial address format, :port is good enough -- empty disables the control channel
	Name             string    // what this bridge shows as
	ID               string    // displayed serial number -- if you run multiple instances, make sure each has a distinct ID
	HCConfig         hc.Config // base HomeControl configuration
	ParticleAPI      string    // base URL of the Particle cloud
	ParticleTimeout  int       // (seconds) per-request timeout for cloud calls
	ParticlePullRate int       // (seconds) how frequently to re-read every light -- 0 to disable
	Debug            bool
}

// Load reads a server config; files ending in .toml are TOML, anything else is JSON
func Load(file string) (*Config, error) {
	var c Config
	if err := Decode(file, &c); err != nil {
		return nil, err
	}
	c.ConfigFile = file
	c.ConfigDir = filepath.Dir(file)
	c.applyDefaults()
	return &c, nil
}

// Decode reads file into v, picking the format by extension. Accessory
// configs use the same rules.
func Decode(file string, v interface{}) error {
	raw, err := ioutil.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config %s: %w", file, err)
	}

	if strings.EqualFold(filepath.Ext(file), ".toml") {
		if _, err := toml.Decode(string(raw), v); err != nil {
			return fmt.Errorf("unable to parse %s: %w", file, err)
		}
		return nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unable to parse %s: %w", file, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.ParticleAPI == "" {
		c.ParticleAPI = defaultParticleAPI
	}
	if c.ParticleTimeout <= 0 {
		c.ParticleTimeout = defaultTimeout
	}
	if c.ParticlePullRate < 0 {
		c.ParticlePullRate = 0
	}
	if c.HCConfig.StoragePath == "" {
		c.HCConfig.StoragePath = filepath.Join(c.ConfigDir, "hc")
	}
}

// Timeout is ParticleTimeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ParticleTimeout) * time.Second
}

// PullInterval is ParticlePullRate as a duration; zero means don't pull
func (c *Config) PullInterval() time.Duration {
	return time.Duration(c.ParticlePullRate) * time.Second
}
