package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cloudkucooland/auroralights"
	"github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/config"
	"github.com/cloudkucooland/auroralights/platform"

	"github.com/brutella/hc/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	var dir, file string
	var debug bool

	app := cli.App{
		Name:  "auroralights",
		Usage: "HomeKit bridge for Particle-connected AuroraLights controllers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Value:       "config",
				Usage:       "configuration directory",
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "config",
				Value:       "server.json",
				Usage:       "configuration file (.json or .toml)",
				Destination: &file,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "verbose logging",
				Destination: &debug,
			},
		},
		Action: func(c *cli.Context) error {
			fulldir, err := filepath.Abs(dir)
			if err != nil {
				return cli.Exit("unable to get config directory "+dir, 1)
			}

			conf, err := config.Load(filepath.Join(fulldir, file))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger := logrus.New()
			if debug || conf.Debug {
				conf.Debug = true
				log.Debug.Enable()
				logger.SetLevel(logrus.DebugLevel)
			}

			// spin up platforms to listen to devices
			auroralights.BootstrapPlatforms(conf, logger)

			if err := loadAccessories(filepath.Join(fulldir, "accessories")); err != nil {
				return cli.Exit(err.Error(), 1)
			}

			// HC can only be started once all accessories are known
			if err := auroralights.StartHC(conf); err != nil {
				return cli.Exit(err.Error(), 1)
			}

			// run all the background processes
			platform.Background()

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			log.Info.Printf("caught %s, stopping", <-sigs)
			platform.ShutdownAllPlatforms()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Info.Fatal(err)
	}
}

// loadAccessories registers one light per file in dir; bad files are logged and skipped
func loadAccessories(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading accessories: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		acc, err := readAccessory(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Info.Printf("skipping %s: %s", e.Name(), err)
			continue
		}
		if err := auroralights.AddAccessory(acc); err != nil {
			log.Info.Printf("unable to add %s: %s", acc.Name, err)
		}
	}
	return nil
}

// readAccessory decodes a single accessory file; the light is named after the file
func readAccessory(path string) (*accessory.TFAccessory, error) {
	var acc accessory.TFAccessory
	if err := config.Decode(path, &acc); err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	acc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	log.Debug.Printf("loaded accessory [%s]: %s %s", acc.Name, acc.Platform, acc.DeviceID)
	return &acc, nil
}
