package auroralights

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	core := archunit.Packages("core", []string{".../auroralights/aurora"})
	host := archunit.Packages("host", []string{
		".../auroralights/devices",
		".../auroralights/homecontrol",
		".../auroralights/particle",
		".../auroralights/tfhttp",
	})

	// the adapter only talks to HomeKit and the cloud through its own interfaces
	if err := core.ShouldNotReferLayers(host); err != nil {
		t.Errorf("aurora depends on a host package: %v", err)
	}
}

func TestCorePresent(t *testing.T) {
	core := archunit.Packages("core", []string{".../auroralights/aurora"})
	if len(core.Packages()) == 0 {
		t.Error("no aurora package found")
	}
}
