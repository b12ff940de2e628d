package accessory

import (
	"testing"

	hcaccessory "github.com/brutella/hc/accessory"
	"github.com/cloudkucooland/auroralights/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterConfig(t *testing.T) {
	a := TFAccessory{
		Name:        "porch",
		DeviceID:    "abc",
		AccessToken: "tok",
		Profile:     "basic",
	}
	c, err := a.AdapterConfig()
	require.NoError(t, err)
	assert.Equal(t, "porch", c.Name)
	assert.Equal(t, aurora.ProfileBasic, c.Profile)

	a.Info = hcaccessory.Info{Name: "Porch Lights"}
	a.Profile = ""
	c, err = a.AdapterConfig()
	require.NoError(t, err)
	assert.Equal(t, "Porch Lights", c.Name)
	assert.Equal(t, aurora.ProfileExtended, c.Profile)

	a.Profile = "nope"
	_, err = a.AdapterConfig()
	assert.Error(t, err)
}
