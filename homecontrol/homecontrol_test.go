package tfhc

import (
	"testing"

	"github.com/brutella/hc/accessory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfaccessory "github.com/cloudkucooland/auroralights/accessory"
)

func TestAddAccessory(t *testing.T) {
	h := HCPlatform{}
	assert.Error(t, h.AddAccessory(&tfaccessory.TFAccessory{Name: "bare"}))

	for _, n := range []string{"porch", "deck"} {
		a := &tfaccessory.TFAccessory{Name: n}
		a.Accessory = accessory.New(accessory.Info{Name: n}, accessory.TypeLightbulb)
		require.NoError(t, h.AddAccessory(a))
	}

	a, ok := h.GetAccessory("porch")
	require.True(t, ok)
	assert.Equal(t, "porch", a.Name)
	_, ok = h.GetAccessory("bare")
	assert.False(t, ok)

	accs := accessories()
	require.Len(t, accs, 2)
	assert.Equal(t, "deck", accs[0].Info.Name.GetValue())
	assert.Equal(t, "porch", accs[1].Info.Name.GetValue())
}
