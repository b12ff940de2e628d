package particle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tfaccessory "github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/config"
	"github.com/cloudkucooland/auroralights/devices"
	"github.com/cloudkucooland/auroralights/platform"
)

type fakeCloud struct {
	mu    sync.Mutex
	vars  map[string]string
	calls []string
	reads int
	err   error
}

func (f *fakeCloud) GetVariable(ctx context.Context, deviceID, accessToken, name string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.vars[name]
	if !ok {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "Variable not found"}
	}
	return json.RawMessage(v), nil
}

func (f *fakeCloud) CallFunction(ctx context.Context, deviceID, accessToken, name, argument string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, fmt.Sprintf("%s(%s)", name, argument))
	return 1, nil
}

func (f *fakeCloud) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeCloud) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeCloud) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// stand-in for the HomeControl platform
type stubHC struct{}

func (s stubHC) Startup(c *config.Config) platform.Control { return s }
func (s stubHC) Background()                               {}
func (s stubHC) Shutdown() platform.Control                { return s }

func (s stubHC) AddAccessory(a *tfaccessory.TFAccessory) error { return nil }

func (s stubHC) GetAccessory(n string) (*tfaccessory.TFAccessory, bool) { return nil, false }

func setup(t *testing.T, profile string) (*fakeCloud, *tfaccessory.TFAccessory) {
	t.Helper()
	lights.mu.Lock()
	lights.ls = make(map[string]*tfaccessory.TFAccessory)
	lights.mu.Unlock()

	platform.RegisterPlatform("HomeControl", stubHC{})

	fc := &fakeCloud{vars: map[string]string{
		"currentMode": "1", "mode": "1",
		"isOn":       "true",
		"brightness": "255", "bright": "255",
		"hue": "0", "sat": "255",
	}}
	p := Platform{Log: quietLogger(), Cloud: fc}
	p.Startup(&config.Config{})

	a := &tfaccessory.TFAccessory{
		Platform:    "Particle",
		Name:        "porch",
		DeviceID:    "e00fce68a1b2c3d4e5f60718",
		AccessToken: "tok",
		Profile:     profile,
	}
	require.NoError(t, p.AddAccessory(a))
	return fc, a
}

func remoteConn(t *testing.T) net.Conn {
	c1, c2 := net.Pipe()
	t.Cleanup(func() {
		c1.Close()
		c2.Close()
	})
	return c1
}

func TestAddAccessory(t *testing.T) {
	_, a := setup(t, "")

	require.NotNil(t, a.Accessory)
	require.NotNil(t, a.Adapter)
	assert.Equal(t, uint64(0xe00fce68a1b2), a.Info.ID)
	// accessory information plus three patterns
	assert.Len(t, a.Accessory.GetServices(), 4)

	lb := a.Device.(*devices.AuroraLights)
	require.Len(t, lb.Patterns, 3)
	assert.Equal(t, "porch: Fairy", lb.Patterns[0].ServiceName())
	assert.NotNil(t, lb.Patterns[0].Hue)
	assert.Equal(t, "Alex Wayne", a.Accessory.Info.Manufacturer.GetValue())

	got, ok := Platform{}.GetAccessory("porch")
	assert.True(t, ok)
	assert.Same(t, a, got)

	// second add with the same name is ignored
	dup := &tfaccessory.TFAccessory{Name: "porch", DeviceID: "x", AccessToken: "y"}
	assert.NoError(t, Platform{}.AddAccessory(dup))
	assert.Nil(t, dup.Adapter)
}

func TestAddAccessory_BadConfig(t *testing.T) {
	setup(t, "")
	err := Platform{}.AddAccessory(&tfaccessory.TFAccessory{Name: "notoken", DeviceID: "abc"})
	assert.Error(t, err)
	err = Platform{}.AddAccessory(&tfaccessory.TFAccessory{Name: "badprofile", DeviceID: "abc", AccessToken: "t", Profile: "rgbw"})
	assert.Error(t, err)
}

func TestBasicProfileHasNoColor(t *testing.T) {
	_, a := setup(t, "basic")
	lb := a.Device.(*devices.AuroraLights)
	for _, p := range lb.Patterns {
		assert.Nil(t, p.Hue)
		assert.Len(t, p.GetCharacteristics(), 3)
	}
}

func TestHCSetOnClearsSiblings(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)
	lb.Patterns[0].On.SetValue(true)
	lb.Patterns[1].On.SetValue(true)

	lb.Patterns[2].On.UpdateValueFromConnection(true, remoteConn(t))

	assert.Equal(t, []string{"changeMode(2)"}, fc.callLog())
	assert.False(t, lb.Patterns[0].On.Value.(bool))
	assert.False(t, lb.Patterns[1].On.Value.(bool))
	assert.True(t, lb.Patterns[2].On.Value.(bool))
}

func TestHCSetBrightness(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)

	lb.Patterns[0].Brightness.UpdateValueFromConnection(100, remoteConn(t))
	assert.Equal(t, []string{"setBrightness(255)"}, fc.callLog())
}

func TestHCGet(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)

	assert.False(t, lb.Patterns[0].On.GetValue())
	assert.True(t, lb.Patterns[1].On.GetValue())
	assert.Equal(t, 100, lb.Patterns[1].Brightness.GetValue())
	assert.Equal(t, 100.0, lb.Patterns[1].Saturation.GetValue())

	// on failure the last value stays
	fc.setErr(errors.New("device offline"))
	assert.True(t, lb.Patterns[1].On.GetValue())
	assert.Equal(t, 100, lb.Patterns[1].Brightness.GetValue())
}

func TestHCControllerReadsDoNotWrite(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)
	fc.mu.Lock()
	fc.vars["hue"] = "128"
	fc.mu.Unlock()

	// cached values are stale: Fairy shown on, Duo off, no brightness or color
	lb.Patterns[0].On.SetValue(true)
	conn := remoteConn(t)

	assert.Equal(t, false, lb.Patterns[0].On.GetValueFromConnection(conn))
	assert.Equal(t, true, lb.Patterns[1].On.GetValueFromConnection(conn))
	assert.EqualValues(t, 100, lb.Patterns[1].Brightness.GetValueFromConnection(conn))
	assert.EqualValues(t, 181, lb.Patterns[1].Hue.GetValueFromConnection(conn))
	assert.EqualValues(t, 100, lb.Patterns[1].Saturation.GetValueFromConnection(conn))

	assert.Empty(t, fc.callLog())
	assert.True(t, lb.Patterns[1].On.Value.(bool))
	assert.False(t, lb.Patterns[2].On.Value.(bool))
}

func TestBackgroundPuller(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)
	fc.mu.Lock()
	fc.vars["currentMode"] = "0"
	fc.vars["brightness"] = "0"
	fc.mu.Unlock()

	backgroundPuller(time.Second)

	assert.True(t, lb.Patterns[0].On.Value.(bool))
	assert.False(t, lb.Patterns[1].On.Value.(bool))
	assert.EqualValues(t, 0, lb.Patterns[2].Brightness.Value)
}

func TestPollerLifecycle(t *testing.T) {
	fc, _ := setup(t, "basic")
	p := Platform{Log: quietLogger(), Cloud: fc}.Startup(&config.Config{ParticlePullRate: 1})
	p.Background()
	p.Background()

	assert.Eventually(t, func() bool { return fc.readCount() > 0 }, 5*time.Second, 50*time.Millisecond)

	p = p.Shutdown()
	lights.mu.Lock()
	assert.Nil(t, lights.stop)
	lights.mu.Unlock()

	// restarting after shutdown is allowed
	p = p.Startup(&config.Config{})
	p.Background()
	lights.mu.Lock()
	assert.Nil(t, lights.stop)
	lights.mu.Unlock()
	p.Shutdown()
}

func serve(r *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	RegisterRoutes(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestStatusRoute(t *testing.T) {
	setup(t, "")

	w := serve(httptest.NewRequest(http.MethodGet, "/aurora/porch", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var ls lightStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&ls))
	assert.Equal(t, "porch", ls.Name)
	assert.Equal(t, "extended", ls.Profile)
	assert.Equal(t, 1, ls.State.Mode)
	require.Len(t, ls.Patterns, 3)
	assert.False(t, ls.Patterns[0].On)
	assert.True(t, ls.Patterns[1].On)

	w = serve(httptest.NewRequest(http.MethodGet, "/aurora/garage", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatternRoute(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)

	w := serve(httptest.NewRequest(http.MethodPut, "/aurora/porch/pattern/0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"changeMode(0)"}, fc.callLog())
	assert.True(t, lb.Patterns[0].On.Value.(bool))
	assert.False(t, lb.Patterns[1].On.Value.(bool))

	w = serve(httptest.NewRequest(http.MethodPut, "/aurora/porch/pattern/7", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	fc.setErr(&APIError{StatusCode: http.StatusBadRequest, Message: "Device is not connected"})
	w = serve(httptest.NewRequest(http.MethodPut, "/aurora/porch/pattern/1", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBrightnessRoute(t *testing.T) {
	fc, a := setup(t, "")
	lb := a.Device.(*devices.AuroraLights)

	w := serve(httptest.NewRequest(http.MethodPost, "/aurora/porch/brightness/50", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"setBrightness(128)"}, fc.callLog())
	for _, p := range lb.Patterns {
		assert.EqualValues(t, 50, p.Brightness.Value)
	}

	w = serve(httptest.NewRequest(http.MethodPost, "/aurora/porch/brightness/150", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeviceToID(t *testing.T) {
	assert.Equal(t, uint64(0xe00fce68a1b2), deviceToID("e00fce68a1b2c3d4e5f60718"))
	assert.Equal(t, deviceToID("not-a-hex-device"), deviceToID("not-a-hex-device"))
	assert.Greater(t, deviceToID("short"), uint64(1))
	assert.Greater(t, deviceToID("000000000000"), uint64(1))
}
