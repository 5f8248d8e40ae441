package gpu

import (
	"testing"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	nvml.Device
	name    string
	temp    uint32
	tempRet nvml.Return
}

func (d *fakeDevice) GetName() (string, nvml.Return) {
	return d.name, nvml.SUCCESS
}

func (d *fakeDevice) GetTemperature(nvml.TemperatureSensors) (uint32, nvml.Return) {
	return d.temp, d.tempRet
}

type fakeNVML struct {
	initErr  error
	devices  []nvml.Device
	shutdown int
}

func (f *fakeNVML) Initialize() error { return f.initErr }

func (f *fakeNVML) Shutdown() error {
	f.shutdown++
	return nil
}

func (f *fakeNVML) GetDeviceCount() (int, error) { return len(f.devices), nil }

func (f *fakeNVML) GetDevice(index int) (nvml.Device, error) { return f.devices[index], nil }

func TestOpenReadsPrimaryDevice(t *testing.T) {
	ctrl := &fakeNVML{devices: []nvml.Device{
		&fakeDevice{name: "RTX 4090", temp: 61, tempRet: nvml.SUCCESS},
		&fakeDevice{name: "RTX 3060", tempRet: nvml.ERROR_NOT_SUPPORTED},
	}}

	g, err := open(ctrl)
	require.NoError(t, err)

	assert.Equal(t, "RTX 4090", g.Name())

	temp, err := g.Temperature()
	require.NoError(t, err)
	assert.Equal(t, Temperature(61), temp)

	assert.Equal(t, []Reading{{Index: 0, Name: "RTX 4090", Temperature: 61}}, g.Readings())

	require.NoError(t, g.Close())
	require.NoError(t, g.Close())
	assert.Equal(t, 1, ctrl.shutdown)

	_, err = g.Temperature()
	assert.True(t, errors.HasCode(err, ErrNotInitialized))
}

func TestOpenWithoutDevices(t *testing.T) {
	ctrl := &fakeNVML{}

	_, err := open(ctrl)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrDeviceNotFound))
	assert.Equal(t, 1, ctrl.shutdown)
}

func TestOpenInitFailure(t *testing.T) {
	_, err := open(&fakeNVML{initErr: errors.New().New(ErrInitFailed)})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInitFailed))
}

func TestTemperatureReadFailure(t *testing.T) {
	g, err := open(&fakeNVML{devices: []nvml.Device{&fakeDevice{name: "T4", tempRet: nvml.ERROR_UNKNOWN}}})
	require.NoError(t, err)

	_, err = g.Temperature()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrTemperatureReadFailed))
}
