package gpu

import (
	"sync"

	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GPU is a read-only NVML sensor for every NVIDIA device on the host.
// Device 0 is the primary device.
type GPU struct {
	ctrl    nvmlController
	devices []nvml.Device
	names   []string
	mu      sync.Mutex
	closed  bool
}

// Open initializes NVML. Hosts without an NVIDIA driver return an error
// carrying ErrInitFailed or ErrDeviceNotFound.
func Open() (*GPU, error) {
	return open(&nvmlWrapper{})
}

func open(ctrl nvmlController) (*GPU, error) {
	errFactory := errors.New()

	if err := ctrl.Initialize(); err != nil {
		return nil, err
	}

	count, err := ctrl.GetDeviceCount()
	if err != nil {
		_ = ctrl.Shutdown()
		return nil, err
	}
	if count == 0 {
		_ = ctrl.Shutdown()
		return nil, errFactory.WithMessage(ErrDeviceNotFound, "no NVIDIA devices")
	}

	g := &GPU{ctrl: ctrl}
	for i := 0; i < count; i++ {
		device, err := ctrl.GetDevice(i)
		if err != nil {
			_ = ctrl.Shutdown()
			return nil, err
		}

		name, ret := device.GetName()
		if !IsNVMLSuccess(ret) {
			logger.Warn().Msgf("Failed to get GPU name: %v", newNVMLError(ret))
			name = "unknown"
		}

		g.devices = append(g.devices, device)
		g.names = append(g.names, name)
	}

	logger.Info().Msgf("Detected GPU: %v", g.names[0])
	logger.Debug().Msgf("Detected GPU count: %d", count)

	return g, nil
}

// Name returns the primary device name.
func (g *GPU) Name() string {
	return g.names[0]
}

// Temperature reads the primary device core temperature.
func (g *GPU) Temperature() (Temperature, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.temperature(0)
}

// Readings returns name and temperature of every device; devices whose
// temperature cannot be read are omitted.
func (g *GPU) Readings() []Reading {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Reading, 0, len(g.devices))
	for i := range g.devices {
		temp, err := g.temperature(i)
		if err != nil {
			logger.Debug().Err(err).Int("index", i).Msg("Skipping GPU reading")
			continue
		}
		out = append(out, Reading{Index: i, Name: g.names[i], Temperature: temp})
	}

	return out
}

func (g *GPU) temperature(index int) (Temperature, error) {
	if g.closed {
		return 0, errors.New().New(ErrNotInitialized)
	}

	temp, ret := g.devices[index].GetTemperature(nvml.TEMPERATURE_GPU)
	if !IsNVMLSuccess(ret) {
		return 0, errors.New().Wrap(ErrTemperatureReadFailed, newNVMLError(ret))
	}

	return Temperature(temp), nil
}

// Close shuts NVML down. Subsequent reads fail with ErrNotInitialized.
func (g *GPU) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true

	return g.ctrl.Shutdown()
}
