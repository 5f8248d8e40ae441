package action_test

import (
	"context"
	"os"
	"sync"
	"time"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/gpu"
	"codeberg.org/mutker/hostctl/internal/platform"
	"codeberg.org/mutker/hostctl/internal/telemetry"
	"codeberg.org/mutker/hostctl/internal/wol"
)

type fakeFacts struct {
	cpuErr error
	temp   float64
	hasT   bool
}

func (f *fakeFacts) Info(context.Context) (platform.HostInfo, error) {
	return platform.HostInfo{Hostname: "testhost", OS: "linux", Arch: "amd64"}, nil
}

func (f *fakeFacts) CPUPercent(context.Context) (float64, error) { return 12.5, f.cpuErr }

func (f *fakeFacts) MemoryPercent(context.Context) (float64, error) { return 40.1, nil }

func (f *fakeFacts) DiskPercent(context.Context) (float64, error) { return 70, nil }

func (f *fakeFacts) Temperature(context.Context) (float64, bool) { return f.temp, f.hasT }

func (f *fakeFacts) Uptime(context.Context) (time.Duration, error) {
	return 26*time.Hour + 5*time.Minute + 3*time.Second, nil
}

func (f *fakeFacts) Interfaces(context.Context) (map[string][]platform.InterfaceAddr, error) {
	return map[string][]platform.InterfaceAddr{
		"eth0": {{Address: "192.168.1.2", Netmask: "255.255.255.0", Broadcast: "192.168.1.255"}},
	}, nil
}

func (f *fakeFacts) Partitions(context.Context) ([]platform.Partition, error) {
	return []platform.Partition{{Device: "/dev/sda1", Mountpoint: "/", TotalGB: 100}}, nil
}

func (f *fakeFacts) Processes(context.Context) ([]platform.ProcessInfo, error) {
	return []platform.ProcessInfo{{PID: 1, Name: "init"}}, nil
}

type fakePower struct {
	mu          sync.Mutex
	plans       []platform.PowerPlan
	transitions []platform.PowerAction
	err         error
	ctxErr      error
}

func (f *fakePower) PowerStatus(context.Context) (platform.PowerStatus, error) {
	return platform.PowerStatus{}, nil
}

func (f *fakePower) ActivePowerPlan(context.Context) (string, error) { return "Balanced", nil }

func (f *fakePower) SetPowerPlan(_ context.Context, plan platform.PowerPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, plan)
	return f.err
}

func (f *fakePower) Transition(ctx context.Context, a platform.PowerAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = append(f.transitions, a)
	f.ctxErr = ctx.Err()
	return f.err
}

type fakeProcesses struct {
	alive  map[int32]string
	denied map[int32]bool
}

func (f *fakeProcesses) Kill(_ context.Context, pid int32) (string, error) {
	if f.denied[pid] {
		return "", errors.New().Wrap(platform.ErrAccessDenied, os.ErrPermission).WithMessage("Access denied")
	}
	name, ok := f.alive[pid]
	if !ok {
		return "", errors.New().WithMessage(platform.ErrProcessNotFound, "No such process")
	}
	delete(f.alive, pid)
	return name, nil
}

type fakeBrightness struct {
	level int
	sets  []int
}

func (f *fakeBrightness) Brightness(context.Context) (int, error) { return f.level, nil }

func (f *fakeBrightness) SetBrightness(_ context.Context, level int) error {
	f.sets = append(f.sets, level)
	f.level = level
	return nil
}

type fakeInput struct {
	calls []string
}

func (f *fakeInput) PressMediaKey(_ context.Context, key platform.MediaKey) error {
	f.calls = append(f.calls, "key:"+string(key))
	return nil
}

func (f *fakeInput) MoveMouse(context.Context, int, int) error {
	f.calls = append(f.calls, "move")
	return nil
}

func (f *fakeInput) Click(context.Context) error {
	f.calls = append(f.calls, "click")
	return nil
}

func (f *fakeInput) TypeText(_ context.Context, text string) error {
	f.calls = append(f.calls, "type:"+text)
	return nil
}

type fakeScreen struct {
	err error
}

func (f *fakeScreen) Capture(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, []byte("\x89PNG"), 0o600)
}

type fakeVolume struct {
	actions []platform.VolumeAction
}

func (f *fakeVolume) AdjustVolume(_ context.Context, a platform.VolumeAction) error {
	f.actions = append(f.actions, a)
	return nil
}

type fakeDisplay struct {
	offs int
}

func (f *fakeDisplay) DisplayOff(context.Context) error {
	f.offs++
	return nil
}

type fakeWOL struct {
	sent []string
}

func (f *fakeWOL) Send(_ context.Context, mac string) (wol.MAC, error) {
	hw, err := wol.ParseMAC(mac)
	if err != nil {
		return hw, err
	}
	f.sent = append(f.sent, mac)
	return hw, nil
}

type fakeGPU struct{}

func (fakeGPU) Temperature() (gpu.Temperature, error) { return 55, nil }

func (fakeGPU) Readings() []gpu.Reading {
	return []gpu.Reading{{Index: 0, Name: "RTX", Temperature: 55}}
}

type refresher struct {
	n int
}

func (r *refresher) Refresh() { r.n++ }

type observer struct {
	mu    sync.Mutex
	names []string
	kinds []action.Kind
}

func (o *observer) Observe(_ context.Context, req action.Request, res action.Result, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.names = append(o.names, req.Name)
	o.kinds = append(o.kinds, res.Kind)
}

type env struct {
	store      *telemetry.Store
	facts      *fakeFacts
	power      *fakePower
	procs      *fakeProcesses
	brightness *fakeBrightness
	input      *fakeInput
	screen     *fakeScreen
	volume     *fakeVolume
	display    *fakeDisplay
	wol        *fakeWOL
	refresher  *refresher
	observer   *observer
	tempDir    string
}

func newEnv(tempDir string) *env {
	return &env{
		store:      telemetry.NewStore(),
		facts:      &fakeFacts{},
		power:      &fakePower{},
		procs:      &fakeProcesses{alive: map[int32]string{42: "editor"}, denied: map[int32]bool{1: true}},
		brightness: &fakeBrightness{level: 60},
		input:      &fakeInput{},
		screen:     &fakeScreen{},
		volume:     &fakeVolume{},
		display:    &fakeDisplay{},
		wol:        &fakeWOL{},
		refresher:  &refresher{},
		observer:   &observer{},
		tempDir:    tempDir,
	}
}

func (e *env) deps(withCaps bool) action.Deps {
	deps := action.Deps{
		Snapshots: e.store,
		Refresher: e.refresher,
		Facts:     e.facts,
		Power:     e.power,
		Processes: e.procs,
		WOL:       e.wol,
		TempDir:   e.tempDir,
		Now:       func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) },
		Getenv:    func(string) string { return "" },
		Observers: []action.Observer{e.observer},
	}
	if withCaps {
		deps.Capabilities = platform.Capabilities{
			Brightness: e.brightness,
			Input:      e.input,
			Screen:     e.screen,
			Volume:     e.volume,
			Display:    e.display,
		}
	}

	return deps
}

func (e *env) dispatcher(withCaps bool) *action.Dispatcher {
	return action.NewDispatcher(e.deps(withCaps))
}
