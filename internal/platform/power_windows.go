//go:build windows

package platform

import (
	"context"
	"os"
	"unsafe"

	"codeberg.org/mutker/hostctl/internal/errors"
	"golang.org/x/sys/windows"
)

// powercfg scheme GUIDs.
var planSchemes = map[PowerPlan]string{
	PlanBalanced:   "381b4222-f694-41f0-9685-ff5bb260df2e",
	PlanHigh:       "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c",
	PlanPowerSaver: "a1841308-3541-4fab-bc81-f71556f20b4a",
}

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procGetSystemPowerStatus = kernel32.NewProc("GetSystemPowerStatus")
)

const (
	batteryFlagNoBattery = 128
	unknownByte          = 255
)

// systemPowerStatus mirrors SYSTEM_POWER_STATUS.
type systemPowerStatus struct {
	ACLineStatus        byte
	BatteryFlag         byte
	BatteryLifePercent  byte
	SystemStatusFlag    byte
	BatteryLifeTime     uint32
	BatteryFullLifeTime uint32
}

func rootMount() string {
	if drive := os.Getenv("SystemDrive"); drive != "" {
		return drive + `\`
	}

	return `C:\`
}

type windowsPower struct {
	runner Runner
}

func newPower(opts Options) Power {
	return &windowsPower{runner: opts.Runner}
}

func (p *windowsPower) PowerStatus(_ context.Context) (PowerStatus, error) {
	errFactory := errors.New()

	var sps systemPowerStatus
	r1, _, err := procGetSystemPowerStatus.Call(uintptr(unsafe.Pointer(&sps)))
	if r1 == 0 {
		return PowerStatus{}, errFactory.Wrap(ErrQueryFailed, err)
	}
	if sps.BatteryFlag&batteryFlagNoBattery != 0 {
		return PowerStatus{}, errFactory.WithMessage(ErrNoBattery, "no battery present")
	}

	status := PowerStatus{
		Percent:          int(sps.BatteryLifePercent),
		SecondsRemaining: int64(sps.BatteryLifeTime),
	}
	if sps.BatteryLifePercent == unknownByte {
		status.Percent = -1
	}
	if sps.BatteryLifeTime == 0xFFFFFFFF {
		status.SecondsRemaining = -1
	}

	switch sps.ACLineStatus {
	case 0:
		status.AC = ACOffline
	case 1:
		status.AC = ACOnline
	default:
		status.AC = ACUnknown
	}

	return status, nil
}

func (p *windowsPower) ActivePowerPlan(ctx context.Context) (string, error) {
	out, err := output(ctx, p.runner, "powercfg", "/getactivescheme")
	if err != nil {
		return "", err
	}

	return parsePowercfgScheme(out), nil
}

func (p *windowsPower) SetPowerPlan(ctx context.Context, plan PowerPlan) error {
	scheme, ok := planSchemes[plan]
	if !ok {
		return errors.New().WithData(ErrInvalidPowerPlan, string(plan))
	}

	return run(ctx, p.runner, "powercfg", "/setactive", scheme)
}

func (p *windowsPower) Transition(ctx context.Context, action PowerAction) error {
	cmd, ok := transitionCommand(action)
	if !ok {
		return errors.New().WithData(ErrUnsupported, string(action))
	}

	_, err := p.runner.Run(ctx, cmd)
	return err
}

func transitionCommand(action PowerAction) (Command, bool) {
	switch action {
	case ActionShutdown:
		return Command{Name: "shutdown", Args: []string{"/s", "/t", "0"}}, true
	case ActionRestart:
		return Command{Name: "shutdown", Args: []string{"/r", "/t", "0"}}, true
	case ActionSleep:
		return Command{Name: "rundll32.exe", Args: []string{"powrprof.dll,SetSuspendState", "0,1,0"}}, true
	case ActionLock:
		return Command{Name: "rundll32.exe", Args: []string{"user32.dll,LockWorkStation"}}, true
	case ActionLogout:
		return Command{Name: "shutdown", Args: []string{"/l"}}, true
	default:
		return Command{}, false
	}
}
