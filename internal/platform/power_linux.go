//go:build linux

package platform

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/hostctl/internal/errors"
)

// power-profiles-daemon profile names.
var planSchemes = map[PowerPlan]string{
	PlanBalanced:   "balanced",
	PlanHigh:       "performance",
	PlanPowerSaver: "power-saver",
}

var schemeNames = map[string]string{
	"balanced":    "Balanced",
	"performance": "High performance",
	"power-saver": "Power saver",
}

func rootMount() string {
	return "/"
}

type linuxPower struct {
	runner Runner
	sysfs  string
}

func newPower(opts Options) Power {
	return &linuxPower{runner: opts.Runner, sysfs: opts.SysfsRoot}
}

// PowerStatus reads /sys/class/power_supply. The first battery wins; any
// online mains supply marks AC online.
func (p *linuxPower) PowerStatus(_ context.Context) (PowerStatus, error) {
	errFactory := errors.New()

	dir := filepath.Join(p.sysfs, "class", "power_supply")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return PowerStatus{}, errFactory.Wrap(ErrNoBattery, err)
		}
		return PowerStatus{}, errFactory.Wrap(ErrQueryFailed, err)
	}

	status := PowerStatus{Percent: -1, AC: ACUnknown, SecondsRemaining: -1}
	var (
		foundBattery bool
		sawMains     bool
		mainsOnline  bool
		batteryState string
	)

	for _, e := range entries {
		supply := filepath.Join(dir, e.Name())
		switch readSysfs(supply, "type") {
		case "Mains":
			sawMains = true
			if readSysfs(supply, "online") == "1" {
				mainsOnline = true
			}
		case "Battery":
			if foundBattery || readSysfs(supply, "scope") == "Device" {
				continue
			}
			foundBattery = true
			if pct, err := strconv.Atoi(readSysfs(supply, "capacity")); err == nil {
				status.Percent = pct
			}
			batteryState = readSysfs(supply, "status")
			status.SecondsRemaining = secondsRemaining(supply, batteryState)
		}
	}

	if !foundBattery {
		return PowerStatus{}, errFactory.WithMessage(ErrNoBattery, "no battery present")
	}

	switch {
	case mainsOnline:
		status.AC = ACOnline
	case sawMains:
		status.AC = ACOffline
	default:
		status.AC = acFromBatteryState(batteryState)
	}

	return status, nil
}

func acFromBatteryState(state string) ACLine {
	switch state {
	case "Charging", "Full", "Not charging":
		return ACOnline
	case "Discharging":
		return ACOffline
	default:
		return ACUnknown
	}
}

// secondsRemaining estimates time to empty from energy/power or
// charge/current pairs. Only meaningful while discharging.
func secondsRemaining(supply, state string) int64 {
	if state != "Discharging" {
		return -1
	}

	pairs := [][2]string{{"energy_now", "power_now"}, {"charge_now", "current_now"}}
	for _, pair := range pairs {
		left, err1 := strconv.ParseInt(readSysfs(supply, pair[0]), 10, 64)
		rate, err2 := strconv.ParseInt(readSysfs(supply, pair[1]), 10, 64)
		if err1 != nil || err2 != nil || rate <= 0 {
			continue
		}
		return left * 3600 / rate
	}

	return -1
}

func readSysfs(dir, name string) string {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}

func (p *linuxPower) ActivePowerPlan(ctx context.Context) (string, error) {
	out, err := output(ctx, p.runner, "powerprofilesctl", "get")
	if err != nil {
		return "", err
	}

	profile := firstLine(out)
	if name, ok := schemeNames[profile]; ok {
		return name, nil
	}

	return profile, nil
}

func (p *linuxPower) SetPowerPlan(ctx context.Context, plan PowerPlan) error {
	scheme, ok := planSchemes[plan]
	if !ok {
		return errors.New().WithData(ErrInvalidPowerPlan, string(plan))
	}

	return run(ctx, p.runner, "powerprofilesctl", "set", scheme)
}

func (p *linuxPower) Transition(ctx context.Context, action PowerAction) error {
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
		return Command{Name: "systemctl", Args: []string{"poweroff"}}, true
	case ActionRestart:
		return Command{Name: "systemctl", Args: []string{"reboot"}}, true
	case ActionSleep:
		return Command{Name: "systemctl", Args: []string{"suspend"}}, true
	case ActionLock:
		return Command{Name: "loginctl", Args: []string{"lock-sessions"}}, true
	case ActionLogout:
		return Command{Name: "loginctl", Args: []string{"terminate-user", strconv.Itoa(os.Getuid())}}, true
	default:
		return Command{}, false
	}
}
