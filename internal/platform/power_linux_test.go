//go:build linux

package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/hostctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSupply(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()

	dir := filepath.Join(root, "class", "power_supply", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for k, v := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, k), []byte(v+"\n"), 0o644))
	}
}

func TestLinuxPowerStatusDischarging(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "AC", map[string]string{"type": "Mains", "online": "0"})
	writeSupply(t, root, "BAT0", map[string]string{
		"type":       "Battery",
		"capacity":   "17",
		"status":     "Discharging",
		"energy_now": "10000000",
		"power_now":  "40000000",
	})

	p := newPower(Options{Runner: newFakeRunner(), SysfsRoot: root})
	status, err := p.PowerStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 17, status.Percent)
	assert.Equal(t, ACOffline, status.AC)
	assert.Equal(t, int64(900), status.SecondsRemaining)
}

func TestLinuxPowerStatusCharging(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "ADP1", map[string]string{"type": "Mains", "online": "1"})
	writeSupply(t, root, "BAT1", map[string]string{"type": "Battery", "capacity": "64", "status": "Charging"})

	status, err := newPower(Options{SysfsRoot: root}).PowerStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 64, status.Percent)
	assert.Equal(t, ACOnline, status.AC)
	assert.Equal(t, int64(-1), status.SecondsRemaining)
}

func TestLinuxPowerStatusWithoutMains(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "BAT0", map[string]string{
		"type":        "Battery",
		"capacity":    "50",
		"status":      "Discharging",
		"charge_now":  "2000000",
		"current_now": "1000000",
	})

	status, err := newPower(Options{SysfsRoot: root}).PowerStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ACOffline, status.AC)
	assert.Equal(t, int64(7200), status.SecondsRemaining)
}

func TestLinuxPowerStatusIgnoresPeripheralBatteries(t *testing.T) {
	root := t.TempDir()
	writeSupply(t, root, "hidpp_battery_0", map[string]string{"type": "Battery", "scope": "Device", "capacity": "90"})

	_, err := newPower(Options{SysfsRoot: root}).PowerStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrNoBattery))
}

func TestLinuxPowerStatusNoSysfs(t *testing.T) {
	_, err := newPower(Options{SysfsRoot: filepath.Join(t.TempDir(), "missing")}).PowerStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrNoBattery))
}

func TestLinuxPowerPlans(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["powerprofilesctl get"] = "performance"
	p := newPower(Options{Runner: runner})

	name, err := p.ActivePowerPlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "High performance", name)

	require.NoError(t, p.SetPowerPlan(context.Background(), PlanPowerSaver))
	assert.Contains(t, runner.commands(), "powerprofilesctl set power-saver")

	err = p.SetPowerPlan(context.Background(), PowerPlan("turbo"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidPowerPlan))
	assert.Len(t, runner.commands(), 2)
}

func TestLinuxTransitionsRunCommands(t *testing.T) {
	runner := newFakeRunner()
	p := newPower(Options{Runner: runner})

	for _, a := range []PowerAction{ActionShutdown, ActionRestart, ActionSleep, ActionLock, ActionLogout} {
		require.NoError(t, p.Transition(context.Background(), a), a)
	}

	cmds := runner.commands()
	require.Len(t, cmds, 5)
	assert.Equal(t, "systemctl poweroff", cmds[0])
	assert.Equal(t, "systemctl reboot", cmds[1])
	assert.Equal(t, "systemctl suspend", cmds[2])
	assert.Equal(t, "loginctl lock-sessions", cmds[3])
	assert.Contains(t, cmds[4], "loginctl terminate-user")
}

func TestLinuxTransitionFailureSurfaces(t *testing.T) {
	runner := newFakeRunner()
	runner.failures["systemctl poweroff"] = errors.New().WithMessage(ErrCommandFailed, "systemctl exited with status 1")
	p := newPower(Options{Runner: runner})

	err := p.Transition(context.Background(), ActionShutdown)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrCommandFailed))
}
