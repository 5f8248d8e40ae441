package telemetry

import (
	"context"
	"time"

	"codeberg.org/mutker/hostctl/internal/platform"
)

const (
	UnknownPercent   = -1
	UnknownRemaining = "--"
	UnknownPlan      = "Unknown"
)

// Source is the subset of platform facts the poller reads every tick.
type Source interface {
	PowerStatus(ctx context.Context) (platform.PowerStatus, error)
	ActivePowerPlan(ctx context.Context) (string, error)
}

// Notifier is called with the committed snapshot after every tick.
type Notifier func(Snapshot)

// ChargeState is a tri-state charging flag.
type ChargeState int8

const (
	ChargeUnknown ChargeState = iota
	ChargeDischarging
	ChargeCharging
)

// Bool returns the charging flag and whether it is known.
func (c ChargeState) Bool() (charging, known bool) {
	switch c {
	case ChargeCharging:
		return true, true
	case ChargeDischarging:
		return false, true
	default:
		return false, false
	}
}

// Value returns the flag as true, false or nil for unknown.
func (c ChargeState) Value() any {
	if v, ok := c.Bool(); ok {
		return v
	}

	return nil
}

func (c ChargeState) String() string {
	switch c {
	case ChargeCharging:
		return "charging"
	case ChargeDischarging:
		return "discharging"
	default:
		return "unknown"
	}
}

// Snapshot is the battery/power record shared between the poller and its
// readers. It holds no references, so a copy is fully independent.
type Snapshot struct {
	BatteryPercent int
	Charging       ChargeState
	Remaining      string
	PowerPlan      string
	UpdatedAt      time.Time
}

// UnknownSnapshot returns a snapshot with every field unknown.
func UnknownSnapshot() Snapshot {
	return Snapshot{
		BatteryPercent: UnknownPercent,
		Charging:       ChargeUnknown,
		Remaining:      UnknownRemaining,
		PowerPlan:      UnknownPlan,
	}
}

// BatteryKnown reports whether BatteryPercent holds a measured value.
func (s Snapshot) BatteryKnown() bool {
	return s.BatteryPercent >= 0
}

// Battery returns the percentage, or nil when unknown.
func (s Snapshot) Battery() any {
	if !s.BatteryKnown() {
		return nil
	}

	return s.BatteryPercent
}
