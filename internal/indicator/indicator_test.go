package indicator

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/mutker/hostctl/internal/telemetry"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorForPercent(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		pct  int
		want lipgloss.Color
	}{
		{0, ColorCritical},
		{19, ColorCritical},
		{20, ColorWarning},
		{29, ColorWarning},
		{30, ColorNominal},
		{100, ColorNominal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, th.ColorForPercent(tt.pct), "pct=%d", tt.pct)
	}
}

func TestColorForPercentCustomThresholds(t *testing.T) {
	th := Thresholds{Low: 10, Medium: 50}

	assert.Equal(t, ColorCritical, th.ColorForPercent(9))
	assert.Equal(t, ColorWarning, th.ColorForPercent(10))
	assert.Equal(t, ColorWarning, th.ColorForPercent(49))
	assert.Equal(t, ColorNominal, th.ColorForPercent(50))
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, textDark, ContrastText(ColorWarning))
	assert.Equal(t, textLight, ContrastText(ColorCritical))
	assert.Equal(t, textLight, ContrastText(ColorNominal))
	assert.Equal(t, textDark, ContrastText("#FFFFFF"))
	assert.Equal(t, textLight, ContrastText("#000000"))
	assert.Equal(t, textDark, ContrastText("not-a-color"))
	assert.Equal(t, textDark, ContrastText("#GGGGGG"))
	assert.Equal(t, textDark, ContrastText(""))
}

func TestLabel(t *testing.T) {
	discharging := telemetry.Snapshot{
		BatteryPercent: 17,
		Charging:       telemetry.ChargeDischarging,
		Remaining:      "15m",
	}

	assert.Equal(t, "17% • 15m", Label(discharging, ShowBoth))
	assert.Equal(t, "17%", Label(discharging, ShowPercent))
	assert.Equal(t, "15m", Label(discharging, ShowTime))

	charging := discharging
	charging.Charging = telemetry.ChargeCharging
	assert.Equal(t, "⚡", Label(charging, ShowBoth))

	assert.Equal(t, "--", Label(telemetry.UnknownSnapshot(), ShowBoth))
}

func TestNotifyWritesLines(t *testing.T) {
	var buf bytes.Buffer
	ind := New(&buf, Options{})

	ind.Notify(telemetry.Snapshot{
		BatteryPercent: 50,
		Charging:       telemetry.ChargeDischarging,
		Remaining:      "2h 05m",
	})
	ind.Notify(telemetry.UnknownSnapshot())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "50% • 2h 05m")
	assert.Equal(t, barWidth, lipgloss.Width(lines[0]))
	assert.Contains(t, lines[1], "--")
	assert.Equal(t, barWidth, lipgloss.Width(lines[1]))
}

type countingRefresher struct {
	n atomic.Int32
}

func (c *countingRefresher) Refresh() { c.n.Add(1) }

func TestRunRefreshesWhenStale(t *testing.T) {
	ind := New(&bytes.Buffer{}, Options{StaleAfter: 10 * time.Millisecond})
	r := &countingRefresher{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ind.Run(ctx, r)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.n.Load() > 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRunWithoutStaleCheckWaitsForCancel(t *testing.T) {
	ind := New(&bytes.Buffer{}, Options{})
	r := &countingRefresher{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ind.Run(ctx, r)
	assert.Zero(t, r.n.Load())
}

func TestNewKeepsZeroThresholds(t *testing.T) {
	ind := New(&bytes.Buffer{}, Options{Thresholds: Thresholds{}})

	assert.Equal(t, Thresholds{}, ind.opts.Thresholds)
	assert.Equal(t, ColorNominal, ind.opts.Thresholds.ColorForPercent(0))
}
